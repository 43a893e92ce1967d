package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
)

const tokenKey = "staybook:amadeus:token"

// TokenCache shares one hotel API token between replicas. The Redis TTL is the
// token's remaining life, so an expired token simply disappears. Redis errors
// are logged and treated as a miss: the caller then fetches a fresh token.
type TokenCache struct{ c *redis.Client }

var _ domain.TokenCache = (*TokenCache)(nil)

func NewTokenCache(c *redis.Client) *TokenCache { return &TokenCache{c: c} }

type storedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *TokenCache) Get(ctx context.Context, now time.Time) (string, bool) {
	b, err := t.c.Get(ctx, tokenKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("token cache read failed")
		}
		observability.ObserveCache("token", "miss")
		return "", false
	}
	var st storedToken
	if err := json.Unmarshal(b, &st); err != nil {
		log.Warn().Err(err).Msg("token cache payload unreadable")
		return "", false
	}
	// the caller's clock decides, Redis TTL only garbage-collects
	if st.Token == "" || !now.Before(st.ExpiresAt) {
		observability.ObserveCache("token", "miss")
		return "", false
	}
	observability.ObserveCache("token", "hit")
	return st.Token, true
}

func (t *TokenCache) Set(ctx context.Context, token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if token == "" || ttl <= 0 {
		if err := t.c.Del(ctx, tokenKey).Err(); err != nil {
			log.Warn().Err(err).Msg("token cache clear failed")
		}
		return
	}
	b, _ := json.Marshal(storedToken{Token: token, ExpiresAt: expiresAt})
	if err := t.c.Set(ctx, tokenKey, b, ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("token cache write failed")
	}
}
