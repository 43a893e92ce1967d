package redisad

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"staybook/internal/domain"
)

// SessionRevoker stores revoked session ids (JWT jti) until the token would
// have expired on its own.
type SessionRevoker struct{ c *redis.Client }

var _ domain.SessionRevoker = (*SessionRevoker)(nil)

func NewSessionRevoker(c *redis.Client) *SessionRevoker { return &SessionRevoker{c: c} }

func revokedKey(id string) string { return "staybook:revoked:" + id }

func (s *SessionRevoker) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to remember
	}
	return s.c.Set(ctx, revokedKey(id), "1", ttl).Err()
}

func (s *SessionRevoker) IsRevoked(ctx context.Context, id string) (bool, error) {
	err := s.c.Get(ctx, revokedKey(id)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
