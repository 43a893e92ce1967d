package shared_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"staybook/internal/shared"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "TOKEN_CACHE", "DEFAULT_CITY_CODE", "CORS_ORIGINS", "TOKEN_SAFETY_MARGIN_SECONDS"} {
		t.Setenv(k, "")
	}
	c := shared.Load()
	assert.Equal(t, "prod", c.AppEnv)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "memory", c.TokenCache)
	assert.Equal(t, "PAR", c.DefaultCityCode)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.Equal(t, 300*time.Second, c.TokenMargin)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TOKEN_CACHE", "Redis")
	t.Setenv("DEFAULT_CITY_CODE", "lon")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("TOKEN_SAFETY_MARGIN_SECONDS", "60")
	t.Setenv("SESSION_TTL_MINUTES", "15")
	t.Setenv("REDIS_DB", "not-a-number")

	c := shared.Load()
	assert.Equal(t, "redis", c.TokenCache)
	assert.Equal(t, "LON", c.DefaultCityCode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
	assert.Equal(t, time.Minute, c.TokenMargin)
	assert.Equal(t, 15*time.Minute, c.SessionTTL)
	assert.Equal(t, 0, c.RedisDB)
}

func TestLoad_UnknownTokenCache(t *testing.T) {
	t.Setenv("TOKEN_CACHE", "memcached")
	assert.Equal(t, "memory", shared.Load().TokenCache)
}
