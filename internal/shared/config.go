package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	AmadeusBase   string
	AmadeusKey    string
	AmadeusSecret string
	AmadeusRPS    int
	TokenMargin   time.Duration
	TokenCache    string // memory|redis

	DefaultCityCode string
	CacheTTL        time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	CORSOrigins  []string
	RateLimitRPM int

	Workers      int
	IngestNights int
}

// Load reads the environment, after merging a .env file when one exists.
func Load() Config {
	_ = godotenv.Load()

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/staybook?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		AmadeusBase:   env("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusKey:    env("AMADEUS_API_KEY", ""),
		AmadeusSecret: env("AMADEUS_API_SECRET", ""),
		AmadeusRPS:    atoi("AMADEUS_RPS", 5),
		TokenMargin:   time.Duration(atoi("TOKEN_SAFETY_MARGIN_SECONDS", 300)) * time.Second,
		TokenCache:    strings.ToLower(env("TOKEN_CACHE", "memory")),

		DefaultCityCode: strings.ToUpper(env("DEFAULT_CITY_CODE", "PAR")),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		JWTSecret:  env("JWT_SECRET", ""),
		SessionTTL: time.Duration(atoi("SESSION_TTL_MINUTES", 60*24)) * time.Minute,

		CORSOrigins:  list("CORS_ORIGINS", []string{"*"}),
		RateLimitRPM: atoi("RATE_LIMIT_RPM", 120),

		Workers:      atoi("INGEST_WORKERS", 4),
		IngestNights: atoi("INGEST_NIGHTS", 1),
	}
	if c.AmadeusKey == "" || c.AmadeusSecret == "" {
		log.Warn().Msg("AMADEUS_API_KEY / AMADEUS_API_SECRET are empty")
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; sessions cannot be issued")
	}
	if c.TokenCache != "memory" && c.TokenCache != "redis" {
		log.Warn().Str("token_cache", c.TokenCache).Msg("unknown TOKEN_CACHE, using memory")
		c.TokenCache = "memory"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func list(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
