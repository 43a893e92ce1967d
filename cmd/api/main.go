package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/amadeus"
	server "staybook/internal/adapters/http_server"
	"staybook/internal/adapters/observability"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/adapters/tokencache"
	"staybook/internal/app"
	"staybook/internal/domain"
	"staybook/internal/resolver"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(reg)

	// db
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// deps
	repo := mysqlrepo.New(db)
	rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rc.Close()
	cache := redisad.NewCache(rc)

	api, err := amadeus.New(amadeus.Config{
		BaseURL:      cfg.AmadeusBase,
		APIKey:       cfg.AmadeusKey,
		APISecret:    cfg.AmadeusSecret,
		RPS:          cfg.AmadeusRPS,
		SafetyMargin: cfg.TokenMargin,
	}, tokenCache(cfg, rc))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotel API client")
	}

	norm := app.NewNormalizer(rand.Float64)
	dests := app.NewDestinationService(repo, cache, cfg.CacheTTL)
	search := app.NewSearchService(resolver.Default(), api, norm, repo, cache, cfg.CacheTTL, cfg.DefaultCityCode)
	auth, err := app.NewAuthService(repo, repo, redisad.NewSessionRevoker(rc), cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth")
	}

	// http
	srv := server.New(server.Options{CORSOrigins: cfg.CORSOrigins, RateLimitRPM: cfg.RateLimitRPM})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Search:       search,
		Destinations: dests,
		Auth:         auth,
		Profiles:     app.NewProfileService(repo),
		Bookings:     app.NewBookingService(repo, dests, api),
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func tokenCache(cfg shared.Config, rc *redis.Client) domain.TokenCache {
	if cfg.TokenCache == "redis" {
		return redisad.NewTokenCache(rc)
	}
	return tokencache.NewMemory()
}
