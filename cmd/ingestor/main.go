package main

import (
	"context"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/amadeus"
	"staybook/internal/adapters/observability"
	redisad "staybook/internal/adapters/redis"
	"staybook/internal/app"
	"staybook/internal/resolver"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

// Usage: ingestor [CITY_CODE ...]   (defaults to every built-in city)
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	observability.Serve(observability.InitRegistry())

	codes := os.Args[1:]
	if len(codes) == 0 {
		for _, c := range resolver.Default().All() {
			codes = append(codes, c.Code)
		}
	}

	log.Info().
		Str("base", cfg.AmadeusBase).
		Int("workers", cfg.Workers).
		Int("nights", cfg.IngestNights).
		Int("cities", len(codes)).
		Msg("ingestor starting")

	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")
	if err := mysqlrepo.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	repo := mysqlrepo.New(db)
	rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rc.Close()

	// token is shared with a running API through redis
	client, err := amadeus.New(amadeus.Config{
		BaseURL:      cfg.AmadeusBase,
		APIKey:       cfg.AmadeusKey,
		APISecret:    cfg.AmadeusSecret,
		RPS:          cfg.AmadeusRPS,
		SafetyMargin: cfg.TokenMargin,
	}, redisad.NewTokenCache(rc))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize hotel API client")
	}

	dests := app.NewDestinationService(repo, redisad.NewCache(rc), cfg.CacheTTL)
	ing := app.NewIngestionService(client, app.NewNormalizer(rand.Float64), dests)

	sem := semaphore.NewWeighted(int64(max(cfg.Workers, 1)))
	var wg sync.WaitGroup
	var stored, failed atomic.Int64

	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			n, err := ing.IngestCity(ctx, code, cfg.IngestNights)
			observability.ObserveIngest(code, n, err)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("city", code).Err(err).Msg("ingest failed")
				return
			}
			stored.Add(int64(n))
			log.Info().Str("city", code).Int("destinations", n).Msg("ingest ok")
		}()
	}

	wg.Wait()
	log.Info().Int64("stored", stored.Load()).Int64("failed", failed.Load()).Msg("ingestion completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}
