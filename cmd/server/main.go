package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/postline/postline/internal/application"
	"github.com/postline/postline/internal/cache"
	"github.com/postline/postline/internal/config"
	"github.com/postline/postline/internal/infrastructure/identity"
	"github.com/postline/postline/internal/infrastructure/postgres"
	"github.com/postline/postline/internal/notify"
	transporthttp "github.com/postline/postline/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting postline server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	log.Info().Msg("postgres connected")

	// ── Cache ─────────────────────────────────────────────────────────────────
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})
	defer rdb.Close()

	// A cold redis is not fatal: the read path falls back to direct queries.
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis ping failed, read path will bypass cache until it recovers")
	} else {
		log.Info().Msg("redis connected")
	}

	cacheClient := cache.New(cache.NewRedisStore(rdb), time.Duration(cfg.Cache.TTLSeconds)*time.Second)

	// ── Repositories ──────────────────────────────────────────────────────────
	posts := postgres.NewPostRepository(pool)
	comments := postgres.NewCommentRepository(pool)
	followers := postgres.NewFollowerRepository(pool)

	// ── Notification Publisher ────────────────────────────────────────────────
	publisher, err := notify.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create kafka publisher")
	}
	defer publisher.Close()

	// ── Identity Resolver ─────────────────────────────────────────────────────
	resolver := identity.New(cfg.Identity.BaseURL)

	// ── Application Service ───────────────────────────────────────────────────
	svc := application.NewService(posts, comments, followers, cacheClient, publisher)

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(svc)
	router := transporthttp.NewRouter(handler, resolver)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("postline server stopped")
}
