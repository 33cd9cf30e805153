// Command api runs the courier pricing & ranking HTTP service.
//
// @title        Courier Platform Pricing API
// @version      1.0
// @description  Shipping price quotes, merchant margin calculations, and courier selections.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/performile/courier-platform/docs"
	"github.com/performile/courier-platform/internal/api"
	"github.com/performile/courier-platform/internal/infrastructure/db/mongo"
	"github.com/performile/courier-platform/internal/infrastructure/db/redis"
	"github.com/performile/courier-platform/internal/infrastructure/queue"
	"github.com/performile/courier-platform/internal/pkg/config"
	"github.com/performile/courier-platform/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "pricing-api",
		Pretty:  cfg.IsDevelopment(),
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	if err := mongo.NewCourierRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("merchant courier index creation failed")
	}

	// Fire-and-forget ranking pipeline: sharded workers, Redis debounce.
	// The dispatcher outlives the signal context: workers must keep accepting
	// tasks from in-flight requests until the HTTP server has fully drained.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	rankingRepo := mongo.NewRankingRepository(db)
	debounce := redis.NewRankingDebouncer(rdb)
	dispatcher := queue.NewDispatcher(cfg.Ranking.Workers, rankingRepo, debounce, log)
	dispatcher.Start(dispatchCtx)

	e := api.NewRouter(db, rdb, api.RouterConfig{
		JWTSecret:       cfg.JWTSecret,
		DevMode:         cfg.IsDevelopment(),
		RateLimit:       cfg.RateLimit.Requests,
		RateLimitWindow: cfg.RateLimit.Window,
		RankingQueue:    dispatcher,
		Logger:          log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting pricing API")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// No new requests can enqueue tasks now; stop the workers and drain what
	// is in flight before the Mongo and Redis clients close.
	stopDispatch()
	dispatcher.WaitIdle()
}
