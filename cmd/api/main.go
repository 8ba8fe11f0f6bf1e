package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"store_reviews/internal/adapters/credentials"
	server "store_reviews/internal/adapters/http_server"
	"store_reviews/internal/adapters/observability"
	"store_reviews/internal/adapters/playstore"
	redisad "store_reviews/internal/adapters/redis"
	"store_reviews/internal/app"
	"store_reviews/internal/domain"
	"store_reviews/internal/fallback"
	"store_reviews/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// fallback reviews are loaded once; a broken dataset is a deploy error
	ds, err := fallback.Load(cfg.FallbackFile)
	if err != nil {
		log.Fatal().Err(err).Msg("fallback dataset unusable")
	}
	log.Info().Int("reviews", ds.Len()).Msg("fallback dataset loaded")

	// deps
	creds := credentials.FromConfig(cfg.KeyFile, cfg.TokenURL, cfg.AccessToken, cfg.Timeout)
	src, err := playstore.New(cfg.BaseURL, playstore.Style(cfg.EndpointStyle), cfg.Timeout, cfg.RPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review source client")
	}
	facade := app.NewReviewFacade(creds, src, ds.Reviews, cfg.Timeout, log.Logger)

	var cache domain.Cache
	if cfg.CacheTTL() > 0 {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			// cache is optional; requests still work without it
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
		}
		cache = rc
		log.Info().Dur("ttl", cfg.CacheTTL()).Msg("review cache enabled")
	}
	q := app.NewQueryService(facade, cache, cfg.CacheTTL())

	// http
	srv := server.New(log.Logger, cfg.Timeout+5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, DefaultSource: cfg.SourceID})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("source", cfg.SourceID).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
