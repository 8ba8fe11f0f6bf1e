// Command probe checks, per source id, whether live reviews can be fetched or the
// fallback dataset would be served. It exits 1 when any source falls back.
package main

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"store_reviews/internal/adapters/credentials"
	"store_reviews/internal/adapters/observability"
	"store_reviews/internal/adapters/playstore"
	"store_reviews/internal/app"
	"store_reviews/internal/fallback"
	"store_reviews/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ids := cfg.ProbeSourceIDs
	if len(os.Args) > 1 {
		ids = os.Args[1:]
	}
	if len(ids) == 0 && cfg.SourceID != "" {
		ids = []string{cfg.SourceID}
	}
	if len(ids) == 0 {
		log.Fatal().Msg("no source ids: pass them as arguments or set PROBE_SOURCE_IDS")
	}

	log.Info().
		Str("base", cfg.BaseURL).
		Str("style", cfg.EndpointStyle).
		Int("workers", cfg.ProbeWorkers).
		Int("sources", len(ids)).
		Msg("probe starting")

	ds, err := fallback.Load(cfg.FallbackFile)
	if err != nil {
		log.Fatal().Err(err).Msg("fallback dataset unusable")
	}
	creds := credentials.FromConfig(cfg.KeyFile, cfg.TokenURL, cfg.AccessToken, cfg.Timeout)
	src, err := playstore.New(cfg.BaseURL, playstore.Style(cfg.EndpointStyle), cfg.Timeout, cfg.RPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize review source client")
	}
	facade := app.NewReviewFacade(creds, src, ds.Reviews, cfg.Timeout, log.Logger)

	sem := semaphore.NewWeighted(int64(cfg.ProbeWorkers))
	var wg sync.WaitGroup
	var fellBack atomic.Int32

	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(sourceID string) {
			defer wg.Done()
			defer sem.Release(1)

			res := facade.Fetch(ctx, sourceID)
			if !res.Live() {
				fellBack.Add(1)
				log.Warn().Str("source_id", sourceID).Str("kind", string(res.Failure.Kind)).Msg("probe: fallback")
				return
			}
			log.Info().Str("source_id", sourceID).Int("reviews", len(res.Reviews)).Msg("probe: live")
		}(id)
	}

	wg.Wait()
	if n := fellBack.Load(); n > 0 {
		log.Error().Int32("fallbacks", n).Int("sources", len(ids)).Msg("probe completed with fallbacks")
		os.Exit(1)
	}
	log.Info().Msg("probe completed")
}
