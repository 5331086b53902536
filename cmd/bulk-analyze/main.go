package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/adapters/reviewapi"
	"review_analyzer/internal/app"
	"review_analyzer/internal/shared"
)

func main() {
	file := flag.String("file", "", "JSON array of review records")
	workers := flag.Int("workers", 0, "concurrent requests (default BULK_WORKERS)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, "bulk-analyze", cfg.LogLevel)

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}
	if *workers <= 0 {
		*workers = cfg.BulkWorkers
	}

	b, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("read input")
	}
	var records []map[string]any
	if err := json.Unmarshal(b, &records); err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("input must be a JSON array of objects")
	}

	drafts, skipped := app.MapDrafts(records)
	for _, i := range skipped {
		log.Warn().Int("record", i).Msg("skipped record without product name or review text")
	}

	api, err := reviewapi.New(cfg.APIBaseURL, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analysis API client")
	}

	log.Info().
		Str("api", cfg.APIBaseURL).
		Int("workers", *workers).
		Int("drafts", len(drafts)).
		Msg("bulk analysis starting")

	results := app.NewBulkService(api, *workers).SubmitAll(ctx, drafts)

	counts := map[string]int{}
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		counts[string(r.Result.Sentiment)]++
	}
	log.Info().
		Int("ok", len(results)-failed).
		Int("failed", failed).
		Int("skipped", len(skipped)).
		Interface("sentiments", counts).
		Msg("bulk analysis completed")
	if failed > 0 {
		os.Exit(1)
	}
}
