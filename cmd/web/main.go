package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "review_analyzer/internal/adapters/http_server"
	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/adapters/reviewapi"
	"review_analyzer/internal/adapters/web"
	"review_analyzer/internal/client"
	"review_analyzer/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log.Logger = observability.NewLogger(cfg.AppEnv, "web", cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	api, err := reviewapi.New(cfg.APIBaseURL, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analysis API client")
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Timezone).Msg("bad TIMEZONE")
	}
	dates, err := client.NewDateFormatter(cfg.DateLocale, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("bad DATE_LOCALE")
	}

	feed := client.NewFeedController(api, log.Logger)
	sub := client.NewSubmissionController(api, feed, log.Logger)

	// initial load on mount; a failure leaves the feed empty
	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	feed.Load(loadCtx)
	cancel()
	log.Info().Int("reviews", len(feed.State().Reviews)).Str("api", cfg.APIBaseURL).Msg("feed loaded")

	srv := server.New(server.Options{Logger: log.Logger, Timeout: 90 * time.Second})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	(&web.Handlers{Feed: feed, Submit: sub, Dates: dates}).Mount(srv.Router())

	httpSrv := &http.Server{Addr: cfg.WebAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.WebAddr).Msg("web listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
