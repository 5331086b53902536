package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "review_analyzer/internal/adapters/http_server"
	"review_analyzer/internal/adapters/observability"
	redisad "review_analyzer/internal/adapters/redis"
	"review_analyzer/internal/analysis"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/shared"
	mysqlrepo "review_analyzer/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api", cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// cache is optional; reads fall through to MySQL without it
	var cache domain.Cache
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CachePrefix)
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; serving without cache")
		_ = rc.Close()
	} else {
		cache = rc
		defer rc.Close()
	}

	// analyzers
	vader := analysis.NewVaderAnalyzer()
	var keyPoints domain.KeyPointExtractor = analysis.NewHeuristicExtractor(vader)
	if cfg.OpenAIKey != "" {
		keyPoints = analysis.NewOpenAIExtractor(cfg.OpenAIKey, cfg.OpenAIModel)
		log.Info().Str("model", cfg.OpenAIModel).Msg("key points via OpenAI")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set; using heuristic key points")
	}

	repo := mysqlrepo.New(db)
	h := &server.Handlers{
		Analysis: app.NewAnalysisService(repo, vader, keyPoints, cache),
		Queries:  app.NewQueryService(repo, cache, cfg.CacheTTL),
	}

	// http
	srv := server.New(server.Options{Logger: log.Logger, Timeout: 60 * time.Second, CORSOrigin: cfg.CORSOrigin})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
