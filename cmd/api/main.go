package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	apiresearch "agentic_research/pkg/api/research"
	"agentic_research/pkg/config"
	"agentic_research/pkg/core/llm"
	"agentic_research/pkg/core/research"
	"agentic_research/pkg/core/store"
	"agentic_research/pkg/providers"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config (optional)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	gen, err := llm.New(cfg.Generator)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize generator")
	}

	clientOpts := []providers.ClientOption{
		providers.WithRateLimit(cfg.MarketData.RatePerSecond),
		providers.WithLogger(log),
		providers.WithHTTPClient(&http.Client{Timeout: cfg.MarketData.RequestTimeout}),
	}
	if cfg.MarketData.BaseURL != "" {
		clientOpts = append(clientOpts, providers.WithBaseURL(cfg.MarketData.BaseURL))
	}
	client := providers.NewClient(cfg.MarketData.APIKey, clientOpts...)

	set, err := providers.BuildSet(client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build provider set")
	}

	coord, err := research.NewCoordinator(set, gen, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize coordinator")
	}

	var sink research.ReportSink
	var archive apiresearch.ReportArchive
	if cfg.Database.Enabled {
		if err := store.InitDB(context.Background(), cfg.Database.URL); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer store.Close()
		repo := store.NewReportRepo()
		sink = repo
		archive = repo
		log.Info().Msg("report persistence enabled")
	}

	manager := research.NewManager(coord, sink, log)

	mux := http.NewServeMux()
	apiresearch.NewHandlers(manager, archive).Register(mux)

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     mux,
		ReadTimeout: cfg.Server.ReadTimeout,
		// WriteTimeout stays zero so SSE streams are not cut off.
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("API server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
