package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"agentic_research/pkg/config"
	"agentic_research/pkg/core/llm"
	"agentic_research/pkg/core/research"
	"agentic_research/pkg/providers"
	"agentic_research/pkg/render"
)

func main() {
	godotenv.Load()

	subject := flag.String("subject", "", "ticker symbol to research (required)")
	profile := flag.String("profile", "standard", "research profile: minimal, standard, or exhaustive")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config (optional)")
	asHTML := flag.Bool("html", false, "emit HTML instead of markdown")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "usage: research -subject TICKER [-profile standard] [-html]")
		os.Exit(2)
	}

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

	coord, err := research.NewCoordinator(set, gen, log,
		research.WithObserver(func(ev research.Event) {
			log.Info().Str("stage", string(ev.Stage)).Msg(ev.Message)
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize coordinator")
	}

	report, err := coord.Research(context.Background(), *subject, research.Profile(*profile))
	if err != nil {
		log.Fatal().Err(err).Msg("research failed")
	}

	if *asHTML {
		html, err := render.HTML(report)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to render report")
		}
		fmt.Println(html)
		return
	}
	fmt.Println(render.Markdown(report))
}
