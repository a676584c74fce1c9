package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/paperfeed/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath string
		dateFlag   string
		force      bool
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "config.yaml", "Path to YAML configuration file")
	flag.StringVar(&dateFlag, "date", "", "Report date as YYYY-MM-DD (default: three days ago)")
	flag.BoolVar(&force, "force", false, "Rebuild the digest even when a cached run exists for the period")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Error().Err(err).Msg("configuration error")
		os.Exit(1)
	}
	cfg.Force = force
	cfg.Verbose = verbose

	cfg.ReportDate, err = app.ResolveReportDate(dateFlag, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("configuration error")
		os.Exit(1)
	}

	out, err := run(cfg)
	if err != nil {
		// Exit code policy: an empty period is a normal outcome, not a
		// failure. Everything else is exit 1.
		if errors.Is(err, app.ErrEmptyDigest) {
			log.Info().Time("date", cfg.ReportDate).Msg("no papers found for the period")
			os.Exit(0)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
	fmt.Println(out)
}

func run(cfg app.Config) (string, error) {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("init app: %w", err)
	}

	return a.Run(ctx)
}
