package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordscramble/internal/httpserver"
	"github.com/robalobadob/wordscramble/internal/metrics"
	"github.com/robalobadob/wordscramble/internal/store"
	"github.com/robalobadob/wordscramble/internal/words"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game as an HTTP JSON API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	roots := loadRoots(cfg)
	dict, closer, err := openDictionary(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := httpserver.New(httpserver.Options{
		Store:         store.NewMemoryStore(),
		Roots:         roots,
		Dictionary:    dict,
		Language:      cfg.Language,
		Rand:          words.CryptoRand{},
		Tokens:        httpserver.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Metrics:       metrics.NewCollector(reg),
		Gatherer:      reg,
		ClientOrigin:  cfg.ClientOrigin,
		DailySalt:     cfg.DailySalt,
		RatePerMinute: cfg.RatePerMinute,
		TrustProxy:    cfg.TrustProxy,
	})
	if cfg.JWTSecret == "dev_secret_change_me" {
		log.Warn().Msg("JWT_SECRET not set; using development secret")
	}

	go srv.Janitor(ctx, time.Minute, cfg.SessionIdleTTL)

	log.Info().Str("port", cfg.Port).Msg("starting wordscramble server")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
