// Command wordscramble serves the word scramble game over HTTP or plays it
// in the terminal.
//
//	wordscramble serve   # HTTP JSON API (default)
//	wordscramble play    # interactive terminal game
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordscramble/internal/config"
)

// cfg is filled by loadConfig in main, before flags are bound.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "wordscramble",
	Short: "Make words from the letters of a root word",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cfg, os.Stderr)
	},
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, playCmd)
}

// bindFlags registers flags whose defaults come from the loaded config.
func bindFlags() {
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.RootsFile, "roots", cfg.RootsFile, "root word list file (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&cfg.DictionaryFile, "dictionary", cfg.DictionaryFile, "dictionary word list file (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&cfg.DictionaryDSN, "dictionary-db", cfg.DictionaryDSN, "SQLite dictionary path (default: in memory)")
	serveCmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port")
}

// loadConfig reads .env and the environment. The logger is configured from
// LOG_LEVEL/LOG_FORMAT first so warnings about bad values honour them.
func loadConfig(logOut io.Writer) config.Config {
	config.LoadEnvFile()
	setupLogging(config.Logging(), logOut)
	return config.FromEnv()
}

// setupLogging applies level and output format to the global zerolog logger.
func setupLogging(c config.Config, out io.Writer) {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if c.LogFormat == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg = loadConfig(os.Stderr)
	bindFlags()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
