package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordscramble/internal/play"
	"github.com/robalobadob/wordscramble/internal/words"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play word scramble in the terminal.

Type a word and press enter to submit it. A blank line is ignored,
":new" picks a new root word and ":quit" (or Ctrl-D) ends the game.`,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	roots := loadRoots(cfg)
	dict, closer, err := openDictionary(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	defer closer.Close()

	g := play.Game{
		Roots:      roots,
		Rand:       words.CryptoRand{},
		Dictionary: dict,
		Language:   cfg.Language,
	}
	_, err = g.Run(ctx, os.Stdin, os.Stdout)
	return err
}
