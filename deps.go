package main

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/dictionary"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/words"
)

// loadRoots loads the root word list. A missing list is fatal: the game
// cannot pick a root word without it.
func loadRoots(c config.Config) *words.List {
	roots, err := words.LoadRoots(c.RootsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", c.RootsFile).Msg("failed to load root word list")
	}
	log.Info().Int("roots", roots.Len()).Msg("root words loaded")
	return roots
}

// openDictionary builds the spelling oracle. With DICTIONARY_DSN set the
// word list is imported into SQLite; otherwise it is kept in memory.
// The returned closer is never nil.
func openDictionary(ctx context.Context, c config.Config) (game.Dictionary, io.Closer, error) {
	list, err := words.LoadDictionary(c.DictionaryFile)
	if err != nil {
		return nil, nil, err
	}

	if c.DictionaryDSN == "" {
		d := dictionary.NewSet(c.Language, list.Words())
		log.Info().Int("words", d.Len(c.Language)).Str("language", c.Language).Msg("in-memory dictionary ready")
		return d, nopCloser{}, nil
	}

	d, err := dictionary.OpenSQLite(c.DictionaryDSN)
	if err != nil {
		return nil, nil, err
	}
	added, err := d.Import(ctx, c.Language, list.Words())
	if err != nil {
		_ = d.Close()
		return nil, nil, err
	}
	total, _ := d.Count(ctx, c.Language)
	log.Info().
		Str("dsn", c.DictionaryDSN).
		Str("language", c.Language).
		Int("added", added).
		Int("words", total).
		Msg("sqlite dictionary ready")
	return d, d, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
