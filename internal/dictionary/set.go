// Package dictionary provides spell-check oracles for the game.
//
// Two implementations satisfy game.Dictionary:
//   - Set:    in-memory word sets keyed by language.
//   - SQLite: a dictionary table in a SQLite database.
//
// Both fold case and trim input before lookup.
package dictionary

import (
	"sync"

	"github.com/robalobadob/wordscramble/internal/game"
)

// Set is an in-memory dictionary. It is safe for concurrent use.
type Set struct {
	mu    sync.RWMutex
	langs map[string]map[string]struct{}
}

// NewSet returns a Set holding words for language.
func NewSet(language string, words []string) *Set {
	s := &Set{langs: make(map[string]map[string]struct{})}
	s.Add(language, words...)
	return s
}

// Add inserts words for language.
func (s *Set) Add(language string, words ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.langs[language]
	if !ok {
		m = make(map[string]struct{}, len(words))
		s.langs[language] = m
	}
	for _, w := range words {
		if w = game.Normalize(w); w != "" {
			m[w] = struct{}{}
		}
	}
}

// Len reports how many words are known for language.
func (s *Set) Len(language string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.langs[language])
}

// IsValidSpelling reports whether word is known in language.
func (s *Set) IsValidSpelling(word, language string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.langs[language][game.Normalize(word)]
	return ok
}
