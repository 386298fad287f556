// internal/game/types.go
//
// Core type definitions for the word scramble engine.
// Defines:
//   - Status: coarse result of one submission (ignored/accepted/rejected).
//   - Reason: why a submission was rejected, with its user-facing text.
//   - Outcome: the value returned by Validate.
//   - Dictionary: the spell-check capability supplied by the caller.
//   - Session: state for a single game (root word, accepted words, score).

package game

import (
	"errors"
	"fmt"
	"time"
)

// Status is the coarse result of validating one candidate.
type Status string

const (
	StatusIgnored  Status = "ignored"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Reason explains a rejection.
// Possible values:
//   - "already_used":    word was accepted before, or is the root word itself.
//   - "too_short":       word has two letters or fewer.
//   - "not_composable":  word needs letters the root word does not have.
//   - "not_a_real_word": the dictionary does not know the word.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonAlreadyUsed   Reason = "already_used"
	ReasonTooShort      Reason = "too_short"
	ReasonNotComposable Reason = "not_composable"
	ReasonNotARealWord  Reason = "not_a_real_word"
)

// Title is the short headline shown to the player.
func (r Reason) Title() string {
	switch r {
	case ReasonAlreadyUsed:
		return "Word already used"
	case ReasonTooShort:
		return "Not allowed"
	case ReasonNotComposable:
		return "Word not possible"
	case ReasonNotARealWord:
		return "Word not recognized"
	}
	return ""
}

// Message is the longer explanation shown under the title.
func (r Reason) Message(root string) string {
	switch r {
	case ReasonAlreadyUsed:
		return "Be more original"
	case ReasonTooShort:
		return "Words must be more than two letters"
	case ReasonNotComposable:
		return fmt.Sprintf("You can't spell that word from '%s'!", root)
	case ReasonNotARealWord:
		return "You can't just make them up, you know!"
	}
	return ""
}

// Outcome is the result of validating one candidate.
// Word is always the normalized candidate; Delta is set only when accepted.
type Outcome struct {
	Status Status
	Word   string
	Delta  int
	Reason Reason
}

// Accepted reports whether the outcome should be applied to a session.
func (o Outcome) Accepted() bool { return o.Status == StatusAccepted }

// Dictionary is the spell-check oracle. Implementations must case-fold input.
type Dictionary interface {
	IsValidSpelling(word, language string) bool
}

// DictionaryFunc adapts an ordinary function to the Dictionary interface.
type DictionaryFunc func(word, language string) bool

// IsValidSpelling calls f(word, language).
func (f DictionaryFunc) IsValidSpelling(word, language string) bool { return f(word, language) }

// Mode records how the root word of a session was chosen.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeDaily  Mode = "daily"
)

var (
	// ErrNotStarted is returned when a word is submitted before Start.
	ErrNotStarted = errors.New("game not started")
	// ErrDuplicate is returned by Apply for a word already in the history.
	ErrDuplicate = errors.New("word already in history")
)

// Session holds the state of a single game.
type Session struct {
	ID         string    // Unique session identifier.
	Mode       Mode      // How Root was chosen.
	Root       string    // The root word (always normalized).
	Words      []string  // Accepted words, most recent first.
	Score      int       // Sum of all accepted deltas.
	Started    bool      // False until Start is called.
	LastActive time.Time // Last Start/Submit, used for idle eviction.
}
