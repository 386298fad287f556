// internal/game/session.go
//
// Session state transitions.
// Responsibilities:
//   - Start: new root, cleared history and score.
//   - Submit: validate a candidate and apply it only when accepted.
//   - Apply/Snapshot: record an accepted outcome; copy state out for callers.

package game

import (
	"time"

	"github.com/google/uuid"
)

// NewSession returns an empty, not yet started session with a fresh ID.
func NewSession() *Session {
	return &Session{ID: uuid.NewString(), Words: []string{}}
}

// Start begins a new game on root: history and score are cleared.
// Calling Start on a running session is the "new game" transition.
func (s *Session) Start(root string, mode Mode) {
	if mode == "" {
		mode = ModeRandom
	}
	s.Root = Normalize(root)
	s.Mode = mode
	s.Words = []string{}
	s.Score = 0
	s.Started = true
	s.LastActive = time.Now()
}

// Apply records an outcome. Only accepted outcomes change the session;
// everything else is a no-op. A word already in history is refused.
func (s *Session) Apply(o Outcome) error {
	if !o.Accepted() {
		return nil
	}
	for _, w := range s.Words {
		if w == o.Word {
			return ErrDuplicate
		}
	}
	s.Words = append([]string{o.Word}, s.Words...)
	s.Score += o.Delta
	return nil
}

// Submit validates candidate against the session and applies the outcome.
func (s *Session) Submit(candidate string, dict Dictionary, language string) (Outcome, error) {
	if !s.Started {
		return Outcome{}, ErrNotStarted
	}
	s.LastActive = time.Now()
	o := Validate(candidate, s.Root, s.Words, dict, language)
	if err := s.Apply(o); err != nil {
		return Outcome{}, err
	}
	return o, nil
}

// Snapshot returns a deep copy of s.
func (s *Session) Snapshot() Session {
	cp := *s
	cp.Words = append([]string(nil), s.Words...)
	if cp.Words == nil {
		cp.Words = []string{}
	}
	return cp
}
