package play

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordscramble/internal/dictionary"
	"github.com/robalobadob/wordscramble/internal/words"
)

// seq returns successive values, repeating the last one.
type seq struct{ vals []int }

func (s *seq) IntN(int) int {
	v := s.vals[0]
	if len(s.vals) > 1 {
		s.vals = s.vals[1:]
	}
	return v
}

func newGame(r words.Rand) Game {
	return Game{
		Roots:      words.New([]string{"listen", "silkworm"}),
		Rand:       r,
		Dictionary: dictionary.NewSet("en", []string{"tin", "silent", "silk", "worm"}),
	}
}

func TestRun_Scoring(t *testing.T) {
	in := strings.NewReader("tin\n\nTIN\nit\nlisp\nnets\nsilent\n")
	var out bytes.Buffer

	sess, err := newGame(&seq{vals: []int{0}}).Run(context.Background(), in, &out)
	require.NoError(t, err)

	assert.Equal(t, "listen", sess.Root)
	assert.Equal(t, []string{"silent", "tin"}, sess.Words)
	assert.Equal(t, 4+8, sess.Score)

	text := out.String()
	assert.Contains(t, text, "Root word: LISTEN")
	assert.Contains(t, text, "+4  tin  (score 4)")
	assert.Contains(t, text, "Word already used: Be more original")
	assert.Contains(t, text, "Not allowed: Words must be more than two letters")
	assert.Contains(t, text, "Word not possible: You can't spell that word from 'listen'!")
	assert.Contains(t, text, "Word not recognized")
	assert.Contains(t, text, "Final score: 12")
}

func TestRun_NewGameResets(t *testing.T) {
	in := strings.NewReader("tin\n:new\nsilk\nworm\n:quit\ntin\n")
	var out bytes.Buffer

	sess, err := newGame(&seq{vals: []int{0, 1}}).Run(context.Background(), in, &out)
	require.NoError(t, err)

	assert.Equal(t, "silkworm", sess.Root)
	assert.Equal(t, []string{"worm", "silk"}, sess.Words)
	assert.Equal(t, (4+1)+(4+2), sess.Score)
	assert.Contains(t, out.String(), "Root word: SILKWORM")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newGame(&seq{vals: []int{0}}).Run(ctx, strings.NewReader("tin\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
