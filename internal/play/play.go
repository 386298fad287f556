// Package play runs a word scramble game on a line-oriented terminal.
//
// Each input line is one submission. Blank lines are ignored, ":new" starts
// a new game on a fresh root word and ":quit" (or EOF) ends the session.
package play

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/words"
)

// Game wires a session to its collaborators.
type Game struct {
	Roots      *words.List
	Rand       words.Rand
	Dictionary game.Dictionary
	Language   string
}

// Run plays until in is exhausted, ":quit" is entered or ctx is cancelled.
// It returns the final session.
func (g Game) Run(ctx context.Context, in io.Reader, out io.Writer) (game.Session, error) {
	if g.Language == "" {
		g.Language = game.Language
	}
	sess := game.NewSession()
	g.newGame(sess, out)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return sess.Snapshot(), err
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case ":quit", ":q":
			fmt.Fprintf(out, "Final score: %d\n", sess.Score)
			return sess.Snapshot(), nil
		case ":new":
			g.newGame(sess, out)
			continue
		}

		o, err := sess.Submit(line, g.Dictionary, g.Language)
		if err != nil {
			return sess.Snapshot(), err
		}
		switch o.Status {
		case game.StatusAccepted:
			fmt.Fprintf(out, "+%d  %s  (score %d)\n", o.Delta, o.Word, sess.Score)
		case game.StatusRejected:
			fmt.Fprintf(out, "%s: %s\n", o.Reason.Title(), o.Reason.Message(sess.Root))
		}
		log.Debug().Str("word", o.Word).Str("status", string(o.Status)).Str("reason", string(o.Reason)).Msg("submission")
	}
	if err := sc.Err(); err != nil {
		return sess.Snapshot(), err
	}
	fmt.Fprintf(out, "Final score: %d\n", sess.Score)
	return sess.Snapshot(), nil
}

func (g Game) newGame(sess *game.Session, out io.Writer) {
	sess.Start(g.Roots.Pick(g.Rand), game.ModeRandom)
	fmt.Fprintf(out, "Root word: %s\nMake words from its letters (:new for a new word, :quit to stop).\n", strings.ToUpper(sess.Root))
}
