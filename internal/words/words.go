// internal/words/words.go
//
// Provides word list management for the game.
//
// Responsibilities:
//   - Load newline-delimited word lists from a file or the embedded assets.
//   - Pick a root word uniformly at random from an injectable random source.
//   - Supply lookups (Contains) and sizes (Len) for debugging endpoints.
//
// Word Lists:
//   - "roots":      candidate root words (assets/start.txt).
//   - "dictionary": words accepted by the in-memory dictionary (assets/dictionary.txt).
//
// Environment variables (read by config, passed in as paths):
//   WORDS_ROOT_FILE=/path/to/start.txt
//   WORDS_DICTIONARY_FILE=/path/to/dictionary.txt
//
// Constraints:
//   • Lines are trimmed and lowercased; blank lines and "#" comments are skipped.
//   • A list that cannot be read or ends up empty is ErrWordListMissing.

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordscramble/assets"
)

// Fallback is the root word used when random selection yields nothing.
const Fallback = "silkworm"

// ErrWordListMissing means a required word list could not be loaded.
// The game cannot start without its root word list.
var ErrWordListMissing = errors.New("words: word list missing")

// Rand is the random source used to pick root words.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// CryptoRand draws from crypto/rand.
type CryptoRand struct{}

// IntN returns a uniform value in [0, n). It returns -1 if n <= 0 or the
// system random source fails.
func (CryptoRand) IntN(n int) int {
	if n <= 0 {
		return -1
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return -1
	}
	return int(v.Int64())
}

// List is an ordered, de-duplicated word list.
type List struct {
	words []string
	set   map[string]struct{}
}

// New builds a List from raw lines.
func New(lines []string) *List {
	l := &List{set: make(map[string]struct{}, len(lines))}
	for _, line := range lines {
		w := normalizeLine(line)
		if w == "" {
			continue
		}
		if _, dup := l.set[w]; dup {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	return l
}

// Load reads a list from path, or from the embedded asset when path is empty.
func Load(path, embedded string) (*List, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if path != "" {
		rc, err = os.Open(path)
	} else {
		rc, err = assets.Open(embedded)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWordListMissing, err)
	}
	defer rc.Close()

	lines, err := readLines(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrWordListMissing, err)
	}
	l := New(lines)
	if l.Len() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrWordListMissing, sourceName(path, embedded))
	}
	return l, nil
}

// LoadRoots loads the root word list.
func LoadRoots(path string) (*List, error) { return Load(path, assets.RootsFile) }

// LoadDictionary loads the dictionary word list.
func LoadDictionary(path string) (*List, error) { return Load(path, assets.DictionaryFile) }

func sourceName(path, embedded string) string {
	if path != "" {
		return path
	}
	return "embedded " + embedded
}

// readLines returns every line of r.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// normalizeLine trims and lowercases a line; comments become "".
func normalizeLine(s string) string {
	w := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(w, "#") {
		return ""
	}
	return w
}

// Pick returns a uniformly random word from the list.
// If the list is empty or r yields an out-of-range index, Fallback is returned.
func (l *List) Pick(r Rand) string {
	if l == nil || len(l.words) == 0 || r == nil {
		return Fallback
	}
	i := r.IntN(len(l.words))
	if i < 0 || i >= len(l.words) {
		return Fallback
	}
	return l.words[i]
}

// At returns the word at index i, or Fallback if i is out of range.
func (l *List) At(i int) string {
	if l == nil || i < 0 || i >= len(l.words) {
		return Fallback
	}
	return l.words[i]
}

// Contains reports whether w (case-insensitive) is in the list.
func (l *List) Contains(w string) bool {
	if l == nil {
		return false
	}
	_, ok := l.set[normalizeLine(w)]
	return ok
}

// Words returns the list contents. Callers must not modify the slice.
func (l *List) Words() []string {
	if l == nil {
		return nil
	}
	return l.words
}

// Len reports the number of words.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}
