// internal/game/engine.go
//
// Validation pipeline for a single word scramble submission.
// Responsibilities:
//   - Normalize candidates (lowercase, trimmed) exactly once.
//   - Run the ordered checks: empty, original, length, composable, real.
//   - Compute the score delta for accepted words.
//
// Notes:
//   - Validate is pure apart from the Dictionary call; it never touches a Session.
//   - Lengths count runes, not bytes.
package game

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest accepted word length.
const MinLength = 3

// Language is the dictionary language used when none is configured.
const Language = "en"

// Normalize lowercases s and strips surrounding whitespace and newlines.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks candidate against root and history and returns the outcome.
//
// Checks run in a fixed order and the first failure wins:
//  1. empty input is ignored (no rejection reason),
//  2. word equals the root or a history entry → ReasonAlreadyUsed,
//  3. word shorter than MinLength → ReasonTooShort,
//  4. word needs letters root lacks → ReasonNotComposable,
//  5. dict rejects the spelling → ReasonNotARealWord.
//
// On success Delta is the word length plus the history size after insertion.
func Validate(candidate, root string, history []string, dict Dictionary, language string) Outcome {
	word := Normalize(candidate)
	root = Normalize(root)

	if word == "" {
		return Outcome{Status: StatusIgnored}
	}
	if !isOriginal(word, root, history) {
		return reject(word, ReasonAlreadyUsed)
	}
	n := utf8.RuneCountInString(word)
	if n < MinLength {
		return reject(word, ReasonTooShort)
	}
	if !Composable(word, root) {
		return reject(word, ReasonNotComposable)
	}
	if dict == nil || !dict.IsValidSpelling(word, language) {
		return reject(word, ReasonNotARealWord)
	}
	return Outcome{
		Status: StatusAccepted,
		Word:   word,
		Delta:  n + len(history) + 1,
	}
}

func reject(word string, r Reason) Outcome {
	return Outcome{Status: StatusRejected, Word: word, Reason: r}
}

// isOriginal reports whether word is neither the root nor already used.
func isOriginal(word, root string, history []string) bool {
	if word == root {
		return false
	}
	for _, h := range history {
		if Normalize(h) == word {
			return false
		}
	}
	return true
}

// Composable reports whether word can be spelled from the letters of root,
// using each letter of root at most once. Letter order is irrelevant.
func Composable(word, root string) bool {
	pool := make(map[rune]int, len(root))
	for _, r := range root {
		pool[r]++
	}
	for _, r := range word {
		if pool[r] == 0 {
			return false
		}
		pool[r]--
	}
	return true
}
