// internal/word/word.go
//
// Canonical word handling for the CiYi game.
// Defines:
//   - Word: a canonical two-character token (trimmed, Han script).
//   - Normalize: raw guess text → Word, with typed rejection errors.
//
// Normalization rules:
//   • Surrounding whitespace is stripped.
//   • Exactly two runes after trimming, otherwise ErrWrongLength.
//   • Both runes must be Han characters, otherwise ErrInvalidChars.
//
// Normalize is pure and deterministic; lexicon membership is a separate
// concern (see lists.go) so that input-shape errors and vocabulary errors
// stay distinguishable.

package word

import (
	"errors"
	"strings"
	"unicode"
)

// Word is a canonical two-character token. Equality is plain string
// equality on the canonical form.
type Word string

var (
	ErrWrongLength  = errors.New("word must be exactly two characters")
	ErrInvalidChars = errors.New("word contains characters outside the permitted script")
)

// Normalize validates and canonicalizes raw guess text.
func Normalize(raw string) (Word, error) {
	s := strings.TrimSpace(raw)
	runes := []rune(s)
	if len(runes) != 2 {
		return "", ErrWrongLength
	}
	for _, r := range runes {
		if !unicode.Is(unicode.Han, r) {
			return "", ErrInvalidChars
		}
	}
	return Word(s), nil
}
