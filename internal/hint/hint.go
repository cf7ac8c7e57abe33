// internal/hint/hint.go
//
// Neighbor-hint masking for guess feedback.
//
// After each guess the oracle reports the two words adjacent to the guess in
// the similarity ordering. They are shown partially hidden:
//   - closer neighbor (rank − 1, more similar):  mask FIRST rune → "？X"
//   - farther neighbor (rank + 1, less similar): mask SECOND rune → "Y？"
//
// The asymmetry is a fixed convention: the two visually distinct patterns
// tell the player which direction a hint points without extra labels.
// A missing neighbor (boundary of the ranking) is rendered as None, never as
// a fabricated mask.

package hint

import (
	"fmt"

	"github.com/ciyi-game/go-server/internal/word"
)

// Placeholder is the glyph substituted for the hidden rune.
const Placeholder = "？"

// None marks a neighbor that does not exist (ranking boundary).
const None = "--"

// Mask derives the masked forms of both neighbors. Either neighbor may be
// the empty sentinel, in which case its hint is None. Words that are not
// two runes long also render as None rather than crashing the pipeline.
func Mask(closer, farther word.Word) (closerHint, fartherHint string) {
	return maskCloser(closer), maskFarther(farther)
}

// maskCloser hides the first rune, revealing the second.
func maskCloser(w word.Word) string {
	r := []rune(string(w))
	if len(r) != 2 {
		return None
	}
	return Placeholder + string(r[1])
}

// maskFarther hides the second rune, revealing the first.
func maskFarther(w word.Word) string {
	r := []rune(string(w))
	if len(r) != 2 {
		return None
	}
	return string(r[0]) + Placeholder
}

// FormatLine renders one history line in the classic display shape:
//
//	？器 ) 镯子 ( 玉？   #14
func FormatLine(closerHint string, guess word.Word, fartherHint string, rank int) string {
	return fmt.Sprintf("%s ) %s ( %s #%d", closerHint, guess, fartherHint, rank)
}
