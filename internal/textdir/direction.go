// Package textdir decides the writing direction of a content block for
// layout purposes.
package textdir

import "golang.org/x/text/unicode/bidi"

// Direction is a block-level writing direction.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Classify returns the direction of the first strongly-directional rune
// in text. Text with no strong rune (digits, punctuation, empty string)
// defaults to LTR. The decision applies per content block: inner runs of
// the opposite script keep their own natural order, so a block is never
// re-ordered character by character.
func Classify(text string) Direction {
	for i := 0; i < len(text); {
		props, sz := bidi.LookupString(text[i:])
		if sz == 0 {
			break
		}
		switch props.Class() {
		case bidi.L:
			return LTR
		case bidi.R, bidi.AL:
			return RTL
		}
		i += sz
	}
	return LTR
}
