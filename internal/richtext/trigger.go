package richtext

import "unicode"

// TriggerState describes whether the caret sits inside an in-progress
// @query. The zero value is NoTrigger.
type TriggerState struct {
	Active     bool   `json:"active"`
	QueryStart int    `json:"query_start,omitempty"` // logical offset of the '@'
	Query      string `json:"query,omitempty"`       // text between the '@' and the caret
}

// NoTrigger is the inactive trigger state.
var NoTrigger = TriggerState{}

// isMentionSafe reports whether r may appear in an in-progress mention
// query: letters, digits, underscore.
func isMentionSafe(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// DetectTrigger determines whether the caret at caretOffset sits inside
// an in-progress @query and, if so, returns the query text and the
// logical offset of its '@'.
//
// The scan walks backward from the caret over mention-safe runes and
// stops at the first '@', at whitespace, or at a structural boundary
// belonging to a mention token. A completed token is terminal: a caret
// immediately after a mention is NoTrigger even though the token's
// display text would otherwise look like a valid trigger.
//
// Callers must re-run detection after every document mutation, since the
// caret offset and the node layout change together.
func DetectTrigger(doc Document, caretOffset int) (TriggerState, error) {
	length := doc.Len()
	if caretOffset < 0 || caretOffset > length {
		return NoTrigger, &OutOfRangeError{Offset: caretOffset, Len: length}
	}
	if caretOffset == 0 {
		return NoTrigger, nil
	}

	// Locate the node owning the rune just before the caret. If that rune
	// belongs to a mention token the caret abuts a completed mention, and
	// the scan cannot cross into it.
	start := 0
	for _, n := range doc.nodes {
		end := start + n.runeLen()
		if caretOffset-1 >= start && caretOffset-1 < end {
			if n.Kind == NodeMention {
				return NoTrigger, nil
			}
			runes := []rune(n.Text)
			inner := caretOffset - start
			for j := inner - 1; j >= 0; j-- {
				r := runes[j]
				if r == '@' {
					return TriggerState{
						Active:     true,
						QueryStart: start + j,
						Query:      string(runes[j+1 : inner]),
					}, nil
				}
				if !isMentionSafe(r) {
					return NoTrigger, nil
				}
			}
			// Reached the run's left edge: the preceding node (if any) is a
			// mention token, which closes the trigger.
			return NoTrigger, nil
		}
		start = end
	}
	return NoTrigger, nil
}
