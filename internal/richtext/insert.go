package richtext

import (
	"fmt"
	"unicode/utf8"
)

// InsertMention atomically replaces the logical span [span.Start,
// span.End) with a mention token for username. It is pure: the input
// document is unchanged and a new one is returned, together with the
// caret's new logical offset (immediately after the token).
//
// The span must be wholly contained in a single plain run. A span that
// touches a mention token means the caller's trigger state is stale, and
// the insertion fails with InvalidSpanError instead of corrupting the
// document.
func InsertMention(doc Document, span LogicalSpan, username string) (Document, int, error) {
	if username == "" {
		return Document{}, 0, fmt.Errorf("richtext: empty mention username")
	}
	length := doc.Len()
	if span.Start < 0 || span.Start > length {
		return Document{}, 0, &OutOfRangeError{Offset: span.Start, Len: length}
	}
	if span.End < span.Start || span.End > length {
		return Document{}, 0, &OutOfRangeError{Offset: span.End, Len: length}
	}

	idx, runStart := -1, 0
	start := 0
	for i, n := range doc.nodes {
		end := start + n.runeLen()
		if n.Kind == NodeMention && span.Start < end && span.End > start {
			return Document{}, 0, &InvalidSpanError{Span: span, Reason: "span overlaps a mention token"}
		}
		if n.Kind == NodePlain && span.Start >= start && span.End <= end {
			idx, runStart = i, start
			break
		}
		start = end
	}
	if idx == -1 {
		return Document{}, 0, &InvalidSpanError{Span: span, Reason: "span crosses node boundaries"}
	}

	run := doc.nodes[idx]
	runLen := run.runeLen()

	var out []Node
	out = append(out, doc.nodes[:idx]...)
	out = append(out,
		PlainRun(runeSlice(run.Text, 0, span.Start-runStart)),
		Mention(username),
		PlainRun(runeSlice(run.Text, span.End-runStart, runLen)),
	)
	out = append(out, doc.nodes[idx+1:]...)

	caret := span.Start + 1 + utf8.RuneCountInString(username)
	return normalize(out), caret, nil
}
