package richtext

import "fmt"

// LogicalSpan is a half-open range [Start, End) of logical offsets,
// measured in runes over the plain-text projection.
type LogicalSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Length returns the span length in runes.
func (s LogicalSpan) Length() int {
	return s.End - s.Start
}

// StructuralPosition identifies a point inside a document: a rune offset
// within a plain run, or the boundary before/after a mention token
// (InnerOffset is 0 or the token length, never strictly inside).
type StructuralPosition struct {
	NodeIndex   int `json:"node_index"`
	InnerOffset int `json:"inner_offset"`
}

// OutOfRangeError reports a logical offset outside [0, Len]. It always
// indicates a caller bug (typically a stale caret held across a
// mutation), so offsets are never clamped.
type OutOfRangeError struct {
	Offset int
	Len    int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("richtext: offset %d out of range [0, %d]", e.Offset, e.Len)
}

// InvalidSpanError reports a span that is not wholly contained in a
// single plain run, which would mean splitting a mention token.
type InvalidSpanError struct {
	Span   LogicalSpan
	Reason string
}

func (e *InvalidSpanError) Error() string {
	return fmt.Sprintf("richtext: invalid span [%d, %d): %s", e.Span.Start, e.Span.End, e.Reason)
}

// LogicalOffset converts a structural position back into a logical
// offset: the summed logical length of all preceding nodes plus the
// inner offset. It is defined for every valid structural position.
func (d Document) LogicalOffset(pos StructuralPosition) (int, error) {
	if pos.NodeIndex < 0 || pos.NodeIndex >= len(d.nodes) {
		return 0, fmt.Errorf("richtext: node index %d out of range [0, %d)", pos.NodeIndex, len(d.nodes))
	}
	node := d.nodes[pos.NodeIndex]
	if pos.InnerOffset < 0 || pos.InnerOffset > node.runeLen() {
		return 0, fmt.Errorf("richtext: inner offset %d out of range for node of length %d", pos.InnerOffset, node.runeLen())
	}
	if node.Kind == NodeMention && pos.InnerOffset != 0 && pos.InnerOffset != node.runeLen() {
		return 0, fmt.Errorf("richtext: inner offset %d strictly inside mention token @%s", pos.InnerOffset, node.Username)
	}

	total := 0
	for i := 0; i < pos.NodeIndex; i++ {
		total += d.nodes[i].runeLen()
	}
	return total + pos.InnerOffset, nil
}

// StructuralPosition converts a logical offset into its canonical
// structural position. Offsets on a boundary between two nodes resolve
// to the start of the following node, so every valid offset has exactly
// one canonical position. An offset that would land strictly inside a
// mention token snaps to the end of that token: entering a mention from
// the left always lands after it, preserving atomicity.
func (d Document) StructuralPosition(offset int) (StructuralPosition, error) {
	length := d.Len()
	if offset < 0 || offset > length {
		return StructuralPosition{}, &OutOfRangeError{Offset: offset, Len: length}
	}

	start := 0
	for i, n := range d.nodes {
		end := start + n.runeLen()
		if offset < end || (offset == end && i == len(d.nodes)-1) {
			if n.Kind == NodeMention {
				inner := offset - start
				if inner != 0 {
					// Snap strictly-interior offsets to the token end.
					inner = n.runeLen()
				}
				return StructuralPosition{NodeIndex: i, InnerOffset: inner}, nil
			}
			return StructuralPosition{NodeIndex: i, InnerOffset: offset - start}, nil
		}
		start = end
	}

	// Unreachable: the loop always terminates on the last node.
	return StructuralPosition{NodeIndex: len(d.nodes) - 1, InnerOffset: d.nodes[len(d.nodes)-1].runeLen()}, nil
}

// nodeStart returns the logical offset at which node i begins.
func (d Document) nodeStart(i int) int {
	start := 0
	for j := 0; j < i; j++ {
		start += d.nodes[j].runeLen()
	}
	return start
}
