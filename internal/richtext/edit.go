package richtext

// InsertText splices plain text into the document at a logical offset
// and returns the new document. Offsets that would land strictly inside
// a mention token snap to the token end first, so typed text can never
// split a token.
func InsertText(doc Document, offset int, text string) (Document, error) {
	pos, err := doc.StructuralPosition(offset)
	if err != nil {
		return Document{}, err
	}
	if text == "" {
		return doc, nil
	}

	nodes := doc.Nodes()
	target := nodes[pos.NodeIndex]

	var out []Node
	out = append(out, nodes[:pos.NodeIndex]...)
	switch target.Kind {
	case NodePlain:
		out = append(out,
			PlainRun(runeSlice(target.Text, 0, pos.InnerOffset)),
			PlainRun(text),
			PlainRun(runeSlice(target.Text, pos.InnerOffset, len([]rune(target.Text)))),
		)
	case NodeMention:
		if pos.InnerOffset == 0 {
			out = append(out, PlainRun(text), target)
		} else {
			out = append(out, target, PlainRun(text))
		}
	}
	out = append(out, nodes[pos.NodeIndex+1:]...)
	return normalize(out), nil
}

// DeleteRange removes the logical span [Start, End) and returns the new
// document together with the span actually deleted. A span that
// partially covers a mention token deletes the whole token — tokens are
// atomic in both directions, so one backspace on a mention removes all
// of it — which is why the deleted span can be wider than requested.
func DeleteRange(doc Document, span LogicalSpan) (Document, LogicalSpan, error) {
	length := doc.Len()
	if span.Start < 0 || span.Start > length {
		return Document{}, span, &OutOfRangeError{Offset: span.Start, Len: length}
	}
	if span.End < span.Start || span.End > length {
		return Document{}, span, &OutOfRangeError{Offset: span.End, Len: length}
	}
	if span.Start == span.End {
		return doc, span, nil
	}

	deleted := span
	var out []Node
	start := 0
	for _, n := range doc.nodes {
		end := start + n.runeLen()
		switch {
		case end <= span.Start || start >= span.End:
			// Entirely outside the deleted span.
			out = append(out, n)
		case n.Kind == NodeMention:
			// Any overlap removes the whole token.
			if start < deleted.Start {
				deleted.Start = start
			}
			if end > deleted.End {
				deleted.End = end
			}
		default:
			keepLeft := span.Start - start
			if keepLeft < 0 {
				keepLeft = 0
			}
			keepRight := span.End - start
			if keepRight > n.runeLen() {
				keepRight = n.runeLen()
			}
			out = append(out,
				PlainRun(runeSlice(n.Text, 0, keepLeft)),
				PlainRun(runeSlice(n.Text, keepRight, n.runeLen())),
			)
		}
		start = end
	}
	return normalize(out), deleted, nil
}
