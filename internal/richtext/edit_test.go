package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertTextIntoPlainRun(t *testing.T) {
	doc := ParseDocument("hi @alice!", map[string]bool{"alice": true})

	out, err := InsertText(doc, 2, "ya")
	require.NoError(t, err)
	assert.Equal(t, "hiya @alice!", out.PlainText())
	assert.Equal(t, 3, out.NodeCount())

	// Input document is untouched.
	assert.Equal(t, "hi @alice!", doc.PlainText())
}

func TestInsertTextBeforeMentionBoundary(t *testing.T) {
	doc := ParseDocument("hi @alice!", map[string]bool{"alice": true})

	out, err := InsertText(doc, 3, "x")
	require.NoError(t, err)
	assert.Equal(t, "hi x@alice!", out.PlainText())
	require.Equal(t, 3, out.NodeCount())
	assert.Equal(t, Mention("alice"), out.Nodes()[1])
}

func TestInsertTextInsideMentionSnapsToEnd(t *testing.T) {
	doc := ParseDocument("hi @alice!", map[string]bool{"alice": true})

	// Offset 5 is inside the token; the text lands after it and the
	// token survives intact.
	out, err := InsertText(doc, 5, "x")
	require.NoError(t, err)
	assert.Equal(t, "hi @alicex!", out.PlainText())
	assert.Equal(t, Mention("alice"), out.Nodes()[1])
}

func TestInsertTextAtDocumentEdges(t *testing.T) {
	doc := ParseDocument("@alice", map[string]bool{"alice": true})

	out, err := InsertText(doc, 0, "hey ")
	require.NoError(t, err)
	assert.Equal(t, "hey @alice", out.PlainText())

	out, err = InsertText(doc, doc.Len(), "!")
	require.NoError(t, err)
	assert.Equal(t, "@alice!", out.PlainText())
}

func TestInsertTextEmptyIsNoop(t *testing.T) {
	doc := ParseDocument("hi", nil)
	out, err := InsertText(doc, 1, "")
	require.NoError(t, err)
	assert.True(t, out.Equal(doc))
}

func TestInsertTextOutOfRange(t *testing.T) {
	doc := ParseDocument("hi", nil)
	_, err := InsertText(doc, 3, "x")
	var oor *OutOfRangeError
	assert.ErrorAs(t, err, &oor)
}

func TestDeleteRangePlainText(t *testing.T) {
	doc := ParseDocument("hello world", nil)

	out, deleted, err := DeleteRange(doc, LogicalSpan{Start: 5, End: 11})
	require.NoError(t, err)
	assert.Equal(t, "hello", out.PlainText())
	assert.Equal(t, LogicalSpan{Start: 5, End: 11}, deleted)
}

func TestDeleteRangeBackspaceRemovesWholeMention(t *testing.T) {
	doc := ParseDocument("hi @alice!", map[string]bool{"alice": true})

	// One backspace at the token's last rune takes out the whole token.
	out, deleted, err := DeleteRange(doc, LogicalSpan{Start: 8, End: 9})
	require.NoError(t, err)
	assert.Equal(t, "hi !", out.PlainText())
	assert.Equal(t, LogicalSpan{Start: 3, End: 9}, deleted)
}

func TestDeleteRangeExpandsOverPartialMention(t *testing.T) {
	doc := ParseDocument("hi @alice!", map[string]bool{"alice": true})

	// Span [1, 5) clips the token's left edge; the whole token goes.
	out, deleted, err := DeleteRange(doc, LogicalSpan{Start: 1, End: 5})
	require.NoError(t, err)
	assert.Equal(t, "h!", out.PlainText())
	assert.Equal(t, LogicalSpan{Start: 1, End: 9}, deleted)
}

func TestDeleteRangeWholeMentionExactSpan(t *testing.T) {
	doc := ParseDocument("hi @alice!", map[string]bool{"alice": true})

	out, deleted, err := DeleteRange(doc, LogicalSpan{Start: 3, End: 9})
	require.NoError(t, err)
	assert.Equal(t, "hi !", out.PlainText())
	assert.Equal(t, LogicalSpan{Start: 3, End: 9}, deleted)
}

func TestDeleteRangeAcrossMultipleMentions(t *testing.T) {
	valid := map[string]bool{"alice": true, "bob": true}
	doc := ParseDocument("@alice and @bob", valid)

	// Span [4, 12) clips both tokens; both are removed whole.
	out, deleted, err := DeleteRange(doc, LogicalSpan{Start: 4, End: 12})
	require.NoError(t, err)
	assert.Equal(t, "", out.PlainText())
	assert.Equal(t, LogicalSpan{Start: 0, End: 15}, deleted)
}

func TestDeleteRangeEmptySpanIsNoop(t *testing.T) {
	doc := ParseDocument("hi @alice", map[string]bool{"alice": true})
	out, deleted, err := DeleteRange(doc, LogicalSpan{Start: 4, End: 4})
	require.NoError(t, err)
	assert.True(t, out.Equal(doc))
	assert.Equal(t, 0, deleted.Length())
}

func TestDeleteRangeOutOfRange(t *testing.T) {
	doc := ParseDocument("hi", nil)
	var oor *OutOfRangeError

	_, _, err := DeleteRange(doc, LogicalSpan{Start: -1, End: 1})
	assert.ErrorAs(t, err, &oor)

	_, _, err = DeleteRange(doc, LogicalSpan{Start: 0, End: 3})
	assert.ErrorAs(t, err, &oor)
}

func TestDeleteRangeKeepsCanonicalForm(t *testing.T) {
	doc := ParseDocument("a @alice b", map[string]bool{"alice": true})

	// Deleting the token leaves "a " and " b" adjacent; they must merge.
	out, _, err := DeleteRange(doc, LogicalSpan{Start: 2, End: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, out.NodeCount())
	assert.Equal(t, "a  b", out.PlainText())
}
