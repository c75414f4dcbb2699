package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentIsEmpty(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, 0, doc.Len())
	assert.Equal(t, "", doc.PlainText())
	require.Equal(t, 1, doc.NodeCount())
	assert.Equal(t, PlainRun(""), doc.Nodes()[0])
}

func TestParseDocumentResolvesValidMentions(t *testing.T) {
	valid := map[string]bool{"alice": true}
	doc := ParseDocument("Thanks @alice for lunch", valid)

	require.Equal(t, []Node{
		PlainRun("Thanks "),
		Mention("alice"),
		PlainRun(" for lunch"),
	}, doc.Nodes())
	assert.Equal(t, "Thanks @alice for lunch", doc.PlainText())
}

func TestParseDocumentLeavesUnknownMentionsPlain(t *testing.T) {
	doc := ParseDocument("hello @ghost", map[string]bool{})

	require.Equal(t, 1, doc.NodeCount())
	assert.Equal(t, PlainRun("hello @ghost"), doc.Nodes()[0])
}

func TestParseDocumentEmptyText(t *testing.T) {
	doc := ParseDocument("", map[string]bool{"alice": true})
	assert.True(t, doc.Equal(NewDocument()))
}

func TestParseDocumentMentionAtEdges(t *testing.T) {
	valid := map[string]bool{"alice": true, "bob": true}
	doc := ParseDocument("@alice hi @bob", valid)

	require.Equal(t, []Node{
		Mention("alice"),
		PlainRun(" hi "),
		Mention("bob"),
	}, doc.Nodes())
}

func TestPlainTextRoundTrip(t *testing.T) {
	valid := map[string]bool{"alice": true, "bob": true}
	inputs := []string{
		"",
		"just text",
		"@alice",
		"hi @alice and @bob!",
		"héllo @alice",
		"@ghost stays plain, @alice does not",
	}
	for _, text := range inputs {
		doc := ParseDocument(text, valid)
		assert.Equal(t, text, doc.PlainText(), "input %q", text)
	}
}

func TestNormalizeMergesAdjacentPlainRuns(t *testing.T) {
	doc := NewDocumentFromNodes(
		PlainRun("a"),
		PlainRun(""),
		PlainRun("b"),
		Mention("alice"),
		PlainRun(""),
		PlainRun("c"),
	)

	require.Equal(t, []Node{
		PlainRun("ab"),
		Mention("alice"),
		PlainRun("c"),
	}, doc.Nodes())
}

func TestNormalizeCollapsesToEmptyDocument(t *testing.T) {
	doc := NewDocumentFromNodes(PlainRun(""), PlainRun(""))
	assert.True(t, doc.Equal(NewDocument()))
}

func TestLenCountsRunesNotBytes(t *testing.T) {
	doc := NewDocumentFromNodes(PlainRun("héllo "), Mention("josé"))

	// "héllo " is 6 runes, "@josé" is 5.
	assert.Equal(t, 11, doc.Len())
	assert.Equal(t, "héllo @josé", doc.PlainText())
}

func TestMentionDisplayText(t *testing.T) {
	assert.Equal(t, "@alice", Mention("alice").DisplayText())
	assert.Equal(t, "plain", PlainRun("plain").DisplayText())
}

func TestDocumentEqual(t *testing.T) {
	valid := map[string]bool{"alice": true}
	a := ParseDocument("hi @alice", valid)
	b := ParseDocument("hi @alice", valid)
	c := ParseDocument("hi @alice!", valid)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestNodesReturnsCopy(t *testing.T) {
	doc := ParseDocument("hi @alice", map[string]bool{"alice": true})
	nodes := doc.Nodes()
	nodes[0] = PlainRun("mutated")

	assert.Equal(t, "hi @alice", doc.PlainText())
}
