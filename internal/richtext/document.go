package richtext

import (
	"strings"
	"unicode/utf8"
)

// NodeKind discriminates the two node variants a Document is built from.
type NodeKind string

const (
	// NodePlain is an ordinary editable text run.
	NodePlain NodeKind = "plain"
	// NodeMention is an atomic @username token. The caret can sit before
	// or after it, never inside.
	NodeMention NodeKind = "mention"
)

// Node is one element of a Document: either a plain text run or an
// atomic mention token.
type Node struct {
	Kind     NodeKind `json:"kind"`
	Text     string   `json:"text,omitempty"`     // plain run content
	Username string   `json:"username,omitempty"` // mention target
}

// PlainRun builds a plain text node.
func PlainRun(text string) Node {
	return Node{Kind: NodePlain, Text: text}
}

// Mention builds an atomic mention token for the given username.
func Mention(username string) Node {
	return Node{Kind: NodeMention, Username: username}
}

// DisplayText returns the node's contribution to the logical plain-text
// projection: the run text for plain nodes, "@username" for mentions.
func (n Node) DisplayText() string {
	if n.Kind == NodeMention {
		return "@" + n.Username
	}
	return n.Text
}

// runeLen is the node's length in the logical projection, in runes.
func (n Node) runeLen() int {
	if n.Kind == NodeMention {
		return 1 + utf8.RuneCountInString(n.Username)
	}
	return utf8.RuneCountInString(n.Text)
}

// Document is an ordered sequence of nodes. The zero value is not valid;
// use NewDocument or ParseDocument. A Document value is treated as
// immutable: editing operations return a new Document.
type Document struct {
	nodes []Node
}

// NewDocument returns an empty document (a single empty plain run, so
// the node list is never empty).
func NewDocument() Document {
	return Document{nodes: []Node{PlainRun("")}}
}

// NewDocumentFromNodes builds a document from explicit nodes,
// normalizing to canonical form.
func NewDocumentFromNodes(nodes ...Node) Document {
	return normalize(nodes)
}

// ParseDocument loads persisted plain text into a document. Literal
// @username runs become mention tokens only when the username appears in
// validUsernames; everything else stays plain text and is re-resolved by
// the renderer at display time.
func ParseDocument(text string, validUsernames map[string]bool) Document {
	if text == "" {
		return NewDocument()
	}

	var nodes []Node
	last := 0
	for _, cand := range FindCandidates(text) {
		username := strings.TrimPrefix(cand.Raw, "@")
		if !validUsernames[username] {
			continue
		}
		if cand.ByteStart > last {
			nodes = append(nodes, PlainRun(text[last:cand.ByteStart]))
		}
		nodes = append(nodes, Mention(username))
		last = cand.ByteEnd
	}
	if last < len(text) {
		nodes = append(nodes, PlainRun(text[last:]))
	}
	return normalize(nodes)
}

// Nodes returns a copy of the document's node list.
func (d Document) Nodes() []Node {
	out := make([]Node, len(d.nodes))
	copy(out, d.nodes)
	return out
}

// NodeCount returns the number of nodes.
func (d Document) NodeCount() int {
	return len(d.nodes)
}

// Len is the length of the logical plain-text projection, in runes.
func (d Document) Len() int {
	total := 0
	for _, n := range d.nodes {
		total += n.runeLen()
	}
	return total
}

// PlainText returns the logical plain-text projection: each node's
// display text concatenated in order. This is the storage format.
func (d Document) PlainText() string {
	var b strings.Builder
	for _, n := range d.nodes {
		b.WriteString(n.DisplayText())
	}
	return b.String()
}

// Equal reports whether two documents have identical node sequences.
// Both sides are in canonical form, so this is plain slice equality.
func (d Document) Equal(other Document) bool {
	if len(d.nodes) != len(other.nodes) {
		return false
	}
	for i, n := range d.nodes {
		if n != other.nodes[i] {
			return false
		}
	}
	return true
}

// normalize merges adjacent plain runs and drops empty ones so that
// documents have exactly one canonical node sequence. An empty result
// collapses to the single-empty-run form.
func normalize(nodes []Node) Document {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == NodePlain {
			if n.Text == "" {
				continue
			}
			if len(out) > 0 && out[len(out)-1].Kind == NodePlain {
				out[len(out)-1].Text += n.Text
				continue
			}
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		out = append(out, PlainRun(""))
	}
	return Document{nodes: out}
}

// runeSlice slices s by rune offsets. Callers guarantee bounds.
func runeSlice(s string, from, to int) string {
	runes := []rune(s)
	return string(runes[from:to])
}
