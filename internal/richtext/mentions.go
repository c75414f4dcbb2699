package richtext

import (
	"regexp"
	"unicode/utf8"
)

// mentionPattern matches an @ followed by the username character class:
// letters, digits, underscore, hyphen, dot. Whitespace terminates a
// match, so matches never overlap. Consecutive mentions with no
// separating whitespace ("@alice@bob") fall under the permissive class
// and are matched as a single token; that ambiguity is accepted rather
// than silently split.
var mentionPattern = regexp.MustCompile(`@[\pL\pN_.-]+`)

// MentionCandidate is one @token occurrence found in plain text. Raw
// includes the leading '@'. Span is in runes; ByteStart/ByteEnd are the
// byte offsets needed to slice the source string.
type MentionCandidate struct {
	Span      LogicalSpan `json:"span"`
	Raw       string      `json:"raw"`
	ByteStart int         `json:"-"`
	ByteEnd   int         `json:"-"`
}

// Username returns the candidate's username without the leading '@'.
func (c MentionCandidate) Username() string {
	return c.Raw[1:]
}

// FindCandidates scans text for @token occurrences. Classification
// against known usernames happens later, in Resolve: a candidate is just
// a syntactic match.
func FindCandidates(text string) []MentionCandidate {
	matches := mentionPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	candidates := make([]MentionCandidate, 0, len(matches))
	runeOffset, bytePos := 0, 0
	for _, m := range matches {
		runeOffset += utf8.RuneCountInString(text[bytePos:m[0]])
		raw := text[m[0]:m[1]]
		rawRunes := utf8.RuneCountInString(raw)
		candidates = append(candidates, MentionCandidate{
			Span:      LogicalSpan{Start: runeOffset, End: runeOffset + rawRunes},
			Raw:       raw,
			ByteStart: m[0],
			ByteEnd:   m[1],
		})
		runeOffset += rawRunes
		bytePos = m[1]
	}
	return candidates
}

// SegmentKind discriminates renderer output segments.
type SegmentKind string

const (
	// SegmentText is ordinary text.
	SegmentText SegmentKind = "text"
	// SegmentMention is a clickable mention of a known username.
	SegmentMention SegmentKind = "mention"
	// SegmentPlainAt is an @token that did not resolve to a known user
	// and renders as inert text, never styled or clickable.
	SegmentPlainAt SegmentKind = "plain_at"
)

// RenderSegment is one unit of display output.
type RenderSegment struct {
	Kind     SegmentKind `json:"kind"`
	Text     string      `json:"text"`
	Username string      `json:"username,omitempty"`
}

// Resolve classifies candidates against the valid-username set
// (case-sensitive) and interleaves them with the surrounding text,
// producing the final segment sequence. Unknown usernames degrade to
// plain text so that deleted or renamed accounts never break rendering
// of historical posts.
func Resolve(text string, candidates []MentionCandidate, validUsernames map[string]bool) []RenderSegment {
	var segments []RenderSegment
	last := 0
	for _, cand := range candidates {
		if cand.ByteStart > last {
			segments = append(segments, RenderSegment{Kind: SegmentText, Text: text[last:cand.ByteStart]})
		}
		if validUsernames[cand.Username()] {
			segments = append(segments, RenderSegment{Kind: SegmentMention, Text: cand.Raw, Username: cand.Username()})
		} else {
			segments = append(segments, RenderSegment{Kind: SegmentPlainAt, Text: cand.Raw})
		}
		last = cand.ByteEnd
	}
	if last < len(text) {
		segments = append(segments, RenderSegment{Kind: SegmentText, Text: text[last:]})
	}
	return segments
}

// ResolveText is the one-shot form of FindCandidates + Resolve.
func ResolveText(text string, validUsernames map[string]bool) []RenderSegment {
	return Resolve(text, FindCandidates(text), validUsernames)
}
