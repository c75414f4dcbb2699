package richtext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/gratia-app/backend/internal/sanitize"
	"github.com/gratia-app/backend/internal/textdir"
)

// PostStyle carries presentation hints (background, gradient, text
// color, font) through the pipeline. It is opaque to the core and is
// applied as a container-level attribute, not per segment.
type PostStyle struct {
	Background string `json:"background,omitempty"`
	TextColor  string `json:"text_color,omitempty"`
	Font       string `json:"font,omitempty"`
}

// RenderResult is the renderer's output: the display segments, the
// block direction, the pass-through style, and (for markup input) the
// sanitized markup suitable for storage.
type RenderResult struct {
	Segments   []RenderSegment   `json:"segments"`
	Direction  textdir.Direction `json:"direction"`
	Style      *PostStyle        `json:"style,omitempty"`
	Markup     bool              `json:"markup"`
	SafeMarkup string            `json:"safe_markup,omitempty"`
	Dropped    int               `json:"-"` // tags/attrs removed by the sanitizer
}

// markupPattern is the heuristic for stored content that carries markup
// rather than plain text: anything that opens an HTML tag.
var markupPattern = regexp.MustCompile(`<\s*[A-Za-z/!]`)

// IsMarkup reports whether content should take the markup render path.
func IsMarkup(content string) bool {
	return markupPattern.MatchString(content)
}

// Renderer turns stored post content into safe, mention-aware,
// direction-aware display output. Both storage paths are supported:
// plain text with regex-derived mentions, and sanitized markup with
// embedded mention spans. Equivalent content renders identically on
// either path.
type Renderer struct {
	policy *sanitize.Policy
}

// NewRenderer builds a renderer. A nil policy selects the default
// allow-list.
func NewRenderer(policy *sanitize.Policy) *Renderer {
	if policy == nil {
		policy = sanitize.DefaultPolicy()
	}
	return &Renderer{policy: policy}
}

// Render produces the segment sequence and direction for content.
// Mention validity is re-checked against validUsernames at render time
// even for markup that stored a mention span, because usernames can stop
// being valid after a post is stored (account deletion, renames).
func (r *Renderer) Render(content string, validUsernames map[string]bool, style *PostStyle) RenderResult {
	if IsMarkup(content) {
		return r.renderMarkup(content, validUsernames, style)
	}

	return RenderResult{
		Segments:  ResolveText(content, validUsernames),
		Direction: textdir.Classify(content),
		Style:     style,
	}
}

func (r *Renderer) renderMarkup(content string, validUsernames map[string]bool, style *PostStyle) RenderResult {
	clean, dropped := r.policy.Sanitize(content)

	var segments []RenderSegment
	var projection strings.Builder

	doc, err := html.Parse(strings.NewReader(clean))
	if err != nil {
		// The tokenizer-built markup should always parse; degrade to the
		// plain-text path on the raw projection rather than failing the
		// whole render.
		text := stripTags(clean)
		return RenderResult{
			Segments:   ResolveText(text, validUsernames),
			Direction:  textdir.Classify(text),
			Style:      style,
			Markup:     true,
			SafeMarkup: clean,
			Dropped:    dropped,
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "span" {
			if username, ok := attrValue(n, "data-username"); ok && username != "" {
				text := textContent(n)
				if text == "" {
					text = "@" + username
				}
				projection.WriteString(text)
				if validUsernames[username] {
					segments = append(segments, RenderSegment{Kind: SegmentMention, Text: text, Username: username})
				} else {
					// Stored mention of a username that is no longer valid:
					// downgrade to plain content and let the index reclassify.
					segments = append(segments, ResolveText(text, validUsernames)...)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			projection.WriteString(n.Data)
			segments = append(segments, ResolveText(n.Data, validUsernames)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return RenderResult{
		Segments:   mergeText(segments),
		Direction:  textdir.Classify(projection.String()),
		Style:      style,
		Markup:     true,
		SafeMarkup: clean,
		Dropped:    dropped,
	}
}

// ReferencedUsernames lists every username content could mention, on
// either path, so callers can bulk-validate them before rendering.
func ReferencedUsernames(content string) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	if IsMarkup(content) {
		if doc, err := html.Parse(strings.NewReader(content)); err == nil {
			var walk func(n *html.Node)
			walk = func(n *html.Node) {
				if n.Type == html.ElementNode {
					if username, ok := attrValue(n, "data-username"); ok {
						add(username)
					}
				}
				if n.Type == html.TextNode {
					for _, cand := range FindCandidates(n.Data) {
						add(cand.Username())
					}
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
			}
			walk(doc)
			return names
		}
	}
	for _, cand := range FindCandidates(content) {
		add(cand.Username())
	}
	return names
}

// mergeText joins adjacent text segments so both render paths produce
// one canonical segment sequence for equivalent content.
func mergeText(segments []RenderSegment) []RenderSegment {
	out := make([]RenderSegment, 0, len(segments))
	for _, s := range segments {
		if s.Kind == SegmentText && len(out) > 0 && out[len(out)-1].Kind == SegmentText {
			out[len(out)-1].Text += s.Text
			continue
		}
		if s.Text == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// attrValue returns the value of the named attribute on an element.
func attrValue(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// textContent concatenates the text nodes under n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// stripTags removes anything tag-shaped, used only on the degraded
// parse-failure path.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, ""))
}
