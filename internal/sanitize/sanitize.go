// Package sanitize strips generated markup down to an allow-listed
// tag/attribute set so no executable content survives into rendered
// output. Violations are dropped, never reported as errors: the display
// layer must always be able to render something safe.
package sanitize

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// rawContentTags are elements whose children are raw text that must be
// dropped along with the element itself when the tag is not allowed.
var rawContentTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"textarea": true,
	"title":    true,
}

// urlAttrs are attributes whose values are URLs and need scheme checks.
var urlAttrs = map[string]bool{
	"href": true,
	"src":  true,
}

// Policy is an immutable tag/attribute allow-list.
type Policy struct {
	tags  map[string]bool
	attrs map[string]bool
}

// NewPolicy builds a policy from explicit allow-lists. Tag and attribute
// names are matched lowercase.
func NewPolicy(tags, attrs []string) *Policy {
	p := &Policy{
		tags:  make(map[string]bool, len(tags)),
		attrs: make(map[string]bool, len(attrs)),
	}
	for _, t := range tags {
		p.tags[strings.ToLower(t)] = true
	}
	for _, a := range attrs {
		p.attrs[strings.ToLower(a)] = true
	}
	return p
}

// DefaultPolicy allows the markup the post editor generates: basic
// inline formatting plus mention spans.
func DefaultPolicy() *Policy {
	return NewPolicy(
		[]string{"p", "br", "div", "span", "b", "strong", "i", "em", "u", "s", "a", "ul", "ol", "li", "blockquote"},
		[]string{"class", "href", "dir", "data-username"},
	)
}

// Sanitize rewrites input so that only allow-listed elements and
// attributes remain. Disallowed tags are removed but their text content
// is kept, except raw-content elements (script, style, ...) whose
// contents are dropped entirely. Event-handler attributes and javascript:
// URLs never survive regardless of the allow-list. The second return
// value counts removed tags and attributes.
func (p *Policy) Sanitize(input string) (string, int) {
	var b strings.Builder
	dropped := 0

	z := html.NewTokenizer(strings.NewReader(input))
	skipping := "" // raw-content tag we are inside of, if any
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String(), dropped

		case html.TextToken:
			if skipping == "" {
				b.WriteString(html.EscapeString(string(z.Text())))
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			name := strings.ToLower(tok.Data)
			if skipping != "" {
				dropped++
				continue
			}
			if !p.tags[name] {
				dropped++
				if rawContentTags[name] && tt == html.StartTagToken {
					skipping = name
				}
				continue
			}
			dropped += p.writeTag(&b, tok, tt == html.SelfClosingTagToken)

		case html.EndTagToken:
			tok := z.Token()
			name := strings.ToLower(tok.Data)
			if skipping != "" {
				if name == skipping {
					skipping = ""
				}
				continue
			}
			if !p.tags[name] {
				continue
			}
			b.WriteString("</" + name + ">")

		case html.CommentToken, html.DoctypeToken:
			dropped++
		}
	}
}

// writeTag emits an allowed start tag with only its allowed attributes,
// returning the number of attributes dropped.
func (p *Policy) writeTag(b *strings.Builder, tok html.Token, selfClosing bool) int {
	dropped := 0
	name := strings.ToLower(tok.Data)
	b.WriteString("<" + name)
	for _, attr := range tok.Attr {
		key := strings.ToLower(attr.Key)
		if !p.attrs[key] || strings.HasPrefix(key, "on") {
			dropped++
			continue
		}
		if urlAttrs[key] && !SafeURL(attr.Val) {
			dropped++
			continue
		}
		b.WriteString(` ` + key + `="` + html.EscapeString(attr.Val) + `"`)
	}
	if selfClosing {
		b.WriteString("/>")
	} else {
		b.WriteString(">")
	}
	return dropped
}

// SafeURL reports whether a URL value is acceptable in an attribute:
// relative, http, https, or mailto. Anything unparseable or with another
// scheme (javascript:, data:, vbscript:) is rejected.
func SafeURL(val string) bool {
	u, err := url.Parse(strings.TrimSpace(val))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	}
	return false
}
