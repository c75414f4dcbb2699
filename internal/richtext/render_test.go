package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gratia-app/backend/internal/textdir"
)

func TestIsMarkup(t *testing.T) {
	assert.False(t, IsMarkup("plain text with @alice"))
	assert.True(t, IsMarkup("<p>hi</p>"))
	assert.True(t, IsMarkup("<span data-username=\"alice\">@alice</span>"))
	assert.True(t, IsMarkup("</div>"))
}

func TestRenderPlainText(t *testing.T) {
	r := NewRenderer(nil)
	valid := map[string]bool{"alice": true}

	result := r.Render("Thanks @alice!", valid, nil)

	assert.False(t, result.Markup)
	assert.Equal(t, textdir.LTR, result.Direction)
	require.Equal(t, []RenderSegment{
		{Kind: SegmentText, Text: "Thanks "},
		{Kind: SegmentMention, Text: "@alice", Username: "alice"},
		{Kind: SegmentText, Text: "!"},
	}, result.Segments)
}

func TestRenderPlainAndMarkupPathsAgree(t *testing.T) {
	r := NewRenderer(nil)
	valid := map[string]bool{"alice": true}

	plain := r.Render("@alice is great", valid, nil)
	markup := r.Render(`<span class="mention" data-username="alice">@alice</span> is great`, valid, nil)

	assert.False(t, plain.Markup)
	assert.True(t, markup.Markup)
	assert.Equal(t, plain.Segments, markup.Segments)
	assert.Equal(t, plain.Direction, markup.Direction)
}

func TestRenderUnknownUserDegrades(t *testing.T) {
	r := NewRenderer(nil)

	result := r.Render("@ghost", map[string]bool{}, nil)
	require.Equal(t, []RenderSegment{
		{Kind: SegmentPlainAt, Text: "@ghost"},
	}, result.Segments)
}

func TestRenderStoredMentionOfDeletedUserDegrades(t *testing.T) {
	r := NewRenderer(nil)

	// The post stored a mention span, but the account is gone.
	result := r.Render(`<p>bye <span data-username="ghost">@ghost</span></p>`, map[string]bool{}, nil)
	require.Equal(t, []RenderSegment{
		{Kind: SegmentText, Text: "bye "},
		{Kind: SegmentPlainAt, Text: "@ghost"},
	}, result.Segments)
}

func TestRenderMarkupSanitizes(t *testing.T) {
	r := NewRenderer(nil)

	result := r.Render(`<p onclick="steal()">hi</p><script>alert(1)</script>`, nil, nil)

	assert.True(t, result.Markup)
	assert.NotContains(t, result.SafeMarkup, "script")
	assert.NotContains(t, result.SafeMarkup, "onclick")
	assert.NotContains(t, result.SafeMarkup, "alert")
	assert.Greater(t, result.Dropped, 0)
	require.Equal(t, []RenderSegment{
		{Kind: SegmentText, Text: "hi"},
	}, result.Segments)
}

func TestRenderDirectionRTL(t *testing.T) {
	r := NewRenderer(nil)

	result := r.Render("שלום @alice", map[string]bool{"alice": true}, nil)
	assert.Equal(t, textdir.RTL, result.Direction)

	result = r.Render(`<p>مرحبا</p>`, nil, nil)
	assert.Equal(t, textdir.RTL, result.Direction)
}

func TestRenderStylePassthrough(t *testing.T) {
	r := NewRenderer(nil)
	style := &PostStyle{Background: "sunset", TextColor: "#fff", Font: "serif"}

	result := r.Render("hello", nil, style)
	assert.Equal(t, style, result.Style)
}

func TestRenderMarkupMentionWithoutText(t *testing.T) {
	r := NewRenderer(nil)

	// An empty mention span falls back to the canonical display text.
	result := r.Render(`<span data-username="alice"></span>`, map[string]bool{"alice": true}, nil)
	require.Equal(t, []RenderSegment{
		{Kind: SegmentMention, Text: "@alice", Username: "alice"},
	}, result.Segments)
}

func TestRenderMarkupPlainAtInText(t *testing.T) {
	r := NewRenderer(nil)

	// Raw @tokens inside markup text nodes still resolve.
	result := r.Render(`<p>hi @alice and @ghost</p>`, map[string]bool{"alice": true}, nil)
	require.Equal(t, []RenderSegment{
		{Kind: SegmentText, Text: "hi "},
		{Kind: SegmentMention, Text: "@alice", Username: "alice"},
		{Kind: SegmentText, Text: " and "},
		{Kind: SegmentPlainAt, Text: "@ghost"},
	}, result.Segments)
}

func TestReferencedUsernamesPlain(t *testing.T) {
	names := ReferencedUsernames("hi @alice and @bob, also @alice again")
	assert.Equal(t, []string{"alice", "bob"}, names)
}

func TestReferencedUsernamesMarkup(t *testing.T) {
	names := ReferencedUsernames(`<p><span data-username="alice">@alice</span> met @bob</p>`)
	assert.ElementsMatch(t, []string{"alice", "bob"}, names)
}

func TestReferencedUsernamesNone(t *testing.T) {
	assert.Empty(t, ReferencedUsernames("nothing to see"))
}
