package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gratia-app/backend/internal/richtext"
	"github.com/gratia-app/backend/internal/util"
)

// RenderRequest is the body for POST /api/v1/render.
type RenderRequest struct {
	Content string              `json:"content"`
	Style   *richtext.PostStyle `json:"style,omitempty"`
}

// RenderContent turns stored post content (plain text or markup) into
// display segments with a direction tag. Mention validity is checked
// against the directory at request time, so mentions of since-deleted
// accounts come back as plain text.
func (h *Handlers) RenderContent(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}
	if len(req.Content) > MaxContentLength {
		util.RespondValidationError(c, "content", "content too long")
		return
	}

	names := richtext.ReferencedUsernames(req.Content)
	valid, err := h.dir.ValidSet(c.Request.Context(), names)
	if err != nil {
		util.RespondInternalError(c, "username validation failed")
		return
	}

	result := h.renderer.Render(req.Content, valid, req.Style)

	source := "plain"
	if result.Markup {
		source = "markup"
	}
	h.metrics.RendersTotal.WithLabelValues(source).Inc()
	h.metrics.SanitizerRemovedTotal.Add(float64(result.Dropped))
	for _, seg := range result.Segments {
		switch seg.Kind {
		case richtext.SegmentMention:
			h.metrics.MentionsResolvedTotal.WithLabelValues("resolved").Inc()
		case richtext.SegmentPlainAt:
			h.metrics.MentionsResolvedTotal.WithLabelValues("unresolved").Inc()
		}
	}

	c.JSON(http.StatusOK, result)
}
