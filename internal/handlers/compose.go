package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gratia-app/backend/internal/editor"
	"github.com/gratia-app/backend/internal/richtext"
	"github.com/gratia-app/backend/internal/util"
)

// DetectRequest is the body for POST /api/v1/compose/detect. Caret is a
// logical (rune) offset into Text.
type DetectRequest struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

// DetectResponse reports the trigger state plus suggestions when a
// query is active.
type DetectResponse struct {
	Trigger     richtext.TriggerState `json:"trigger"`
	Suggestions []string              `json:"suggestions,omitempty"`
}

// DetectComposeTrigger rebuilds the composition document from plain
// text and reports whether the caret sits inside an in-progress
// @query. Completed mentions (usernames valid right now) are treated as
// atomic tokens and never re-open as triggers.
func (h *Handlers) DetectComposeTrigger(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "invalid request body")
		return
	}
	if len(req.Text) > MaxContentLength {
		util.RespondValidationError(c, "text", "text too long")
		return
	}

	names := richtext.ReferencedUsernames(req.Text)
	valid, err := h.dir.ValidSet(c.Request.Context(), names)
	if err != nil {
		util.RespondInternalError(c, "username validation failed")
		return
	}

	doc := richtext.ParseDocument(req.Text, valid)
	state, err := richtext.DetectTrigger(doc, req.Caret)
	if err != nil {
		var oor *richtext.OutOfRangeError
		if errors.As(err, &oor) {
			util.RespondValidationError(c, "caret", oor.Error())
			return
		}
		util.RespondInternalError(c, "trigger detection failed")
		return
	}

	resp := DetectResponse{Trigger: state}
	if state.Active {
		h.metrics.SuggestionSearchesTotal.Inc()
		suggestions, err := h.dir.Search(c.Request.Context(), state.Query, editor.DefaultSuggestionLimit)
		if err != nil {
			util.RespondInternalError(c, "username search failed")
			return
		}
		resp.Suggestions = suggestions
	}
	c.JSON(http.StatusOK, resp)
}
