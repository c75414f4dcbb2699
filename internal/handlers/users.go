package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gratia-app/backend/internal/editor"
	"github.com/gratia-app/backend/internal/util"
)

// SuggestUsers serves GET /api/v1/users/suggest?q=prefix&limit=n for
// mention autocomplete.
func (h *Handlers) SuggestUsers(c *gin.Context) {
	prefix := c.Query("q")
	if prefix == "" {
		util.RespondValidationError(c, "q", "query prefix is required")
		return
	}

	limit := editor.DefaultSuggestionLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	h.metrics.SuggestionSearchesTotal.Inc()
	usernames, err := h.dir.Search(c.Request.Context(), prefix, limit)
	if err != nil {
		util.RespondInternalError(c, "username search failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":     prefix,
		"usernames": usernames,
	})
}
