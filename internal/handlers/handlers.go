// Package handlers exposes the rich content pipeline over HTTP: render
// stored content, detect an in-progress mention trigger, and suggest
// usernames. Post/heart/reaction CRUD lives in other services; this one
// only serves the content core.
package handlers

import (
	"github.com/gratia-app/backend/internal/directory"
	"github.com/gratia-app/backend/internal/metrics"
	"github.com/gratia-app/backend/internal/richtext"
)

// MaxContentLength caps content accepted for rendering, in bytes.
const MaxContentLength = 20000

// Handlers carries the shared dependencies for all endpoints.
type Handlers struct {
	dir      directory.Directory
	renderer *richtext.Renderer
	metrics  *metrics.Metrics
}

// NewHandlers wires the handler set. The renderer uses the default
// sanitizer allow-list.
func NewHandlers(dir directory.Directory) *Handlers {
	return &Handlers{
		dir:      dir,
		renderer: richtext.NewRenderer(nil),
		metrics:  metrics.Get(),
	}
}
