// Package render defines the output side of a generated document: a Renderer
// turns a parsed document.Document into bytes (terminal text, HTML, JSON) and
// a Registry resolves renderers by name.
package render

import (
	"context"

	"github.com/goliatone/go-fitdesk/pkg/document"
)

// Renderer converts a document into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc document.Document, options Options) ([]byte, error)
}
