// Package markdown renders documents as portable markdown, optionally styled
// for the terminal through glamour.
package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/render"
)

const (
	Name        = "markdown"
	GlamourName = "glamour"

	defaultWrap = 80
)

// Renderer emits markdown. When styled, the markdown is passed through a
// glamour term renderer.
type Renderer struct {
	name  string
	style string
	auto  bool
}

// New returns the plain markdown renderer.
func New() *Renderer {
	return &Renderer{name: Name}
}

// NewGlamour returns a glamour renderer. An empty style picks one from the
// terminal background.
func NewGlamour(style string) *Renderer {
	return &Renderer{name: GlamourName, style: style, auto: style == ""}
}

func (r *Renderer) Name() string { return r.name }

func (r *Renderer) ContentType() string {
	if r.name == GlamourName {
		return "text/plain; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, doc document.Document, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	if options.Title != "" {
		b.WriteString("# ")
		b.WriteString(options.Title)
		b.WriteString("\n\n")
	}
	if options.Subtitle != "" {
		b.WriteString("_")
		b.WriteString(options.Subtitle)
		b.WriteString("_\n\n")
	}
	b.WriteString(doc.Markdown())

	if r.name != GlamourName {
		return []byte(b.String()), nil
	}

	wrap := defaultWrap
	if options.Width > 0 {
		wrap = options.Width
	}
	styleOpt := glamour.WithAutoStyle()
	if !r.auto {
		styleOpt = glamour.WithStandardStyle(r.style)
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("markdown: glamour renderer: %w", err)
	}
	out, err := term.Render(b.String())
	if err != nil {
		return nil, fmt.Errorf("markdown: glamour render: %w", err)
	}
	return []byte(out), nil
}
