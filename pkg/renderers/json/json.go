// Package json renders the document node tree as JSON.
package json

import (
	"context"
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/render"
)

const Name = "json"

// Payload is the serialised shape.
type Payload struct {
	Title    string             `json:"title,omitempty"`
	Subtitle string             `json:"subtitle,omitempty"`
	Sections []document.Section `json:"sections"`
}

// Renderer writes indented JSON.
type Renderer struct {
	indent string
}

// New constructs the renderer. An empty indent produces compact output.
func New(indent string) *Renderer {
	return &Renderer{indent: indent}
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "application/json" }

func (r *Renderer) Render(ctx context.Context, doc document.Document, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := Payload{Title: options.Title, Subtitle: options.Subtitle, Sections: doc.Sections}
	if payload.Sections == nil {
		payload.Sections = []document.Section{}
	}
	var (
		out []byte
		err error
	)
	if r.indent == "" {
		out, err = gojson.Marshal(payload)
	} else {
		out, err = gojson.MarshalIndent(payload, "", r.indent)
	}
	if err != nil {
		return nil, fmt.Errorf("json: marshal document: %w", err)
	}
	return out, nil
}
