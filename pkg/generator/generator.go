// Package generator turns frozen wizard values into a delimited document
// blob. Local renders a pongo2 template per schema after an optional simulated
// delay; Remote posts the values to the content-strategy endpoint; Router
// dispatches on the schema's declared generator kind.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-fitdesk/pkg/model"
)

// Request carries the schema and the frozen values of one submission.
type Request struct {
	Schema model.Schema
	Values model.Values
}

// Generator produces the document blob for a submission.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Func adapts a function into a Generator.
type Func func(ctx context.Context, req Request) (string, error)

// Generate calls the underlying function.
func (fn Func) Generate(ctx context.Context, req Request) (string, error) {
	return fn(ctx, req)
}

// ErrNoGenerator is returned by Router when no generator serves a kind.
var ErrNoGenerator = errors.New("generator: no generator registered")

// Router selects a generator by model.GeneratorKind. Schemas without a kind
// use GeneratorLocal.
type Router struct {
	routes map[model.GeneratorKind]Generator
}

// NewRouter builds a router from kind → generator pairs. Nil generators are
// ignored so optional collaborators can be passed unconditionally.
func NewRouter(routes map[model.GeneratorKind]Generator) *Router {
	r := &Router{routes: make(map[model.GeneratorKind]Generator, len(routes))}
	for kind, gen := range routes {
		if gen != nil {
			r.routes[kind] = gen
		}
	}
	return r
}

// Generate implements Generator.
func (r *Router) Generate(ctx context.Context, req Request) (string, error) {
	kind := req.Schema.Generator
	if kind == "" {
		kind = model.GeneratorLocal
	}
	gen, ok := r.routes[kind]
	if !ok {
		return "", fmt.Errorf("%w for %q (schema %s)", ErrNoGenerator, kind, req.Schema.ID)
	}
	return gen.Generate(ctx, req)
}
