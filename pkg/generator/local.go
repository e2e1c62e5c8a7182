package generator

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Local templates the document from the schema's pongo2 template. It stands
// in for a remote generation call: it waits Delay (honouring ctx) and always
// succeeds unless the template fails.
type Local struct {
	engine *Engine
	delay  time.Duration
	logger *zap.Logger
}

// LocalOption configures Local.
type LocalOption func(*Local)

// WithDelay sets the simulated generation latency.
func WithDelay(d time.Duration) LocalOption {
	return func(l *Local) {
		if d >= 0 {
			l.delay = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) LocalOption {
	return func(l *Local) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLocal builds a Local reading .tpl templates from files.
func NewLocal(files fs.FS, options ...LocalOption) (*Local, error) {
	engine, err := NewEngine(files, ".tpl")
	if err != nil {
		return nil, err
	}
	l := &Local{engine: engine, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

// Generate implements Generator.
func (l *Local) Generate(ctx context.Context, req Request) (string, error) {
	if l.delay > 0 {
		timer := time.NewTimer(l.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	name := strings.TrimSpace(req.Schema.Template)
	if name == "" {
		name = req.Schema.ID
	}

	out, err := l.engine.RenderTemplate(name, templateData(req))
	if err != nil {
		return "", fmt.Errorf("generator: %s: %w", req.Schema.ID, err)
	}
	l.logger.Debug("document generated",
		zap.String("schema", req.Schema.ID),
		zap.String("template", name),
		zap.Int("bytes", len(out)),
	)
	return out, nil
}

// templateData exposes values both at the top level and under "values",
// alongside schema metadata and the section marker.
func templateData(req Request) map[string]any {
	values := req.Values.Map()
	data := make(map[string]any, len(values)+3)
	for key, value := range values {
		data[key] = value
	}
	data["values"] = values
	data["schema"] = map[string]any{
		"id":    req.Schema.ID,
		"title": req.Schema.Title,
	}
	data["marker"] = req.Schema.SectionMarker()
	return data
}
