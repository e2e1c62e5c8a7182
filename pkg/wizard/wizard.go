// Package wizard implements the stepped-form controller shared by every
// creator feature. A Controller owns the values of one schema, walks its
// visible steps, and on submit hands a frozen copy of the values to a
// generator and parses the returned blob into a document.
package wizard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-fitdesk/pkg/api"
	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/generator"
	"github.com/goliatone/go-fitdesk/pkg/model"
)

// Phase is the controller's view state.
type Phase string

const (
	PhaseEditing Phase = "editing"
	PhaseLoading Phase = "loading"
	PhaseResult  Phase = "result"
	PhaseClosed  Phase = "closed"
)

var (
	// ErrUnknownField is returned when a field name is not part of the schema.
	ErrUnknownField = model.ErrUnknownField
	// ErrNotMulti is returned when toggling a field that is not a multi-select.
	ErrNotMulti = model.ErrNotMulti
	// ErrInvalidOption is returned when a choice value is not among the options.
	ErrInvalidOption = model.ErrInvalidOption
	// ErrBusy is returned while a generation call is in flight.
	ErrBusy = errors.New("wizard: generation in progress")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("wizard: closed")
	// ErrNotEditing is returned when editing outside the form phase.
	ErrNotEditing = errors.New("wizard: not editing")
	// ErrLastStep is returned by Next on the final visible step.
	ErrLastStep = errors.New("wizard: already on the last step")
	// ErrFirstStep is returned by Back on the first step.
	ErrFirstStep = errors.New("wizard: already on the first step")
)

// ValidationError lists required fields left empty.
type ValidationError = model.ValidationError

// Controller drives one schema from input to generated document. It is safe
// for concurrent use.
type Controller struct {
	mu sync.Mutex

	schema    model.Schema
	generator generator.Generator
	logger    *zap.Logger

	values model.Values
	step   int
	phase  Phase
	doc    document.Document
	blob   string
	errMsg string
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a controller for schema seeded with its defaults.
func New(schema model.Schema, gen generator.Generator, options ...Option) (*Controller, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, errors.New("wizard: generator is required")
	}
	c := &Controller{
		schema:    schema,
		generator: gen,
		logger:    zap.NewNop(),
		values:    schema.Defaults(),
		phase:     PhaseEditing,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Schema returns the schema being edited.
func (c *Controller) Schema() model.Schema {
	return c.schema
}

// Phase reports the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Values returns a copy of the current values.
func (c *Controller) Values() model.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone()
}

// Err returns the message of the last failed generation, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Document returns the generated document; ok is false outside PhaseResult.
func (c *Controller) Document() (document.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseResult {
		return document.Document{}, false
	}
	return c.doc, true
}

// Raw returns the unparsed blob of the last generation in PhaseResult.
func (c *Controller) Raw() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseResult {
		return ""
	}
	return c.blob
}

// Steps returns the steps visible for the current values.
func (c *Controller) Steps() []model.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schema.VisibleSteps(c.values)
}

// Step returns the current step and its index among the visible steps.
func (c *Controller) Step() (model.Step, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	steps := c.schema.VisibleSteps(c.values)
	idx := c.clampStep(len(steps))
	if len(steps) == 0 {
		return model.Step{}, 0
	}
	return steps[idx], idx
}

// SetField replaces the value of one field. Choice fields only accept their
// options; number fields accept numbers or numeric text.
func (c *Controller) SetField(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	return c.schema.Set(c.values, name, value)
}

// ToggleArrayField adds value to a multi-select set when absent and removes it
// when present. It reports whether value is selected afterwards.
func (c *Controller) ToggleArrayField(name, value string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return false, err
	}
	return c.schema.Toggle(c.values, name, value)
}

// Next validates the current step and advances.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	steps := c.schema.VisibleSteps(c.values)
	idx := c.clampStep(len(steps))
	if err := model.MissingRequired(steps[idx:idx+1], c.values); err != nil {
		return err
	}
	if idx+1 >= len(steps) {
		return ErrLastStep
	}
	c.step = idx + 1
	return nil
}

// Back moves to the previous visible step.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	idx := c.clampStep(len(c.schema.VisibleSteps(c.values)))
	if idx == 0 {
		return ErrFirstStep
	}
	c.step = idx - 1
	return nil
}

// Submit validates every visible step, freezes the values, and runs the
// generator. The controller stays in PhaseLoading for the duration of the
// call; concurrent submits fail with ErrBusy. On failure the message is kept
// in Err and the form is editable again.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.phase {
	case PhaseClosed:
		c.mu.Unlock()
		return ErrClosed
	case PhaseLoading:
		c.mu.Unlock()
		return ErrBusy
	case PhaseResult:
		c.mu.Unlock()
		return ErrNotEditing
	}
	if err := model.MissingRequired(c.schema.VisibleSteps(c.values), c.values); err != nil {
		c.mu.Unlock()
		return err
	}
	frozen := c.visibleValues()
	c.phase = PhaseLoading
	c.errMsg = ""
	c.mu.Unlock()

	c.logger.Debug("wizard submit", zap.String("schema", c.schema.ID))
	blob, err := c.generator.Generate(ctx, generator.Request{Schema: c.schema, Values: frozen})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseClosed {
		return ErrClosed
	}
	if err != nil {
		c.phase = PhaseEditing
		c.errMsg = api.Message(err)
		c.logger.Warn("wizard generation failed", zap.String("schema", c.schema.ID), zap.Error(err))
		return err
	}
	c.blob = blob
	c.doc = document.Parse(blob, c.schema.SectionMarker())
	c.phase = PhaseResult
	return nil
}

// StartOver discards the document and restores defaults on the first step.
func (c *Controller) StartOver() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.phase {
	case PhaseClosed:
		return ErrClosed
	case PhaseLoading:
		return ErrBusy
	}
	c.reset()
	c.phase = PhaseEditing
	return nil
}

// Close discards all state. Later mutations return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	c.phase = PhaseClosed
}

func (c *Controller) reset() {
	c.values = c.schema.Defaults()
	c.step = 0
	c.doc = document.Document{}
	c.blob = ""
	c.errMsg = ""
}

func (c *Controller) editable() error {
	switch c.phase {
	case PhaseClosed:
		return ErrClosed
	case PhaseLoading:
		return ErrBusy
	case PhaseResult:
		return ErrNotEditing
	default:
		return nil
	}
}

// clampStep keeps the step index inside the visible steps; toggling a branch
// answer can hide steps after the cursor.
func (c *Controller) clampStep(visible int) int {
	if c.step >= visible {
		c.step = visible - 1
	}
	if c.step < 0 {
		c.step = 0
	}
	return c.step
}

// visibleValues copies the values of fields on visible steps only, so answers
// left behind on a skipped branch do not reach the generator.
func (c *Controller) visibleValues() model.Values {
	all := c.values.Clone()
	out := make(model.Values, len(all))
	for _, step := range c.schema.VisibleSteps(all) {
		for _, field := range step.Fields {
			if value, ok := all[field.Name]; ok {
				out[field.Name] = value
			}
		}
	}
	return out
}
