// Package popup implements the create popups: single-screen forms whose
// fields come from the backend OpenAPI contract and whose submit posts the
// collected values to the operation path.
//
// A Form moves editing → submitting → done. A failed submit returns to
// editing with the message kept in Err; the form never closes on error.
package popup

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-fitdesk/pkg/api"
	"github.com/goliatone/go-fitdesk/pkg/model"
)

// Phase is the form state.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseDone       Phase = "done"
	PhaseClosed     Phase = "closed"
)

var (
	ErrBusy       = errors.New("popup: submit in progress")
	ErrNotEditing = errors.New("popup: form is not editable")
)

// Doer performs one API call; *api.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, method, path string, body any, opts ...api.CallOption) (any, error)
}

// Form collects input for one Operation.
type Form struct {
	mu     sync.Mutex
	op     Operation
	client Doer
	logger *zap.Logger

	values model.Values
	phase  Phase
	errMsg string
	result any
}

// FormOption configures a Form.
type FormOption func(*Form)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) FormOption {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewForm opens a form for op.
func NewForm(op Operation, client Doer, options ...FormOption) (*Form, error) {
	if client == nil {
		return nil, errors.New("popup: client is required")
	}
	if err := op.Schema.Validate(); err != nil {
		return nil, err
	}
	f := &Form{
		op:     op,
		client: client,
		logger: zap.NewNop(),
		values: op.Schema.Defaults(),
		phase:  PhaseEditing,
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Operation returns the operation backing the form.
func (f *Form) Operation() Operation { return f.op }

// Schema returns the derived form schema.
func (f *Form) Schema() model.Schema { return f.op.Schema }

// Phase reports the current phase.
func (f *Form) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Err returns the error banner text.
func (f *Form) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Values returns a copy of the current values.
func (f *Form) Values() model.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Result returns the created entity once done.
func (f *Form) Result() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// SetField replaces one value.
func (f *Form) SetField(name string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return err
	}
	return f.op.Schema.Set(f.values, name, value)
}

// ToggleArrayField flips value in a multi-select set.
func (f *Form) ToggleArrayField(name, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editable(); err != nil {
		return false, err
	}
	return f.op.Schema.Toggle(f.values, name, value)
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase == PhaseEditing && model.MissingRequired(f.op.Schema.Steps, f.values) == nil
}

// Submit posts the values. Success moves to PhaseDone and returns the created
// entity unmodified.
func (f *Form) Submit(ctx context.Context) (any, error) {
	f.mu.Lock()
	if f.phase == PhaseSubmitting {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if err := f.editable(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if err := model.MissingRequired(f.op.Schema.Steps, f.values); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	body := f.body()
	f.phase = PhaseSubmitting
	f.errMsg = ""
	f.mu.Unlock()

	result, err := f.client.Do(ctx, f.op.Method, f.op.Path, body)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseClosed {
		return nil, ErrNotEditing
	}
	if err != nil {
		f.phase = PhaseEditing
		f.errMsg = api.Message(err)
		f.logger.Warn("popup submit failed", zap.String("operation", f.op.ID), zap.Error(err))
		return nil, err
	}
	f.logger.Debug("popup submitted", zap.String("operation", f.op.ID))
	f.result = result
	f.phase = PhaseDone
	return result, nil
}

// Close discards the form.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = model.Values{}
	f.phase = PhaseClosed
}

func (f *Form) editable() error {
	if f.phase == PhaseSubmitting {
		return ErrBusy
	}
	if f.phase != PhaseEditing {
		return ErrNotEditing
	}
	return nil
}

// body builds the request payload: blank values are omitted and integer
// properties are sent as whole numbers.
func (f *Form) body() map[string]any {
	body := make(map[string]any, len(f.values))
	for _, field := range f.op.Schema.Fields() {
		if !f.values.Present(field.Name) {
			continue
		}
		switch field.Kind {
		case model.FieldKindMulti:
			body[field.Name] = f.values.Strings(field.Name)
		case model.FieldKindNumber:
			n, _ := f.values.Number(field.Name)
			if f.op.integers[field.Name] {
				body[field.Name] = int64(math.Round(n))
				continue
			}
			body[field.Name] = n
		default:
			body[field.Name] = strings.TrimSpace(f.values.String(field.Name))
		}
	}
	return body
}
