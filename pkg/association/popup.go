// Package association implements the headless popups that link two existing
// entities: a client to a payment plan, or an expense to a client and a
// service. A Popup loads the reference lists on Open, collects one selection
// per key and submits a single association mutation.
//
// Phases follow closed → loadingList → listReady → submitting → closed. A
// failed load or submit moves to error; opening again reloads the lists.
package association

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-fitdesk/pkg/api"
)

// Phase is the popup state.
type Phase string

const (
	PhaseClosed      Phase = "closed"
	PhaseLoadingList Phase = "loadingList"
	PhaseListReady   Phase = "listReady"
	PhaseSubmitting  Phase = "submitting"
	PhaseError       Phase = "error"
)

var (
	ErrBusy          = errors.New("association: request in flight")
	ErrNotReady      = errors.New("association: selection incomplete")
	ErrNotOpen       = errors.New("association: popup is not showing its lists")
	ErrUnknownKey    = errors.New("association: unknown key")
	ErrUnknownOption = errors.New("association: value is not in the list")
)

// Option is one entry of a reference list.
type Option struct {
	Value string
	Label string
}

// LoadFunc fetches the reference list for a key.
type LoadFunc func(ctx context.Context) ([]Option, error)

// SubmitFunc performs the association with the selected values keyed by
// Key.Name.
type SubmitFunc func(ctx context.Context, selections map[string]string) (any, error)

// Key is one association slot.
type Key struct {
	Name     string
	Label    string
	Optional bool
	Load     LoadFunc
}

// Definition describes a popup.
type Definition struct {
	Name   string
	Keys   []Key
	Submit SubmitFunc
}

// Popup is the state machine for one Definition. It is safe for concurrent
// use; at most one request is in flight.
type Popup struct {
	mu     sync.Mutex
	def    Definition
	logger *zap.Logger

	phase    Phase
	lists    map[string][]Option
	selected map[string]string
	notices  []string
	errMsg   string
	result   any
}

// PopupOption configures a Popup.
type PopupOption func(*Popup)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) PopupOption {
	return func(p *Popup) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New validates def and returns a closed popup.
func New(def Definition, options ...PopupOption) (*Popup, error) {
	if len(def.Keys) == 0 {
		return nil, fmt.Errorf("association: %s declares no keys", def.Name)
	}
	if def.Submit == nil {
		return nil, fmt.Errorf("association: %s has no submit function", def.Name)
	}
	seen := make(map[string]struct{}, len(def.Keys))
	for _, key := range def.Keys {
		if strings.TrimSpace(key.Name) == "" || key.Load == nil {
			return nil, fmt.Errorf("association: %s has an incomplete key %q", def.Name, key.Name)
		}
		if _, dup := seen[key.Name]; dup {
			return nil, fmt.Errorf("association: %s duplicates key %q", def.Name, key.Name)
		}
		seen[key.Name] = struct{}{}
	}
	p := &Popup{
		def:      def,
		logger:   zap.NewNop(),
		phase:    PhaseClosed,
		lists:    map[string][]Option{},
		selected: map[string]string{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Name returns the definition name.
func (p *Popup) Name() string { return p.def.Name }

// Keys returns the association slots.
func (p *Popup) Keys() []Key {
	return append([]Key(nil), p.def.Keys...)
}

// Phase reports the current phase.
func (p *Popup) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Err returns the error banner text.
func (p *Popup) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

// Notices returns the non-fatal messages of the last load, such as a
// reference list that had to be coerced to empty.
func (p *Popup) Notices() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.notices...)
}

// Options returns the loaded list of key.
func (p *Popup) Options(key string) []Option {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Option(nil), p.lists[key]...)
}

// Selections returns a copy of the current selections.
func (p *Popup) Selections() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.selected))
	for k, v := range p.selected {
		out[k] = v
	}
	return out
}

// Result returns the body of the last successful submit.
func (p *Popup) Result() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Open loads every reference list. A malformed list becomes empty and is
// reported through Notices; any other failure moves the popup to PhaseError.
func (p *Popup) Open(ctx context.Context) error {
	p.mu.Lock()
	if p.phase == PhaseLoadingList || p.phase == PhaseSubmitting {
		p.mu.Unlock()
		return ErrBusy
	}
	p.phase = PhaseLoadingList
	p.errMsg = ""
	p.notices = nil
	p.selected = map[string]string{}
	p.mu.Unlock()

	lists := make(map[string][]Option, len(p.def.Keys))
	var notices []string
	for _, key := range p.def.Keys {
		options, err := key.Load(ctx)
		if errors.Is(err, api.ErrMalformedList) {
			notices = append(notices, fmt.Sprintf("No se pudo leer la lista de %s", keyLabel(key)))
			p.logger.Warn("association list coerced to empty",
				zap.String("popup", p.def.Name), zap.String("key", key.Name), zap.Error(err))
			options, err = []Option{}, nil
		}
		if err != nil {
			p.mu.Lock()
			defer p.mu.Unlock()
			p.phase = PhaseError
			p.errMsg = api.Message(err)
			return err
		}
		lists[key.Name] = options
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase != PhaseLoadingList {
		return ErrNotOpen
	}
	p.lists = lists
	p.notices = notices
	if len(notices) > 0 {
		p.errMsg = strings.Join(notices, "; ")
	}
	p.phase = PhaseListReady
	return nil
}

// Select records value for key; value must be in the loaded list.
func (p *Popup) Select(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == PhaseSubmitting {
		return ErrBusy
	}
	if p.phase != PhaseListReady {
		return ErrNotOpen
	}
	list, ok := p.lists[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if !hasOption(list, value) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownOption, value, key)
	}
	p.selected[key] = value
	return nil
}

// Clear removes the selection for key.
func (p *Popup) Clear(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == PhaseSubmitting {
		return ErrBusy
	}
	if _, ok := p.lists[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	delete(p.selected, key)
	return nil
}

// CanSubmit reports whether the submit control is enabled: the lists are
// showing, no request is in flight, every required key holds a selection from
// its list, and at least one key is selected.
func (p *Popup) CanSubmit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canSubmit()
}

func (p *Popup) canSubmit() bool {
	if p.phase != PhaseListReady {
		return false
	}
	count := 0
	for _, key := range p.def.Keys {
		value, ok := p.selected[key.Name]
		if !ok || !hasOption(p.lists[key.Name], value) {
			if !key.Optional {
				return false
			}
			continue
		}
		count++
	}
	return count > 0
}

// Submit performs the association. On success the popup closes; on failure it
// stays open in PhaseError with the message.
func (p *Popup) Submit(ctx context.Context) (any, error) {
	p.mu.Lock()
	if p.phase == PhaseSubmitting || p.phase == PhaseLoadingList {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	if !p.canSubmit() {
		p.mu.Unlock()
		return nil, ErrNotReady
	}
	selections := make(map[string]string, len(p.selected))
	for k, v := range p.selected {
		selections[k] = v
	}
	p.phase = PhaseSubmitting
	p.errMsg = ""
	p.mu.Unlock()

	result, err := p.def.Submit(ctx, selections)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.phase = PhaseError
		p.errMsg = api.Message(err)
		p.logger.Warn("association submit failed", zap.String("popup", p.def.Name), zap.Error(err))
		return nil, err
	}
	p.logger.Debug("association submitted", zap.String("popup", p.def.Name), zap.Any("selections", selections))
	p.result = result
	p.reset()
	return result, nil
}

// Close hides the popup and discards lists and selections.
func (p *Popup) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	p.errMsg = ""
}

func (p *Popup) reset() {
	p.phase = PhaseClosed
	p.lists = map[string][]Option{}
	p.selected = map[string]string{}
	p.notices = nil
}

func keyLabel(key Key) string {
	if strings.TrimSpace(key.Label) != "" {
		return key.Label
	}
	return key.Name
}

func hasOption(list []Option, value string) bool {
	for _, option := range list {
		if option.Value == value {
			return true
		}
	}
	return false
}
