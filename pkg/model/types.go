package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-fitdesk/pkg/visibility"
)

// FieldKind enumerates the supported input controls.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindTextArea FieldKind = "textarea"
	FieldKindNumber   FieldKind = "number"
	FieldKindSingle   FieldKind = "single"
	FieldKindMulti    FieldKind = "multi"
)

// Valid reports whether the kind is one of the known controls.
func (k FieldKind) Valid() bool {
	switch k {
	case FieldKindText, FieldKindTextArea, FieldKindNumber, FieldKindSingle, FieldKindMulti:
		return true
	default:
		return false
	}
}

// Choice reports whether the kind renders as a chip-list.
func (k FieldKind) Choice() bool {
	return k == FieldKindSingle || k == FieldKindMulti
}

// GeneratorKind selects the collaborator that turns frozen values into a
// document blob.
type GeneratorKind string

const (
	GeneratorLocal  GeneratorKind = "local"
	GeneratorRemote GeneratorKind = "remote"
)

// DefaultMarker delimits sections inside generated documents.
const DefaultMarker = "###"

// Field describes one input.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Help        string    `json:"help,omitempty" yaml:"help,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// DisplayLabel falls back to the field name when no label is configured.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// HasOption reports whether value is one of the configured options.
func (f Field) HasOption(value string) bool {
	for _, option := range f.Options {
		if option == value {
			return true
		}
	}
	return false
}

// Condition gates a step on earlier answers. With Field set the step is
// visible when any of the values stored under Field is listed in In. Expr is
// a visibility rule evaluated against every answer; when both are set both
// must hold.
type Condition struct {
	Field string   `json:"field,omitempty" yaml:"field,omitempty"`
	In    []string `json:"in,omitempty" yaml:"in,omitempty"`
	Expr  string   `json:"expr,omitempty" yaml:"expr,omitempty"`
}

// Matches evaluates the condition against values. A rule that fails to
// compile never matches.
func (c *Condition) Matches(values Values) bool {
	if c == nil {
		return true
	}
	if c.Field != "" && !c.matchesIn(values) {
		return false
	}
	if c.Expr != "" {
		ok, err := visibility.Match(c.Expr, values)
		return err == nil && ok
	}
	return true
}

func (c *Condition) matchesIn(values Values) bool {
	for _, candidate := range values.Strings(c.Field) {
		for _, want := range c.In {
			if candidate == want {
				return true
			}
		}
	}
	return false
}

// references lists the answers the condition reads.
func (c *Condition) references() ([]string, error) {
	var names []string
	if c.Field != "" {
		names = append(names, c.Field)
	}
	if c.Expr != "" {
		rule, err := visibility.Compile(c.Expr)
		if err != nil {
			return nil, err
		}
		names = append(names, rule.Fields()...)
	}
	return names, nil
}

// Step groups fields shown on one wizard screen.
type Step struct {
	ID     string     `json:"id" yaml:"id"`
	Title  string     `json:"title,omitempty" yaml:"title,omitempty"`
	Help   string     `json:"help,omitempty" yaml:"help,omitempty"`
	Fields []Field    `json:"fields" yaml:"fields"`
	When   *Condition `json:"when,omitempty" yaml:"when,omitempty"`
}

// Schema is the declarative definition of a wizard or popup form.
type Schema struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Marker      string        `json:"marker,omitempty" yaml:"marker,omitempty"`
	Generator   GeneratorKind `json:"generator,omitempty" yaml:"generator,omitempty"`
	Template    string        `json:"template,omitempty" yaml:"template,omitempty"`
	Steps       []Step        `json:"steps" yaml:"steps"`
}

// SectionMarker returns the configured marker or DefaultMarker.
func (s Schema) SectionMarker() string {
	if m := strings.TrimSpace(s.Marker); m != "" {
		return m
	}
	return DefaultMarker
}

// Field looks up a field by name across all steps.
func (s Schema) Field(name string) (Field, bool) {
	for _, step := range s.Steps {
		for _, field := range step.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Fields flattens every field in step order.
func (s Schema) Fields() []Field {
	var out []Field
	for _, step := range s.Steps {
		out = append(out, step.Fields...)
	}
	return out
}

// VisibleSteps returns the steps whose condition matches values, in order.
func (s Schema) VisibleSteps(values Values) []Step {
	out := make([]Step, 0, len(s.Steps))
	for _, step := range s.Steps {
		if step.When.Matches(values) {
			out = append(out, step)
		}
	}
	return out
}

// Defaults builds the initial Values for the schema.
func (s Schema) Defaults() Values {
	values := make(Values)
	for _, field := range s.Fields() {
		switch field.Kind {
		case FieldKindMulti:
			values[field.Name] = toStrings(field.Default)
		case FieldKindNumber:
			if n, ok := toNumber(field.Default); ok {
				values[field.Name] = n
			}
		default:
			if field.Default != nil {
				values[field.Name] = fmt.Sprint(field.Default)
			} else {
				values[field.Name] = ""
			}
		}
	}
	return values
}

var (
	// ErrSchemaID is returned when a schema has no identifier.
	ErrSchemaID = errors.New("model: schema id is required")
	// ErrNoSteps is returned when a schema declares no steps.
	ErrNoSteps = errors.New("model: schema declares no steps")
)

// Validate checks structural invariants: unique field names, known kinds,
// options on chip-lists, and conditions referencing earlier fields.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrSchemaID
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSteps, s.ID)
	}
	seen := make(map[string]struct{})
	for idx, step := range s.Steps {
		if step.When != nil {
			names, err := step.When.references()
			if err != nil {
				return fmt.Errorf("model: schema %s step %d condition: %w", s.ID, idx, err)
			}
			for _, name := range names {
				if _, ok := seen[name]; !ok {
					return fmt.Errorf("model: schema %s step %d condition references unknown or later field %q", s.ID, idx, name)
				}
			}
		}
		for _, field := range step.Fields {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				return fmt.Errorf("model: schema %s step %d has a field without name", s.ID, idx)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("model: schema %s defines duplicate field %q", s.ID, name)
			}
			if !field.Kind.Valid() {
				return fmt.Errorf("model: schema %s field %q has unknown kind %q", s.ID, name, field.Kind)
			}
			if field.Kind.Choice() && len(field.Options) == 0 {
				return fmt.Errorf("model: schema %s field %q needs options", s.ID, name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}
