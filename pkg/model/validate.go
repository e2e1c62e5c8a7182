package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is returned when a field name is not part of the schema.
	ErrUnknownField = errors.New("model: unknown field")
	// ErrNotMulti is returned when toggling a field that is not a multi-select.
	ErrNotMulti = errors.New("model: field is not a multi-select")
	// ErrInvalidOption is returned when a choice value is not among the options.
	ErrInvalidOption = errors.New("model: value is not an option")
)

// ValidationError lists required fields left empty. Step is empty for
// single-step forms.
type ValidationError struct {
	Step   string
	Fields []string
}

func (e *ValidationError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("step %s missing required fields: %s", e.Step, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// MissingRequired returns a *ValidationError for the first step holding empty
// required fields, or nil.
func MissingRequired(steps []Step, values Values) error {
	for _, step := range steps {
		var fields []string
		for _, field := range step.Fields {
			if field.Required && !values.Present(field.Name) {
				fields = append(fields, field.Name)
			}
		}
		if len(fields) > 0 {
			return &ValidationError{Step: step.ID, Fields: fields}
		}
	}
	return nil
}

// Set validates value against the named field and stores it in values.
func (s Schema) Set(values Values, name string, value any) error {
	field, ok := s.Field(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	normalised, err := Normalise(field, value)
	if err != nil {
		return err
	}
	values.Set(name, normalised)
	return nil
}

// Toggle flips value in the named multi-select set. Values outside the
// options can only be removed.
func (s Schema) Toggle(values Values, name, value string) (bool, error) {
	field, ok := s.Field(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if field.Kind != FieldKindMulti {
		return false, fmt.Errorf("%w: %q", ErrNotMulti, name)
	}
	if !field.HasOption(value) && !contains(values.Strings(name), value) {
		return false, fmt.Errorf("%w: %q for %s", ErrInvalidOption, value, name)
	}
	return values.Toggle(name, value), nil
}

// Normalise converts raw input into the stored representation of field:
// deduplicated []string for multi, float64 (or nil when blank) for number,
// an option or "" for single, text otherwise.
func Normalise(field Field, value any) (any, error) {
	switch field.Kind {
	case FieldKindMulti:
		set, err := toSet(value)
		if err != nil {
			return nil, fmt.Errorf("model: field %s: %w", field.Name, err)
		}
		seen := make(map[string]struct{}, len(set))
		out := make([]string, 0, len(set))
		for _, item := range set {
			if !field.HasOption(item) {
				return nil, fmt.Errorf("%w: %q for %s", ErrInvalidOption, item, field.Name)
			}
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
		return out, nil
	case FieldKindNumber:
		switch typed := value.(type) {
		case nil:
			return nil, nil
		case string:
			if strings.TrimSpace(typed) == "" {
				return nil, nil
			}
			n, err := ParseNumber(typed)
			if err != nil {
				return nil, err
			}
			return n, nil
		default:
			n, ok := toNumber(value)
			if !ok {
				return nil, fmt.Errorf("model: field %s expects a number, got %T", field.Name, value)
			}
			return n, nil
		}
	case FieldKindSingle:
		if value == nil {
			return "", nil
		}
		text := fmt.Sprint(value)
		if text != "" && len(field.Options) > 0 && !field.HasOption(text) {
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidOption, text, field.Name)
		}
		return text, nil
	default:
		if value == nil {
			return "", nil
		}
		return fmt.Sprint(value), nil
	}
}

func toSet(value any) ([]string, error) {
	switch typed := value.(type) {
	case nil, []string, []any, string:
		return toStrings(typed), nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
