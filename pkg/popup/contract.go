package popup

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-fitdesk/pkg/model"
)

//go:embed contract/backend.yaml
var backendContract []byte

// orderExtension lists property names in display order.
const orderExtension = "x-fitdesk-order"

// Operation is one create call of the backend contract with the form schema
// derived from its request body.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	Schema  model.Schema

	integers map[string]bool
}

// Contract indexes create operations by operationId.
type Contract struct {
	operations map[string]Operation
}

// DefaultContract parses the bundled backend contract.
func DefaultContract(ctx context.Context) (*Contract, error) {
	return LoadContract(ctx, backendContract)
}

// LoadContract parses an OpenAPI 3 document and keeps every POST operation
// with a JSON object request body.
func LoadContract(ctx context.Context, raw []byte) (*Contract, error) {
	if len(raw) == 0 {
		return nil, errors.New("popup: contract is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("popup: load contract: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("popup: contract does not contain any paths")
	}

	contract := &Contract{operations: make(map[string]Operation)}
	for path, item := range doc.Paths.Map() {
		if item == nil || item.Post == nil {
			continue
		}
		op, err := convertOperation(http.MethodPost, path, item.Post)
		if err != nil {
			return nil, err
		}
		if _, exists := contract.operations[op.ID]; exists {
			return nil, fmt.Errorf("popup: duplicate operation %q", op.ID)
		}
		contract.operations[op.ID] = op
	}
	if len(contract.operations) == 0 {
		return nil, errors.New("popup: no create operations extracted")
	}
	return contract, nil
}

// Operation returns the operation registered under id.
func (c *Contract) Operation(id string) (Operation, bool) {
	if c == nil {
		return Operation{}, false
	}
	op, ok := c.operations[id]
	return op, ok
}

// Operations returns every operation sorted by id.
func (c *Contract) Operations() []Operation {
	if c == nil {
		return nil
	}
	out := make([]Operation, 0, len(c.operations))
	for _, op := range c.operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func convertOperation(method, path string, operation *openapi3.Operation) (Operation, error) {
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	schema := requestSchema(operation.RequestBody)
	if schema == nil || len(schema.Properties) == 0 {
		return Operation{}, fmt.Errorf("popup: operation %s has no JSON object request body", id)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	op := Operation{
		ID:       id,
		Method:   method,
		Path:     path,
		Summary:  operation.Summary,
		integers: map[string]bool{},
	}
	fields := make([]model.Field, 0, len(schema.Properties))
	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := convertProperty(name, ref.Value, required[name])
		if firstSchemaType(ref.Value.Type) == openapi3.TypeInteger {
			op.integers[name] = true
		}
		fields = append(fields, field)
	}

	title := operation.Summary
	if title == "" {
		title = id
	}
	op.Schema = model.Schema{
		ID:          id,
		Title:       title,
		Description: operation.Description,
		Steps:       []model.Step{{ID: id, Title: title, Fields: fields}},
	}
	if err := op.Schema.Validate(); err != nil {
		return Operation{}, fmt.Errorf("popup: operation %s: %w", id, err)
	}
	return op, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	mt, ok := body.Value.Content["application/json"]
	if !ok || mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

// propertyOrder honours the order extension, then appends the remaining
// properties alphabetically.
func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var out []string
	if raw, ok := schema.Extensions[orderExtension].([]any); ok {
		for _, entry := range raw {
			name, ok := entry.(string)
			if !ok || seen[name] {
				continue
			}
			if _, exists := schema.Properties[name]; exists {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func convertProperty(name string, src *openapi3.Schema, required bool) model.Field {
	field := model.Field{
		Name:     name,
		Label:    src.Title,
		Kind:     model.FieldKindText,
		Required: required,
		Help:     src.Description,
		Default:  src.Default,
	}
	switch {
	case len(src.Enum) > 0:
		field.Kind = model.FieldKindSingle
		field.Options = enumStrings(src.Enum)
	case firstSchemaType(src.Type) == openapi3.TypeArray && src.Items != nil && src.Items.Value != nil && len(src.Items.Value.Enum) > 0:
		field.Kind = model.FieldKindMulti
		field.Options = enumStrings(src.Items.Value.Enum)
	case firstSchemaType(src.Type) == openapi3.TypeNumber || firstSchemaType(src.Type) == openapi3.TypeInteger:
		field.Kind = model.FieldKindNumber
	case src.Format == "textarea":
		field.Kind = model.FieldKindTextArea
	}
	if src.Format != "" && field.Kind == model.FieldKindText {
		field.Placeholder = src.Format
	}
	return field
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
