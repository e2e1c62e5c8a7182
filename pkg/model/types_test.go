package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleSchema() Schema {
	return Schema{
		ID:    "plateau",
		Title: "Plateau",
		Steps: []Step{
			{
				ID: "kind",
				Fields: []Field{
					{Name: "kind", Kind: FieldKindSingle, Options: []string{"Peso", "Fuerza"}, Required: true},
				},
			},
			{
				ID:   "weight",
				When: &Condition{Field: "kind", In: []string{"Peso"}},
				Fields: []Field{
					{Name: "weeks", Kind: FieldKindNumber, Default: 4},
				},
			},
			{
				ID: "notes",
				Fields: []Field{
					{Name: "tags", Kind: FieldKindMulti, Options: []string{"a", "b"}, Default: []any{"a"}},
					{Name: "notes", Kind: FieldKindTextArea},
				},
			},
		},
	}
}

func TestSchema_Validate(t *testing.T) {
	if err := sampleSchema().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	missingID := sampleSchema()
	missingID.ID = ""
	if err := missingID.Validate(); !errors.Is(err, ErrSchemaID) {
		t.Fatalf("expected ErrSchemaID, got %v", err)
	}

	dup := sampleSchema()
	dup.Steps[2].Fields = append(dup.Steps[2].Fields, Field{Name: "kind", Kind: FieldKindText})
	if err := dup.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	forward := sampleSchema()
	forward.Steps[0].When = &Condition{Field: "notes", In: []string{"x"}}
	if err := forward.Validate(); err == nil {
		t.Fatalf("expected forward condition reference to fail")
	}

	badExpr := sampleSchema()
	badExpr.Steps[1].When = &Condition{Expr: `weeks >`}
	if err := badExpr.Validate(); err == nil || !strings.Contains(err.Error(), "condition") {
		t.Fatalf("expected expression compile error, got %v", err)
	}

	laterExpr := sampleSchema()
	laterExpr.Steps[1].When = &Condition{Expr: `notes != ""`}
	if err := laterExpr.Validate(); err == nil || !strings.Contains(err.Error(), "notes") {
		t.Fatalf("expected later field reference to fail, got %v", err)
	}

	noOptions := sampleSchema()
	noOptions.Steps[0].Fields[0].Options = nil
	if err := noOptions.Validate(); err == nil {
		t.Fatalf("expected missing options to fail")
	}
}

func TestSchema_Defaults(t *testing.T) {
	got := sampleSchema().Defaults()
	want := Values{
		"kind":  "",
		"weeks": 4.0,
		"tags":  []string{"a"},
		"notes": "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_VisibleStepsBranches(t *testing.T) {
	schema := sampleSchema()

	steps := schema.VisibleSteps(Values{"kind": "Fuerza"})
	if len(steps) != 2 {
		t.Fatalf("expected conditional step hidden, got %d steps", len(steps))
	}

	steps = schema.VisibleSteps(Values{"kind": "Peso"})
	if len(steps) != 3 || steps[1].ID != "weight" {
		t.Fatalf("expected conditional step visible, got %+v", steps)
	}
}

func TestCondition_Expr(t *testing.T) {
	cases := []struct {
		name   string
		cond   *Condition
		values Values
		want   bool
	}{
		{"nil", nil, Values{}, true},
		{"expr only", &Condition{Expr: `weeks >= 8`}, Values{"weeks": 9.0}, true},
		{"expr fails", &Condition{Expr: `weeks >= 8`}, Values{"weeks": 4.0}, false},
		{"both hold", &Condition{Field: "kind", In: []string{"Peso"}, Expr: `weeks > 2`}, Values{"kind": "Peso", "weeks": 3.0}, true},
		{"in fails", &Condition{Field: "kind", In: []string{"Peso"}, Expr: `weeks > 2`}, Values{"kind": "Fuerza", "weeks": 3.0}, false},
		{"multi membership", &Condition{Expr: `tags == "b"`}, Values{"tags": []string{"a", "b"}}, true},
		{"broken rule", &Condition{Expr: `weeks >`}, Values{"weeks": 9.0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.Matches(tc.values); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}
