package json

import (
	"context"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/render"
)

func TestRender_NodeTree(t *testing.T) {
	doc := document.Parse("### Plan\n1. Adaptación\n! Descanso", "")
	out, err := New("").Render(context.Background(), doc, render.Options{Title: "Reto"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `{"title":"Reto","sections":[{"title":"Plan","body":[{"kind":"ordered","text":"Adaptación","number":1},{"kind":"alert","text":"Descanso"}]}]}`
	if string(out) != want {
		t.Fatalf("unexpected json:\n%s", out)
	}
}

func TestRender_EmptyAndIndented(t *testing.T) {
	out, err := New("  ").Render(context.Background(), document.Document{}, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var got map[string]any
	if err := gojson.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"sections": []any{}}, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}
