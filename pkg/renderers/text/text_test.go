package text

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/render"
)

const challengeBlob = `### Objetivos
- Fuerza
- Resistencia
### Plan Semanal
1. Adaptación
2. Progresión
### Reglas
! Consulta a tu médico
Registra cada sesión.`

func renderLines(t *testing.T, doc document.Document, options render.Options) []string {
	t.Helper()
	r := New(WithOutput(&bytes.Buffer{}))
	out, err := r.Render(context.Background(), doc, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimRight(line, " "); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func TestRender_LayoutPerKind(t *testing.T) {
	doc := document.Parse(challengeBlob, document.DefaultMarker)
	lines := renderLines(t, doc, render.Options{Title: "Reto de 1 mes", Subtitle: "Crea retos"})

	want := []string{
		"Reto de 1 mes",
		"Crea retos",
		"Objetivos",
		"  • Fuerza",
		"  • Resistencia",
		"Plan Semanal",
		"  1. Adaptación",
		"  2. Progresión",
		"Reglas",
		"┃ ! Consulta a tu médico",
		"Registra cada sesión.",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), strings.Join(lines, "\n"))
	}
	for idx := range want {
		if lines[idx] != want[idx] {
			t.Fatalf("line %d: want %q, got %q", idx, want[idx], lines[idx])
		}
	}
}

func TestRender_WrapsAtWidth(t *testing.T) {
	doc := document.Document{Sections: []document.Section{{
		Body: []document.Line{{Kind: document.KindParagraph, Text: "uno dos tres cuatro cinco seis"}},
	}}}
	lines := renderLines(t, doc, render.Options{Width: 10})
	if len(lines) < 3 {
		t.Fatalf("expected wrapped output, got %q", lines)
	}
	for _, line := range lines {
		if len([]rune(line)) > 10 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
}

func TestRender_EmptyDocument(t *testing.T) {
	out, err := New(WithOutput(&bytes.Buffer{})).Render(context.Background(), document.Document{}, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestRender_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, document.Document{}, render.Options{}); err == nil {
		t.Fatalf("expected context error")
	}
}
