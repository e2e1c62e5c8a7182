package html

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/render"
)

const blob = `### Objetivos
- Fuerza
### Plan Semanal
1. Adaptación
### Reglas
! Consulta a tu médico
<script>alert(1)</script>`

func TestRender_Page(t *testing.T) {
	doc := document.Parse(blob, document.DefaultMarker)
	out, err := New().Render(context.Background(), doc, render.Options{Title: "Reto <1 mes>", Subtitle: "Crea retos"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`<html lang="es">`,
		`<h1>Reto &lt;1 mes&gt;</h1>`,
		`<p class="subtitle">Crea retos</p>`,
		`<h2>Objetivos</h2>`,
		`<li>Fuerza</li>`,
		`<ol>`,
		`<li>Adaptación</li>`,
		`<blockquote>`,
		`Consulta a tu médico`,
		`data-theme="fitdesk"`,
		`--brand: #0b7a5a;`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("script tags must be stripped:\n%s", html)
	}
}

func TestRender_VariantTokens(t *testing.T) {
	out, err := New().Render(context.Background(), document.Parse("### A\nb", ""), render.Options{Variant: "dark"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `data-variant="dark"`) || !strings.Contains(html, "--brand: #3ddc97;") {
		t.Fatalf("expected dark variant tokens:\n%s", html)
	}
	if !strings.Contains(html, "--radius: 0.5rem;") {
		t.Fatalf("base tokens should remain when variant omits them:\n%s", html)
	}
}

func TestRender_Selector(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "gym",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
		Assets: theme.Assets{
			Prefix: "/assets/themes/gym",
			Files:  map[string]string{stylesheetAsset: "theme.css"},
		},
	}
	selector := &stubThemeSelector{selection: &theme.Selection{Theme: "gym", Manifest: manifest}}
	out, err := New(WithThemeSelector(selector), WithLang("en")).Render(context.Background(), document.Document{}, render.Options{Theme: "gym", Variant: "x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(selector.calls) != 1 || selector.calls[0] != [2]string{"gym", "x"} {
		t.Fatalf("unexpected selector calls: %+v", selector.calls)
	}
	html := string(out)
	for _, want := range []string{`<html lang="en">`, `href="/assets/themes/gym/theme.css"`, "--brand: #123456;", "<title>FitDesk</title>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
}

func TestManifestSelector(t *testing.T) {
	selector, err := NewManifestSelector(DefaultManifest())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if err := selector.Register(DefaultManifest()); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := selector.Select("missing", ""); err == nil {
		t.Fatalf("expected missing theme error")
	}
	selection, err := selector.Select("", "sepia")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != DefaultThemeName || selection.Variant != "" {
		t.Fatalf("unknown variant should fall back to base, got %+v", selection)
	}
	selector.SetDefaults("", "dark")
	selection, _ = selector.Select("", "")
	if selection.Variant != "dark" {
		t.Fatalf("expected default variant dark, got %q", selection.Variant)
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
	calls     [][2]string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, [2]string{name, variant})
	return s.selection, nil
}
