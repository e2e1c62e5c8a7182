package document

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want Line
	}{
		{in: "- Sentadillas", want: Line{Kind: KindBullet, Text: "Sentadillas"}},
		{in: "  -Plancha", want: Line{Kind: KindBullet, Text: "Plancha"}},
		{in: "! Consulta a tu médico", want: Line{Kind: KindAlert, Text: "Consulta a tu médico"}},
		{in: "3. Estira", want: Line{Kind: KindOrdered, Number: 3, Text: "Estira"}},
		{in: "12.Hidratación", want: Line{Kind: KindOrdered, Number: 12, Text: "Hidratación"}},
		{in: "Texto libre", want: Line{Kind: KindParagraph, Text: "Texto libre"}},
		{in: "3 series", want: Line{Kind: KindParagraph, Text: "3 series"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, Classify(tc.in)); diff != "" {
			t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParse_TwoSections(t *testing.T) {
	blob := "### Detalles del Reto\nDuración: 1 mes\n- Fuerza\n\n###   Reglas  \n! Sin lesiones\n1. Registra tu progreso\n"

	doc := Parse(blob, "###")
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(doc.Sections), doc.Sections)
	}

	want := Document{Sections: []Section{
		{
			Title: "Detalles del Reto",
			Body: []Line{
				{Kind: KindParagraph, Text: "Duración: 1 mes"},
				{Kind: KindBullet, Text: "Fuerza"},
			},
		},
		{
			Title: "Reglas",
			Body: []Line{
				{Kind: KindAlert, Text: "Sin lesiones"},
				{Kind: KindOrdered, Number: 1, Text: "Registra tu progreso"},
			},
		},
	}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_TitleOnlySection(t *testing.T) {
	doc := Parse("### Solo título\n### Otro\ntexto", "")
	section, ok := doc.Section("Solo título")
	if !ok {
		t.Fatalf("expected title-only section, got %+v", doc.Sections)
	}
	if section.Body == nil || len(section.Body) != 0 {
		t.Fatalf("expected empty non-nil body, got %#v", section.Body)
	}
}

func TestParse_DropsEmptySectionsAndKeepsPreamble(t *testing.T) {
	doc := Parse("Plan semanal\nIntro\n###\n\n###\n### Cierre\n- fin", "###")

	var titles []string
	for _, s := range doc.Sections {
		titles = append(titles, s.Title)
	}
	if diff := cmp.Diff([]string{"Plan semanal", "Cierre"}, titles); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}
	if got := doc.Sections[0].Body[0]; got.Kind != KindParagraph || got.Text != "Intro" {
		t.Fatalf("unexpected preamble body: %+v", got)
	}
}

func TestParse_CustomMarker(t *testing.T) {
	doc := Parse("== Uno\n- a\n== Dos", "==")
	if len(doc.Sections) != 2 || doc.Sections[1].Title != "Dos" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}
}

func TestParse_Idempotent(t *testing.T) {
	line := rapid.OneOf(
		rapid.StringMatching(`### [A-Za-z ]{0,12}`),
		rapid.StringMatching(`- [a-z]{0,8}`),
		rapid.StringMatching(`! [a-z]{0,8}`),
		rapid.StringMatching(`[0-9]{1,2}\. [a-z]{0,8}`),
		rapid.StringMatching(`[a-z ]{0,10}`),
	)
	rapid.Check(t, func(t *rapid.T) {
		blob := strings.Join(rapid.SliceOf(line).Draw(t, "lines"), "\n")
		first := Parse(blob, "###")
		second := Parse(blob, "###")
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("parse not deterministic (-first +second):\n%s", diff)
		}
		for _, section := range first.Sections {
			if section.Title == "" && len(section.Body) == 0 {
				t.Fatalf("empty section kept: %+v", first.Sections)
			}
		}
	})
}

func TestMarkdown(t *testing.T) {
	doc := Parse("### Plan\nIntro\n- uno\n- dos\n! cuidado\n1. paso", "###")
	got := doc.Markdown()
	for _, want := range []string{"## Plan\n\n", "Intro\n", "- uno\n- dos\n", "> **!** cuidado", "1. paso\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("markdown missing %q:\n%s", want, got)
		}
	}
}
