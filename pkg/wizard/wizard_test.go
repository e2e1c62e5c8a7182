package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"

	"github.com/goliatone/go-fitdesk/pkg/creators"
	"github.com/goliatone/go-fitdesk/pkg/generator"
	"github.com/goliatone/go-fitdesk/pkg/model"
)

func plateauSchema() model.Schema {
	return model.Schema{
		ID:    "plateau",
		Title: "Plateau",
		Steps: []model.Step{
			{ID: "kind", Fields: []model.Field{
				{Name: "kind", Kind: model.FieldKindSingle, Required: true, Options: []string{"weight", "strength"}},
				{Name: "tags", Kind: model.FieldKindMulti, Options: []string{"a", "b", "c"}},
			}},
			{ID: "weight", When: &model.Condition{Field: "kind", In: []string{"weight"}}, Fields: []model.Field{
				{Name: "kg", Kind: model.FieldKindNumber, Required: true},
			}},
			{ID: "notes", Fields: []model.Field{
				{Name: "notes", Kind: model.FieldKindTextArea},
			}},
		},
	}
}

func echo(blob string) generator.Generator {
	return generator.Func(func(context.Context, generator.Request) (string, error) {
		return blob, nil
	})
}

func TestController_ChallengeScenario(t *testing.T) {
	catalog, err := creators.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	schema, _ := catalog.Get("challenges")
	local, err := generator.NewLocal(creators.Templates())
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	ctrl, err := New(schema, local)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	mustSet(t, ctrl, "duration", "1 mes")
	mustSet(t, ctrl, "difficulty", "Intermedio")
	if _, err := ctrl.ToggleArrayField("objectives", "Fuerza"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if ctrl.Phase() != PhaseResult {
		t.Fatalf("expected result phase, got %s", ctrl.Phase())
	}
	doc, ok := ctrl.Document()
	if !ok {
		t.Fatalf("expected document")
	}
	section, ok := doc.Section("Detalles del Reto")
	if !ok {
		t.Fatalf("missing Detalles del Reto in %+v", doc.Sections)
	}
	var texts []string
	for _, line := range section.Body {
		texts = append(texts, line.Text)
	}
	if !contains(texts, "Dificultad: Intermedio") {
		t.Fatalf("expected Dificultad line, got %v", texts)
	}
}

func TestController_SetFieldRules(t *testing.T) {
	ctrl, err := New(plateauSchema(), echo("### x"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := ctrl.SetField("missing", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := ctrl.SetField("kind", "other"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, err := ctrl.ToggleArrayField("kind", "weight"); !errors.Is(err, ErrNotMulti) {
		t.Fatalf("expected ErrNotMulti, got %v", err)
	}
	if err := ctrl.SetField("kg", "72,5"); err != nil {
		t.Fatalf("set number: %v", err)
	}
	if n, _ := ctrl.Values().Number("kg"); n != 72.5 {
		t.Fatalf("expected 72.5, got %v", n)
	}
	if err := ctrl.SetField("kg", "heavy"); err == nil {
		t.Fatalf("expected number parse error")
	}
	if err := ctrl.SetField("tags", []string{"b", "a", "b"}); err != nil {
		t.Fatalf("set multi: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, ctrl.Values().Strings("tags")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestController_ToggleTwiceRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctrl, err := New(plateauSchema(), echo("### x"))
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		for _, v := range rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 0, 6).Draw(t, "seed") {
			if _, err := ctrl.ToggleArrayField("tags", v); err != nil {
				t.Fatalf("toggle: %v", err)
			}
		}
		before := ctrl.Values().Strings("tags")
		value := rapid.SampledFrom([]string{"a", "b", "c"}).Draw(t, "value")

		first, _ := ctrl.ToggleArrayField("tags", value)
		second, _ := ctrl.ToggleArrayField("tags", value)
		if first == second {
			t.Fatalf("toggle should flip membership")
		}
		after := ctrl.Values().Strings("tags")
		if len(before) != len(after) {
			t.Fatalf("set size changed: %v -> %v", before, after)
		}
		for _, v := range before {
			if !contains(after, v) {
				t.Fatalf("lost %q: %v -> %v", v, before, after)
			}
		}
	})
}

func TestController_NavigationAndBranching(t *testing.T) {
	ctrl, _ := New(plateauSchema(), echo("### x"))

	if err := ctrl.Back(); !errors.Is(err, ErrFirstStep) {
		t.Fatalf("expected ErrFirstStep, got %v", err)
	}
	var verr *ValidationError
	if err := ctrl.Next(); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff(&ValidationError{Step: "kind", Fields: []string{"kind"}}, verr); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}

	mustSet(t, ctrl, "kind", "strength")
	if len(ctrl.Steps()) != 2 {
		t.Fatalf("weight step should be hidden, got %+v", ctrl.Steps())
	}
	if err := ctrl.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if step, idx := ctrl.Step(); step.ID != "notes" || idx != 1 {
		t.Fatalf("expected notes step, got %s/%d", step.ID, idx)
	}
	if err := ctrl.Next(); !errors.Is(err, ErrLastStep) {
		t.Fatalf("expected ErrLastStep, got %v", err)
	}

	if err := ctrl.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	mustSet(t, ctrl, "kind", "weight")
	if err := ctrl.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if step, _ := ctrl.Step(); step.ID != "weight" {
		t.Fatalf("expected weight step, got %s", step.ID)
	}
	if err := ctrl.Submit(context.Background()); !errors.As(err, &verr) || verr.Step != "weight" {
		t.Fatalf("expected weight validation error, got %v", err)
	}
}

func TestController_SubmitSendsVisibleValuesOnly(t *testing.T) {
	var got model.Values
	gen := generator.Func(func(_ context.Context, req generator.Request) (string, error) {
		got = req.Values
		return "### Done\n- ok", nil
	})
	ctrl, _ := New(plateauSchema(), gen)
	mustSet(t, ctrl, "kind", "weight")
	mustSet(t, ctrl, "kg", 80)
	mustSet(t, ctrl, "kind", "strength")

	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, ok := got["kg"]; ok {
		t.Fatalf("hidden branch value leaked: %v", got)
	}
	if got.String("kind") != "strength" {
		t.Fatalf("unexpected values %v", got)
	}
	if ctrl.Raw() != "### Done\n- ok" {
		t.Fatalf("unexpected raw %q", ctrl.Raw())
	}
	if err := ctrl.SetField("notes", "x"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing in result phase, got %v", err)
	}
}

func TestController_BusyWhileLoading(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gen := generator.Func(func(ctx context.Context, _ generator.Request) (string, error) {
		close(started)
		<-release
		return "### Listo", nil
	})
	ctrl, _ := New(plateauSchema(), gen)
	mustSet(t, ctrl, "kind", "strength")

	done := make(chan error, 1)
	go func() { done <- ctrl.Submit(context.Background()) }()
	<-started

	if ctrl.Phase() != PhaseLoading {
		t.Fatalf("expected loading phase, got %s", ctrl.Phase())
	}
	if err := ctrl.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := ctrl.SetField("notes", "x"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy on edit, got %v", err)
	}
	if err := ctrl.StartOver(); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy on start over, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ctrl.Phase() != PhaseResult {
		t.Fatalf("expected result phase, got %s", ctrl.Phase())
	}
}

func TestController_GenerationFailureReturnsToForm(t *testing.T) {
	boom := errors.New("servidor no disponible")
	gen := generator.Func(func(context.Context, generator.Request) (string, error) {
		return "", boom
	})
	ctrl, _ := New(plateauSchema(), gen)
	mustSet(t, ctrl, "kind", "strength")

	if err := ctrl.Submit(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected generator error, got %v", err)
	}
	if ctrl.Phase() != PhaseEditing {
		t.Fatalf("expected editing phase, got %s", ctrl.Phase())
	}
	if ctrl.Err() != boom.Error() {
		t.Fatalf("unexpected error message %q", ctrl.Err())
	}
	if _, ok := ctrl.Document(); ok {
		t.Fatalf("document should not be available")
	}
	if ctrl.Values().String("kind") != "strength" {
		t.Fatalf("values should survive a failed submit")
	}
}

func TestController_StartOverAndClose(t *testing.T) {
	ctrl, _ := New(plateauSchema(), echo("### A\n- b"))
	mustSet(t, ctrl, "kind", "strength")
	if _, err := ctrl.ToggleArrayField("tags", "a"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := ctrl.StartOver(); err != nil {
		t.Fatalf("start over: %v", err)
	}
	if ctrl.Phase() != PhaseEditing {
		t.Fatalf("expected editing phase, got %s", ctrl.Phase())
	}
	if diff := cmp.Diff(plateauSchema().Defaults(), ctrl.Values(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("defaults not restored (-want +got):\n%s", diff)
	}
	if _, idx := ctrl.Step(); idx != 0 {
		t.Fatalf("expected first step, got %d", idx)
	}

	ctrl.Close()
	if ctrl.Phase() != PhaseClosed {
		t.Fatalf("expected closed phase")
	}
	if err := ctrl.SetField("kind", "weight"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := ctrl.Submit(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on submit, got %v", err)
	}
}

func TestController_AnsweredSubmissionsShowResult(t *testing.T) {
	catalog, err := creators.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	local, err := generator.NewLocal(creators.Templates())
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	schema, _ := catalog.Get("challenges")

	rapid.Check(t, func(t *rapid.T) {
		ctrl, err := New(schema, local)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		for _, field := range schema.Fields() {
			switch field.Kind {
			case model.FieldKindSingle:
				value := rapid.SampledFrom(field.Options).Draw(t, field.Name)
				if err := ctrl.SetField(field.Name, value); err != nil {
					t.Fatalf("set %s: %v", field.Name, err)
				}
			case model.FieldKindMulti:
				value := rapid.SampledFrom(field.Options).Draw(t, field.Name)
				if _, err := ctrl.ToggleArrayField(field.Name, value); err != nil {
					t.Fatalf("toggle %s: %v", field.Name, err)
				}
			}
		}
		if err := ctrl.Submit(context.Background()); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if ctrl.Phase() != PhaseResult {
			t.Fatalf("expected result phase, got %s", ctrl.Phase())
		}
		if doc, ok := ctrl.Document(); !ok || doc.Empty() {
			t.Fatalf("expected a non-empty document")
		}
	})
}

func TestNew_Rejects(t *testing.T) {
	if _, err := New(model.Schema{}, echo("")); !errors.Is(err, model.ErrSchemaID) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
	if _, err := New(plateauSchema(), nil); err == nil {
		t.Fatalf("expected missing generator error")
	}
}

func mustSet(t *testing.T, ctrl *Controller, name string, value any) {
	t.Helper()
	if err := ctrl.SetField(name, value); err != nil {
		t.Fatalf("set %s: %v", name, err)
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
