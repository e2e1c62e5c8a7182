package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-fitdesk/pkg/creators"
	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/model"
	"github.com/goliatone/go-fitdesk/pkg/render"
	"github.com/goliatone/go-fitdesk/pkg/wizard"
)

type wizardFlags struct {
	answers  string
	renderer string
	output   string
	theme    string
	variant  string
	width    int
}

func newWizardCmd(a *app) *cobra.Command {
	var f wizardFlags
	cmd := &cobra.Command{
		Use:   "wizard <creator>",
		Short: "Run a creator wizard and render the generated document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd, a, args[0], f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.answers, "answers", "", "YAML file with answers; skips the prompts")
	flags.StringVarP(&f.renderer, "renderer", "r", "", "output renderer (text, html, json, markdown, glamour)")
	flags.StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&f.theme, "theme", "", "theme name for the html renderer")
	flags.StringVar(&f.variant, "variant", "", "theme variant for the html renderer")
	flags.IntVar(&f.width, "width", 0, "wrap width for terminal renderers")
	return cmd
}

func runWizard(cmd *cobra.Command, a *app, id string, f wizardFlags) error {
	ctx := cmd.Context()
	catalog, err := creators.Default()
	if err != nil {
		return err
	}
	schema, ok := catalog.Get(id)
	if !ok {
		return fmt.Errorf("unknown creator %q", id)
	}
	gen, err := a.generators()
	if err != nil {
		return err
	}
	ctrl, err := wizard.New(schema, gen, wizard.WithLogger(a.logger.Named("wizard")))
	if err != nil {
		return err
	}

	var doc document.Document
	if f.answers != "" {
		doc, err = answerWizard(cmd, ctrl, f.answers)
	} else {
		doc, err = a.session.RunWizard(ctx, ctrl)
	}
	if err != nil {
		return err
	}

	out := a.out
	var file *os.File
	if f.output != "" {
		file, err = os.Create(f.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	registry, err := a.renderers(out)
	if err != nil {
		return err
	}
	name := f.renderer
	if name == "" {
		name = a.cfg.Render.Renderer
	}
	options := render.Options{
		Title:    schema.Title,
		Subtitle: schema.Description,
		Theme:    firstNonEmpty(f.theme, a.cfg.Render.Theme),
		Variant:  firstNonEmpty(f.variant, a.cfg.Render.Variant),
		Width:    f.width,
	}
	rendered, _, err := registry.Render(ctx, name, doc, options)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, bytes.NewReader(rendered)); err != nil {
		return err
	}
	if file != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Documento escrito en %s\n", f.output)
	}
	return nil
}

// answerWizard applies a YAML answers file and submits without prompting.
func answerWizard(cmd *cobra.Command, ctrl *wizard.Controller, path string) (document.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return document.Document{}, fmt.Errorf("read answers: %w", err)
	}
	answers := map[string]any{}
	if err := yaml.Unmarshal(raw, &answers); err != nil {
		return document.Document{}, fmt.Errorf("parse answers: %w", err)
	}

	names := make([]string, 0, len(answers))
	for name := range answers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := ctrl.SetField(name, answers[name]); err != nil {
			return document.Document{}, fmt.Errorf("answer %s: %w", name, err)
		}
	}

	if err := ctrl.Submit(cmd.Context()); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return document.Document{}, err
		}
		if msg := ctrl.Err(); msg != "" {
			return document.Document{}, errors.New(msg)
		}
		return document.Document{}, err
	}
	doc, _ := ctrl.Document()
	return doc, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
