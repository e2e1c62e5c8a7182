// Package tui drives the wizard, association and create popup controllers
// from the terminal. Every prompt goes through a PromptDriver; the default
// driver uses survey.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-fitdesk/pkg/api"
	"github.com/goliatone/go-fitdesk/pkg/association"
	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/model"
	"github.com/goliatone/go-fitdesk/pkg/popup"
	"github.com/goliatone/go-fitdesk/pkg/wizard"
)

const (
	actionContinue = "Continuar"
	actionGenerate = "Generar documento"
	actionBack     = "Volver"
	actionCancel   = "Cancelar"

	skipOption = "(sin respuesta)"
	noneOption = "(ninguno)"
)

// Theme holds message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Session runs controllers against a prompt driver.
type Session struct {
	driver PromptDriver
	theme  Theme
	logger *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a session.
func New(options ...Option) *Session {
	s := &Session{
		driver: NewSurveyDriver(nil),
		theme:  Theme{InfoPrefix: "", ErrorPrefix: "✗ "},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// fieldSetter is satisfied by the wizard controller and the create form.
type fieldSetter interface {
	SetField(name string, value any) error
	ToggleArrayField(name, value string) (bool, error)
}

// RunWizard walks the visible steps, then submits and returns the parsed
// document. A failed generation shows the error and returns to the form with
// the answers kept.
func (s *Session) RunWizard(ctx context.Context, ctrl *wizard.Controller) (document.Document, error) {
	if title := ctrl.Schema().Title; title != "" {
		s.info(ctx, title)
	}
	for {
		switch ctrl.Phase() {
		case wizard.PhaseResult:
			doc, _ := ctrl.Document()
			return doc, nil
		case wizard.PhaseClosed:
			return document.Document{}, wizard.ErrClosed
		}

		step, idx := ctrl.Step()
		s.info(ctx, fmt.Sprintf("Paso %d de %d · %s", idx+1, len(ctrl.Steps()), step.Title))
		if err := s.promptFields(ctx, step.Fields, ctrl.Values(), ctrl); err != nil {
			return document.Document{}, s.abort(err, ctrl.Close)
		}

		// answers may have hidden or revealed later steps
		_, idx = ctrl.Step()
		last := idx == len(ctrl.Steps())-1
		actions := []string{actionContinue}
		if last {
			actions[0] = actionGenerate
		}
		if idx > 0 {
			actions = append(actions, actionBack)
		}
		actions = append(actions, actionCancel)

		action, err := s.choose(ctx, "¿Qué quieres hacer?", actions)
		if err != nil {
			return document.Document{}, s.abort(err, ctrl.Close)
		}
		switch action {
		case actionContinue:
			if err := ctrl.Next(); err != nil {
				s.fail(ctx, describe(err))
			}
		case actionBack:
			_ = ctrl.Back()
		case actionGenerate:
			s.info(ctx, "Generando…")
			if err := ctrl.Submit(ctx); err != nil {
				s.logger.Debug("wizard submit failed", zap.Error(err))
				if msg := ctrl.Err(); msg != "" {
					s.fail(ctx, msg)
				} else {
					s.fail(ctx, describe(err))
				}
			}
		default:
			ctrl.Close()
			return document.Document{}, ErrAborted
		}
	}
}

// RunForm prompts every field of a create popup and posts it. Declining the
// confirmation closes the form.
func (s *Session) RunForm(ctx context.Context, form *popup.Form) (any, error) {
	if title := form.Schema().Title; title != "" {
		s.info(ctx, title)
	}
	for {
		if err := s.promptFields(ctx, form.Schema().Fields(), form.Values(), form); err != nil {
			return nil, s.abort(err, form.Close)
		}
		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "¿Crear registro?", Default: true})
		if err != nil {
			return nil, s.abort(err, form.Close)
		}
		if !ok {
			form.Close()
			return nil, ErrAborted
		}
		result, err := form.Submit(ctx)
		if err == nil {
			s.info(ctx, "Registro creado")
			return result, nil
		}
		if msg := form.Err(); msg != "" {
			s.fail(ctx, msg)
		} else {
			s.fail(ctx, describe(err))
		}
	}
}

// RunAssociation opens the popup, asks for one option per key and submits.
// On failure the error is shown and the user may re-open the popup.
func (s *Session) RunAssociation(ctx context.Context, p *association.Popup) (any, error) {
	for {
		if err := p.Open(ctx); err != nil {
			s.fail(ctx, p.Err())
			if retry, _ := s.retry(ctx); !retry {
				p.Close()
				return nil, err
			}
			continue
		}
		for _, notice := range p.Notices() {
			s.fail(ctx, notice)
		}

		if err := s.selectKeys(ctx, p); err != nil {
			p.Close()
			return nil, err
		}
		if !p.CanSubmit() {
			s.fail(ctx, "Selecciona una opción para continuar")
			continue
		}

		ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "¿Guardar asociación?", Default: true})
		if err != nil {
			return nil, s.abort(err, p.Close)
		}
		if !ok {
			p.Close()
			return nil, ErrAborted
		}
		result, err := p.Submit(ctx)
		if err == nil {
			s.info(ctx, "Asociación guardada")
			return result, nil
		}
		s.fail(ctx, p.Err())
		if retry, _ := s.retry(ctx); !retry {
			p.Close()
			return nil, err
		}
	}
}

// Login asks for an access token.
func (s *Session) Login(ctx context.Context) (string, error) {
	token, err := s.driver.Password(ctx, InputConfig{
		Message: "Token de acceso",
		Validator: func(value string) error {
			if strings.TrimSpace(value) == "" {
				return errors.New("el token no puede estar vacío")
			}
			return nil
		},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Session) selectKeys(ctx context.Context, p *association.Popup) error {
	total := 0
	for _, key := range p.Keys() {
		total += len(p.Options(key.Name))
	}
	if total == 0 {
		s.fail(ctx, "No hay opciones disponibles")
		return ErrNoOptions
	}

	for _, key := range p.Keys() {
		options := p.Options(key.Name)
		label := key.Label
		if label == "" {
			label = key.Name
		}
		if len(options) == 0 {
			if key.Optional {
				continue
			}
			s.fail(ctx, fmt.Sprintf("No hay opciones para %s", label))
			return ErrNoOptions
		}
		labels := make([]string, 0, len(options)+1)
		for _, option := range options {
			labels = append(labels, option.Label)
		}
		if key.Optional {
			labels = append(labels, noneOption)
		}
		idx, err := s.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: -1})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = p.Clear(key.Name)
			continue
		}
		if err := p.Select(key.Name, options[idx].Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptFields(ctx context.Context, fields []model.Field, current model.Values, target fieldSetter) error {
	for _, field := range fields {
		for {
			value, err := s.promptField(ctx, field, current)
			if err != nil {
				return err
			}
			if err := s.apply(target, field, current, value); err != nil {
				s.fail(ctx, fmt.Sprintf("%s: %s", field.DisplayLabel(), describe(err)))
				continue
			}
			break
		}
	}
	return nil
}

// apply stores one answer. Multi-select answers are replayed as toggles
// against the current set: deselected entries first, then new ones in the
// order they were picked.
func (s *Session) apply(target fieldSetter, field model.Field, current model.Values, value any) error {
	chosen, ok := value.([]string)
	if field.Kind != model.FieldKindMulti || !ok {
		return target.SetField(field.Name, value)
	}
	existing := current.Strings(field.Name)
	for _, item := range existing {
		if indexOf(chosen, item) < 0 {
			if _, err := target.ToggleArrayField(field.Name, item); err != nil {
				return err
			}
		}
	}
	for _, item := range chosen {
		if indexOf(existing, item) < 0 {
			if _, err := target.ToggleArrayField(field.Name, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field model.Field, current model.Values) (any, error) {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}
	switch field.Kind {
	case model.FieldKindTextArea:
		return s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current.String(field.Name), Help: field.Help})
	case model.FieldKindNumber:
		def := ""
		if n, ok := current.Number(field.Name); ok {
			def = strconv.FormatFloat(n, 'f', -1, 64)
		}
		return s.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: field.Help, Placeholder: field.Placeholder})
	case model.FieldKindSingle:
		options := append([]string{}, field.Options...)
		if !field.Required {
			options = append(options, skipOption)
		}
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: indexOf(options, current.String(field.Name)),
			Help:         field.Help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx], nil
	case model.FieldKindMulti:
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  field.Options,
			Defaults: indicesOf(field.Options, current.Strings(field.Name)),
			Help:     field.Help,
		})
		if err != nil {
			return nil, err
		}
		return defaultsFromIndices(field.Options, indices), nil
	default:
		return s.driver.Input(ctx, InputConfig{Message: label, Default: current.String(field.Name), Help: field.Help, Placeholder: field.Placeholder})
	}
}

func (s *Session) choose(ctx context.Context, message string, options []string) (string, error) {
	idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return actionCancel, nil
	}
	return options[idx], nil
}

func (s *Session) retry(ctx context.Context) (bool, error) {
	return s.driver.Confirm(ctx, ConfirmConfig{Message: "¿Reintentar?", Default: true})
}

func (s *Session) abort(err error, closeFn func()) error {
	if errors.Is(err, ErrAborted) {
		closeFn()
	}
	return err
}

func (s *Session) info(ctx context.Context, msg string) {
	_ = s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}

func (s *Session) fail(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	_ = s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
}

// describe turns controller errors into user-facing Spanish text.
func describe(err error) string {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Faltan campos obligatorios: " + strings.Join(verr.Fields, ", ")
	case errors.Is(err, model.ErrInvalidOption):
		return "opción no válida"
	case errors.Is(err, model.ErrUnknownField):
		return "campo desconocido"
	default:
		return api.Message(err)
	}
}
