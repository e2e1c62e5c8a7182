package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

// Engine renders pongo2 templates loaded from an fs.FS. Parsed templates are
// cached by path.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

// NewEngine constructs an Engine reading templates from files. ext is appended
// to names that lack it (".tpl" when empty).
func NewEngine(files fs.FS, ext string) (*Engine, error) {
	if files == nil {
		return nil, errors.New("generator: template fs is required")
	}
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = ".tpl"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	registerFilters()
	return &Engine{
		set:       pongo2.NewSet("fitdesk", pongo2.NewFSLoader(files)),
		templates: make(map[string]*pongo2.Template),
		ext:       ext,
	}, nil
}

// RenderTemplate executes the named template with data.
func (e *Engine) RenderTemplate(name string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("generator: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data, path)
}

func execute(tmpl *pongo2.Template, data map[string]any, label string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("generator: execute template %q: %w", label, err)
	}
	return buf.String(), nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("generator: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

var filtersOnce sync.Once

func registerFilters() {
	filtersOnce.Do(func() {
		register := func(name string, fn pongo2.FilterFunction) {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}
		register("trim", filterTrim)
		register("lowerfirst", filterLowerFirst)
		register("bullets", filterBullets)
		register("numbered", filterNumbered)
		register("number", filterNumber)
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	t := in.String()
	if t == "" {
		return pongo2.AsValue(""), nil
	}
	r, size := utf8.DecodeRuneInString(t)
	return pongo2.AsValue(strings.ToLower(string(r)) + t[size:]), nil
}

// filterBullets renders a list as "- item" lines.
func filterBullets(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	items := listItems(in)
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return pongo2.AsValue(strings.Join(lines, "\n")), nil
}

// filterNumbered renders a list as "1. item" lines.
func filterNumbered(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	items := listItems(in)
	lines := make([]string, 0, len(items))
	for idx, item := range items {
		lines = append(lines, strconv.Itoa(idx+1)+". "+item)
	}
	return pongo2.AsValue(strings.Join(lines, "\n")), nil
}

// filterNumber prints numbers without trailing zeros; empty input stays empty.
func filterNumber(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch {
	case in.IsNil():
		return pongo2.AsValue(""), nil
	case in.IsInteger():
		return pongo2.AsValue(strconv.Itoa(in.Integer())), nil
	case in.IsFloat():
		return pongo2.AsValue(strconv.FormatFloat(in.Float(), 'f', -1, 64)), nil
	default:
		return pongo2.AsValue(strings.TrimSpace(in.String())), nil
	}
}

func listItems(in *pongo2.Value) []string {
	switch typed := in.Interface().(type) {
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return typed
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil
		}
		return []string{strings.TrimSpace(typed)}
	default:
		return nil
	}
}
