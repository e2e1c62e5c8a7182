// Package html renders generated documents as a standalone HTML page. The
// document markdown goes through goldmark, the result is sanitised with the
// bluemonday UGC policy and placed in a pongo2 page whose CSS variables come
// from the selected go-theme manifest.
package html

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/render"
)

const Name = "html"

const pageTemplate = `<!DOCTYPE html>
<html lang="{{ lang }}">
<head>
<meta charset="utf-8">
<title>{{ title|default:"FitDesk" }}</title>
{% if stylesheet %}<link rel="stylesheet" href="{{ stylesheet }}">
{% endif %}{% if css_vars %}<style>
{{ css_vars|safe }}
</style>
{% endif %}</head>
<body>
<article class="fitdesk-document" data-theme="{{ theme }}"{% if variant %} data-variant="{{ variant }}"{% endif %}>
{% if title %}<h1>{{ title }}</h1>
{% endif %}{% if subtitle %}<p class="subtitle">{{ subtitle }}</p>
{% endif %}{{ body|safe }}</article>
</body>
</html>
`

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	pageOnce sync.Once
	page     *pongo2.Template
	pageErr  error
)

func ugcPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

func pageTpl() (*pongo2.Template, error) {
	pageOnce.Do(func() {
		page, pageErr = pongo2.FromString(pageTemplate)
	})
	return page, pageErr
}

// Renderer produces HTML pages.
type Renderer struct {
	markdown goldmark.Markdown
	selector theme.ThemeSelector
	lang     string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithThemeSelector resolves Options.Theme and Options.Variant through
// selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(r *Renderer) {
		if selector != nil {
			r.selector = selector
		}
	}
}

// WithLang sets the page language attribute.
func WithLang(lang string) Option {
	return func(r *Renderer) {
		if lang != "" {
			r.lang = lang
		}
	}
}

// New constructs the HTML renderer. Without a selector the DefaultManifest is
// used.
func New(options ...Option) *Renderer {
	r := &Renderer{
		markdown: goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps())),
		lang:     "es",
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.selector == nil {
		selector, _ := NewManifestSelector(DefaultManifest())
		r.selector = selector
	}
	return r
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render converts the document into a themed page.
func (r *Renderer) Render(ctx context.Context, doc document.Document, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := r.markdown.Convert([]byte(doc.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("html: convert markdown: %w", err)
	}
	safe := ugcPolicy().SanitizeBytes(body.Bytes())

	selection, err := r.selector.Select(options.Theme, options.Variant)
	if err != nil {
		return nil, fmt.Errorf("html: select theme: %w", err)
	}
	data := pongo2.Context{
		"lang":     r.lang,
		"title":    options.Title,
		"subtitle": options.Subtitle,
		"body":     string(safe),
	}
	if cfg := rendererConfig(selection); cfg != nil {
		data["theme"] = cfg.Theme
		data["variant"] = cfg.Variant
		data["css_vars"] = cssVarsBlock(cfg.CSSVars)
		data["stylesheet"] = cfg.AssetURL(stylesheetAsset)
	}

	tpl, err := pageTpl()
	if err != nil {
		return nil, fmt.Errorf("html: parse page template: %w", err)
	}
	var out bytes.Buffer
	if err := tpl.ExecuteWriter(data, &out); err != nil {
		return nil, fmt.Errorf("html: render page: %w", err)
	}
	return out.Bytes(), nil
}
