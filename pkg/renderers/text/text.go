// Package text renders generated documents for the terminal using lipgloss.
// Colours follow the renderer's detected profile, so output written to a
// file or pipe degrades to plain text.
package text

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-fitdesk/pkg/document"
	"github.com/goliatone/go-fitdesk/pkg/render"
)

const (
	Name         = "text"
	DefaultWidth = 80
)

// Theme holds the styles applied per line kind.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Section   lipgloss.Style
	Bullet    lipgloss.Style
	Alert     lipgloss.Style
	Ordered   lipgloss.Style
	Paragraph lipgloss.Style
}

// DefaultTheme builds the stock palette on r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	primary := lipgloss.AdaptiveColor{Light: "#0B7A5A", Dark: "#3DDC97"}
	muted := lipgloss.AdaptiveColor{Light: "#555555", Dark: "#9A9A9A"}
	warn := lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}

	return Theme{
		Title:     r.NewStyle().Bold(true).Foreground(primary),
		Subtitle:  r.NewStyle().Italic(true).Foreground(muted),
		Section:   r.NewStyle().Bold(true).Foreground(primary).MarginTop(1),
		Bullet:    r.NewStyle().PaddingLeft(2),
		Alert:     r.NewStyle().Foreground(warn).Bold(true).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(warn).PaddingLeft(1),
		Ordered:   r.NewStyle().PaddingLeft(2),
		Paragraph: r.NewStyle(),
	}
}

// Renderer writes lipgloss-styled text.
type Renderer struct {
	theme Theme
	width int
}

// Option configures the renderer.
type Option func(*Renderer)

// WithOutput detects the colour profile from w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.theme = DefaultTheme(lipgloss.NewRenderer(w))
	}
}

// WithTheme replaces the styles.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithWidth sets the default wrap width.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// New constructs the text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		theme: DefaultTheme(lipgloss.NewRenderer(os.Stdout)),
		width: DefaultWidth,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render lays out the heading followed by each section.
func (r *Renderer) Render(ctx context.Context, doc document.Document, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width := r.width
	if options.Width > 0 {
		width = options.Width
	}

	var blocks []string
	if options.Title != "" {
		blocks = append(blocks, r.theme.Title.Width(width).Render(options.Title))
	}
	if options.Subtitle != "" {
		blocks = append(blocks, r.theme.Subtitle.Width(width).Render(options.Subtitle))
	}
	for _, section := range doc.Sections {
		if section.Title != "" {
			blocks = append(blocks, r.theme.Section.Width(width).Render(section.Title))
		}
		for _, line := range section.Body {
			blocks = append(blocks, r.line(line, width))
		}
	}
	if len(blocks) == 0 {
		return []byte{}, nil
	}
	return []byte(lipgloss.JoinVertical(lipgloss.Left, blocks...) + "\n"), nil
}

func (r *Renderer) line(line document.Line, width int) string {
	switch line.Kind {
	case document.KindBullet:
		return r.theme.Bullet.Width(width).Render("• " + line.Text)
	case document.KindAlert:
		return r.theme.Alert.Width(width).Render("! " + line.Text)
	case document.KindOrdered:
		return r.theme.Ordered.Width(width).Render(strconv.Itoa(line.Number) + ". " + line.Text)
	default:
		return r.theme.Paragraph.Width(width).Render(strings.TrimSpace(line.Text))
	}
}
