package html

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultThemeName    = "fitdesk"
	DefaultThemeVariant = "light"

	stylesheetAsset = "html.stylesheet"
)

// DefaultManifest is the stock go-theme manifest used when no selector is
// configured.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#0b7a5a",
			"surface":    "#ffffff",
			"text":       "#1f2933",
			"alert":      "#b06800",
			"font-body":  "system-ui, sans-serif",
			"max-width":  "48rem",
			"radius":     "0.5rem",
			"spacing-md": "1rem",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand":   "#3ddc97",
					"surface": "#111827",
					"text":    "#f3f4f6",
					"alert":   "#ffb86c",
				},
			},
		},
	}
}

// ManifestSelector resolves selections from an in-memory set of manifests.
type ManifestSelector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

// NewManifestSelector registers manifests; the first one becomes the default
// theme.
func NewManifestSelector(manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest keyed by its name.
func (s *ManifestSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("html: theme manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("html: theme %q already registered", manifest.Name)
	}
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// SetDefaults changes the theme and variant used for empty requests.
func (s *ManifestSelector) SetDefaults(name, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.defaultTheme = name
	}
	s.defaultVariant = variant
}

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("html: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			variant = ""
		}
	}
	return &theme.Selection{Theme: manifest.Name, Variant: variant, Manifest: manifest}, nil
}

// rendererConfig flattens a selection: variant tokens and assets override the
// base manifest and every token becomes a --name CSS variable.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := copyMap(manifest.Tokens)
	files := copyMap(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func cssVarsBlock(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(".fitdesk-document {\n")
	for _, key := range keys {
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
