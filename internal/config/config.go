// Package config loads fitdesk settings from fitdesk.yaml, FITDESK_*
// environment variables and built-in defaults, in increasing precedence of
// defaults, file, env.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	FileName  = "fitdesk"
	EnvPrefix = "FITDESK"
)

// Config is the resolved configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Store     StoreConfig     `mapstructure:"store"`
	Render    RenderConfig    `mapstructure:"render"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Popup     PopupConfig     `mapstructure:"popup"`
	Log       LogConfig       `mapstructure:"log"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig locates the session file holding the token.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RenderConfig picks the default document renderer and theme.
type RenderConfig struct {
	Renderer string `mapstructure:"renderer"`
	Theme    string `mapstructure:"theme"`
	Variant  string `mapstructure:"variant"`
	Width    int    `mapstructure:"width"`
}

// GeneratorConfig tunes the local template generator.
type GeneratorConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// PopupConfig points at the OpenAPI contract describing create popups. An
// empty contract uses the bundled one.
type PopupConfig struct {
	Contract string `mapstructure:"contract"`
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		API:       APIConfig{BaseURL: "http://localhost:3000", Timeout: 30 * time.Second},
		Store:     StoreConfig{Path: defaultStorePath()},
		Render:    RenderConfig{Renderer: "text", Variant: "light", Width: 80},
		Generator: GeneratorConfig{Delay: 1500 * time.Millisecond},
		Log:       LogConfig{Level: "warn", Format: "console"},
	}
}

// Load resolves the configuration. An explicit file must exist; otherwise
// fitdesk.yaml is looked up in the working directory and the user config
// directory and is optional.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "fitdesk"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", describeFile(file), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout must not be negative")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("config: store.path is required")
	}
	if strings.TrimSpace(c.Render.Renderer) == "" {
		return fmt.Errorf("config: render.renderer is required")
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("config: render.width must not be negative")
	}
	if c.Generator.Delay < 0 {
		return fmt.Errorf("config: generator.delay must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("render.renderer", cfg.Render.Renderer)
	v.SetDefault("render.theme", cfg.Render.Theme)
	v.SetDefault("render.variant", cfg.Render.Variant)
	v.SetDefault("render.width", cfg.Render.Width)
	v.SetDefault("generator.delay", cfg.Generator.Delay)
	v.SetDefault("popup.contract", cfg.Popup.Contract)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

func defaultStorePath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "fitdesk", "session.json")
	}
	return ".fitdesk-session.json"
}

func describeFile(file string) string {
	if file == "" {
		return FileName + ".yaml"
	}
	return file
}
