package main

import (
	"fmt"
	"io"
	"net/http"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-fitdesk/internal/config"
	"github.com/goliatone/go-fitdesk/internal/logging"
	"github.com/goliatone/go-fitdesk/pkg/api"
	"github.com/goliatone/go-fitdesk/pkg/creators"
	"github.com/goliatone/go-fitdesk/pkg/generator"
	"github.com/goliatone/go-fitdesk/pkg/model"
	"github.com/goliatone/go-fitdesk/pkg/render"
	"github.com/goliatone/go-fitdesk/pkg/renderers/html"
	"github.com/goliatone/go-fitdesk/pkg/renderers/json"
	"github.com/goliatone/go-fitdesk/pkg/renderers/markdown"
	"github.com/goliatone/go-fitdesk/pkg/renderers/text"
	"github.com/goliatone/go-fitdesk/pkg/store"
	"github.com/goliatone/go-fitdesk/pkg/tui"
)

// app holds the collaborators shared by every command.
type app struct {
	out     io.Writer
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	client  *api.Client
	session *tui.Session

	configFile string
	baseURL    string
	token      string
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.store = store.Open(cfg.Store.Path)

	var auth api.Auth = api.FromStore(a.store)
	if a.token != "" {
		auth = api.StaticToken(a.token)
	}
	a.client = api.New(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithAuth(auth),
		api.WithLogger(logger.Named("api")),
	)
	a.session = tui.New(tui.WithLogger(logger.Named("tui")))
	logger.Debug("fitdesk configured",
		zap.String("base_url", cfg.API.BaseURL),
		zap.String("store", cfg.Store.Path),
		zap.String("command", cmd.CommandPath()))
	return nil
}

// close flushes buffered log entries. Sync errors on stderr are ignored;
// terminals reject fsync.
func (a *app) close() {
	if a == nil || a.logger == nil {
		return
	}
	_ = a.logger.Sync()
}

// generators routes local schemas to the template engine and remote ones to
// the content-strategy endpoint.
func (a *app) generators() (generator.Generator, error) {
	local, err := generator.NewLocal(creators.Templates(),
		generator.WithDelay(a.cfg.Generator.Delay),
		generator.WithLogger(a.logger.Named("generator")))
	if err != nil {
		return nil, err
	}
	return generator.NewRouter(map[model.GeneratorKind]generator.Generator{
		model.GeneratorLocal:  local,
		model.GeneratorRemote: generator.NewRemote(a.client),
	}), nil
}

func (a *app) renderers(out io.Writer) (*render.Registry, error) {
	selector, err := html.NewManifestSelector(html.DefaultManifest())
	if err != nil {
		return nil, err
	}
	selector.SetDefaults(a.cfg.Render.Theme, a.cfg.Render.Variant)
	return render.NewRegistry(
		text.New(text.WithOutput(out), text.WithWidth(a.cfg.Render.Width)),
		html.New(html.WithThemeSelector(selector)),
		json.New("  "),
		markdown.New(),
		markdown.NewGlamour(""),
	)
}

func (a *app) printJSON(value any) error {
	out, err := gojson.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(out))
	return err
}
