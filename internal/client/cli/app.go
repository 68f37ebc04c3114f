// Package cli wires the three capture contexts together over the in-process
// message channel and drives them from a small interactive shell.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/akarpov87/pagevault/internal/bus"
	"github.com/akarpov87/pagevault/internal/client/api"
	"github.com/akarpov87/pagevault/internal/client/background"
	"github.com/akarpov87/pagevault/internal/client/config"
	"github.com/akarpov87/pagevault/internal/client/content"
	"github.com/akarpov87/pagevault/internal/client/popup"
	"github.com/akarpov87/pagevault/internal/client/scraper"
	"github.com/akarpov87/pagevault/internal/client/store"
	"github.com/akarpov87/pagevault/internal/client/tabs"
	"github.com/akarpov87/pagevault/internal/logging"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	settings   *store.Store
	api        *api.Client
	bus        *bus.Bus
	tabs       *tabs.Registry
	controller *popup.Controller
	reader     *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	settings, err := store.Open(c.DatabasePath)
	if err != nil {
		return nil, err
	}

	serverURL, err := settings.ServerURL(ctx)
	if err != nil {
		return nil, err
	}
	if serverURL == "" {
		serverURL = c.ServerURL
	}

	app := &App{
		config:   c,
		logger:   logger,
		settings: settings,
		bus:      bus.New(),
		tabs:     tabs.NewRegistry(),
		reader:   bufio.NewReader(os.Stdin),
	}

	// A 401 anywhere forces a logout: the stale token is wiped and the user
	// has to log in again.
	app.api = api.NewClient(serverURL, app.currentToken, app.forceLogout)

	content.NewEndpoint(scraper.New(logger), app.bus).Attach(app.bus)
	background.NewOrchestrator(app.bus, app.tabs, c.ScrapeTimeout, logger).Attach(app.bus)
	background.NewSettings(settings, app.api, logger).Attach(app.bus)

	app.controller = popup.NewController(app.bus, app.api, logger)
	app.controller.Attach(app.bus)

	return app, nil
}

func (a *App) currentToken() string {
	token, err := a.settings.Token(context.Background())
	if err != nil {
		return ""
	}
	return token
}

func (a *App) forceLogout() {
	ctx := context.Background()
	if err := a.settings.SetToken(ctx, ""); err != nil {
		a.logger.Error(ctx, "clearing token failed", "error", err.Error())
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.settings.Close()
	a.Root(ctx)
}
