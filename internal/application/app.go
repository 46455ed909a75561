package application

import (
	"context"
	"log/slog"

	"quickwinstall/internal/config"
	"quickwinstall/internal/container"
	"quickwinstall/internal/transport"
)

type App struct {
	ctx       context.Context
	cancel    context.CancelFunc
	config    *config.Config
	container *container.Container
	bridge    *transport.WailsApp
}

// NewApp builds every store up front so the bridge can be bound before the
// Wails runtime starts.
func NewApp() *App {
	cfg := config.New(slog.Default())
	c := container.New(context.Background(), cfg)

	bridge := transport.NewWailsApp(context.Background(), transport.Services{
		Settings:  c.GetSettings(),
		Presets:   c.GetPresets(),
		Localizer: c.GetLocalizer(),
		Icons:     c.GetIcons(),
		Themes:    c.GetThemes(),
	}, transport.WithLogger(cfg.Logger))

	return &App{
		config:    cfg,
		container: c,
		bridge:    bridge,
	}
}

// Bridge returns the object bound to the frontend.
func (a *App) Bridge() *transport.WailsApp {
	return a.bridge
}

func (a *App) OnStartup(ctx context.Context) {
	a.ctx = ctx
	a.bridge.SetContext(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	if err := a.container.StartWatching(watchCtx, a.bridge.Emit); err != nil {
		a.config.Logger.Error("Failed to start resource watcher", "error", err)
	}

	a.config.Logger.Info("Wails app initialized successfully")
	a.config.Logger.Info("Application configuration",
		"resource_dir", a.config.ResourceDir,
		"settings_path", a.config.SettingsPath,
		"database_path", a.config.DatabasePath)
}

func (a *App) OnShutdown(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	a.bridge.Shutdown()
	a.container.Close()
	a.config.Logger.Info("Application stopped")
}
