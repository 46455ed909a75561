package container

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"quickwinstall/internal/common"
	"quickwinstall/internal/config"
	"quickwinstall/internal/database"
	"quickwinstall/internal/domain/resources"
	settingsDomain "quickwinstall/internal/domain/settings"
	"quickwinstall/internal/models"
	"quickwinstall/internal/services"
	"quickwinstall/internal/watch"
)

// Notifier pushes an event to the frontend.
type Notifier func(event string, data ...any)

// Container holds all dependencies for the application
type Container struct {
	config   *config.Config
	logger   *slog.Logger
	db       *database.Database
	defaults *models.DefaultsDocument
	watcher  *watch.Watcher

	settingsStore *services.SettingsStore
	presetStore   *services.PresetStore
	localization  *services.LocalizationStore
	iconCache     *services.IconCache
	themeStore    *services.ThemeStore

	settings  settingsDomain.Store
	presets   settingsDomain.Presets
	localizer resources.Localizer
	icons     resources.Icons
}

// New creates a new dependency injection container. Failures of optional
// parts (defaults file, journal) are logged and the container still works.
func New(ctx context.Context, cfg *config.Config) *Container {
	c := &Container{
		config: cfg,
		logger: cfg.Logger,
	}

	c.initInfrastructure()
	c.initServices(ctx)
	return c
}

func (c *Container) initInfrastructure() {
	defaults, err := models.LoadDefaults(c.config.DefaultsPath)
	if err != nil {
		c.logger.Warn("Failed to load defaults, using builtin defaults", "path", c.config.DefaultsPath, "error", err)
		defaults = models.BuiltinDefaults()
	}
	c.defaults = defaults

	db, err := database.NewDatabase(c.config.DatabasePath)
	if err != nil {
		c.logger.Error("Failed to open settings journal", "path", c.config.DatabasePath, "error", err)
		return
	}
	c.db = db
}

// initServices initializes all services with their dependencies
func (c *Container) initServices(ctx context.Context) {
	opts := []services.Option{
		services.WithLogger(c.logger),
		services.WithDefaults(c.defaults),
		services.WithDefaultSavePath(c.config.DefaultSavePath),
	}
	if c.db != nil {
		opts = append(opts, services.WithJournal(c.db, c.config.HistoryLimit))
	}

	c.settingsStore = services.NewSettingsStore(c.config.SettingsPath, opts...)
	c.presetStore = services.NewPresetStore(c.config.PresetDir, c.logger)
	c.localization = services.NewLocalizationStore(c.config.LangDir, c.settingsStore, opts...)
	c.iconCache = services.NewIconCache(c.config.IconDir, c.config.IconSize, c.logger)
	c.themeStore = services.NewThemeStore(c.config.ThemeDir, c.settingsStore, c.logger)

	c.settings = &SettingsStoreAdapter{store: c.settingsStore}
	c.presets = &PresetStoreAdapter{PresetStore: c.presetStore}
	c.localizer = &LocalizerAdapter{LocalizationStore: c.localization}
	c.icons = &IconCacheAdapter{IconCache: c.iconCache}

	c.localization.Initialize()
	go c.iconCache.InitializeAndValidate()
}

// StartWatching reloads language tables and reports preset changes while ctx
// is alive. Directories that cannot be watched are skipped.
func (c *Container) StartWatching(ctx context.Context, notify Notifier) error {
	w, err := watch.New(c.logger, c.config.WatchDebounce)
	if err != nil {
		return err
	}
	c.watcher = w

	if err := w.Watch(c.config.LangDir, func(changed []string) {
		for _, code := range languageCodes(changed) {
			c.localization.Reload(code)
			notify(common.EventLanguageReloaded, code)
		}
	}); err != nil {
		c.logger.Warn("Language directory not watched", "error", err)
	}

	if err := w.Watch(c.config.PresetDir, func(changed []string) {
		notify(common.EventPresetsChanged, c.presetStore.List())
	}); err != nil {
		c.logger.Warn("Preset directory not watched", "error", err)
	}

	go w.Run(ctx)
	return nil
}

func languageCodes(files []string) []string {
	var codes []string
	for _, f := range files {
		if strings.EqualFold(filepath.Ext(f), ".json") {
			codes = append(codes, strings.TrimSuffix(f, filepath.Ext(f)))
		}
	}
	return codes
}

// Close stops the watcher and closes the journal.
func (c *Container) Close() {
	if c.watcher != nil {
		if err := c.watcher.Close(); err != nil {
			c.logger.Warn("Failed to close watcher", "error", err)
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Warn("Failed to close settings journal", "error", err)
		}
	}
}

func (c *Container) GetSettings() settingsDomain.Store {
	return c.settings
}

func (c *Container) GetPresets() settingsDomain.Presets {
	return c.presets
}

func (c *Container) GetLocalizer() resources.Localizer {
	return c.localizer
}

func (c *Container) GetIcons() resources.Icons {
	return c.icons
}

func (c *Container) GetThemes() resources.Themes {
	return c.themeStore
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}
