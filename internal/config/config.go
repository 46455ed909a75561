package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const appName = "QuickWinstall"

// Config holds application configuration
type Config struct {
	Logger *slog.Logger

	// ResourceDir is the directory shipped next to the executable.
	ResourceDir  string
	LangDir      string
	IconDir      string
	ThemeDir     string
	PresetDir    string
	DefaultsPath string

	AppDataDir   string
	SettingsPath string
	DatabasePath string

	// DefaultSavePath is written to savePath on first run.
	DefaultSavePath string

	IconSize      int
	HistoryLimit  int
	WatchDebounce time.Duration
}

// New creates a new configuration instance rooted at the executable directory.
func New(logger *slog.Logger) *Config {
	if logger == nil {
		logger = slog.Default()
	}

	root := executableDir(logger)
	dataDir := getAppDataDir(logger, root)

	cfg := NewWithRoot(root, dataDir)
	cfg.Logger = logger
	cfg.setupDirectories()
	return cfg
}

// NewWithRoot builds a configuration from explicit resource and data
// directories. Nothing is created on disk.
func NewWithRoot(root, dataDir string) *Config {
	resDir := filepath.Join(root, "res")

	return &Config{
		Logger:          slog.Default(),
		ResourceDir:     resDir,
		LangDir:         filepath.Join(resDir, "langs"),
		IconDir:         filepath.Join(resDir, "icons"),
		ThemeDir:        filepath.Join(resDir, "themes"),
		PresetDir:       filepath.Join(resDir, "presets"),
		DefaultsPath:    filepath.Join(root, "src", "main", "default.json"),
		AppDataDir:      dataDir,
		SettingsPath:    filepath.Join(dataDir, "settings.json"),
		DatabasePath:    filepath.Join(dataDir, "settings.sqlite3"),
		DefaultSavePath: root,
		IconSize:        16,
		HistoryLimit:    20,
		WatchDebounce:   300 * time.Millisecond,
	}
}

func (c *Config) setupDirectories() {
	for _, dir := range []string{c.AppDataDir, c.PresetDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			c.Logger.Warn("Failed to create directory", "path", dir, "error", err)
		}
	}
}

func executableDir(logger *slog.Logger) string {
	exe, err := os.Executable()
	if err != nil {
		logger.Warn("Failed to resolve executable path, using working directory", "error", err)
		wd, _ := os.Getwd()
		return wd
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func getAppDataDir(logger *slog.Logger, fallback string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		logger.Warn("Failed to resolve user config dir, storing data next to executable", "error", err)
		return filepath.Join(fallback, "src", "main")
	}
	return filepath.Join(base, appName)
}
