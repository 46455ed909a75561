package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewWithRoot(t *testing.T) {
	root := t.TempDir()
	data := t.TempDir()

	cfg := NewWithRoot(root, data)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "langs", got: cfg.LangDir, want: filepath.Join(root, "res", "langs")},
		{name: "icons", got: cfg.IconDir, want: filepath.Join(root, "res", "icons")},
		{name: "themes", got: cfg.ThemeDir, want: filepath.Join(root, "res", "themes")},
		{name: "presets", got: cfg.PresetDir, want: filepath.Join(root, "res", "presets")},
		{name: "defaults", got: cfg.DefaultsPath, want: filepath.Join(root, "src", "main", "default.json")},
		{name: "settings", got: cfg.SettingsPath, want: filepath.Join(data, "settings.json")},
		{name: "database", got: cfg.DatabasePath, want: filepath.Join(data, "settings.sqlite3")},
		{name: "save path", got: cfg.DefaultSavePath, want: root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, tt.got)
			}
		})
	}

	if cfg.IconSize != 16 || cfg.HistoryLimit != 20 || cfg.WatchDebounce != 300*time.Millisecond {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.Logger == nil {
		t.Error("Expected a default logger")
	}
}
