package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	dark "github.com/thiagokokada/dark-mode-go"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quickwinstall/internal/common"
	"quickwinstall/internal/models"
)

// SystemTheme follows the operating system light/dark setting.
const SystemTheme = "System"

// ThemePreference persists the selected theme name.
type ThemePreference interface {
	Theme() string
	SetTheme(name string) error
}

// ThemeStore loads theme files and tracks the active theme.
type ThemeStore struct {
	dir      string
	settings ThemePreference
	logger   *slog.Logger
	detect   func() (bool, error)

	mu          sync.Mutex
	initialized bool
	current     string
	data        models.ThemeData
}

func NewThemeStore(dir string, settings ThemePreference, logger *slog.Logger) *ThemeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThemeStore{
		dir:      dir,
		settings: settings,
		logger:   logger,
		detect:   dark.IsDarkMode,
	}
}

func fallbackTheme() models.ThemeData {
	return models.ThemeData{SeparatorColor: common.FallbackSeparatorColor}
}

func (s *ThemeStore) path(name string) string {
	return filepath.Join(s.dir, strings.ToLower(name)+".json")
}

// Load reads the theme file for name. A missing or malformed file yields the
// fallback theme.
func (s *ThemeStore) Load(name string) models.ThemeData {
	data, err := s.read(name)
	if err != nil {
		s.logger.Warn("Failed to load theme, using fallback", "theme", name, "error", err)
		return fallbackTheme()
	}
	return data
}

func (s *ThemeStore) read(name string) (models.ThemeData, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return models.ThemeData{}, fmt.Errorf("invalid theme name %q", name)
	}

	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		return models.ThemeData{}, err
	}

	var data models.ThemeData
	if err := json.Unmarshal(common.StripBOM(raw), &data); err != nil {
		return models.ThemeData{}, err
	}
	if data.SeparatorColor == "" {
		data.SeparatorColor = common.FallbackSeparatorColor
	}
	return data, nil
}

// Switch activates name and persists it. When the theme file cannot be read
// the fallback theme is applied under the default theme name and the
// preference is left unchanged.
func (s *ThemeStore) Switch(name string) error {
	resolved := name
	if strings.EqualFold(name, SystemTheme) {
		resolved = s.ResolveSystem()
	}

	data, err := s.read(resolved)

	s.mu.Lock()
	s.initialized = true
	if err != nil {
		s.current = common.DefaultTheme
		s.data = fallbackTheme()
		s.mu.Unlock()
		s.logger.Warn("Failed to switch theme", "theme", name, "error", err)
		return fmt.Errorf("failed to load theme %s: %w", name, err)
	}
	s.current = name
	s.data = data
	s.mu.Unlock()

	if s.settings != nil && s.settings.Theme() != name {
		if err := s.settings.SetTheme(name); err != nil {
			return fmt.Errorf("failed to persist theme %s: %w", name, err)
		}
	}

	s.logger.Info("Theme switched", "theme", name, "resolved", resolved)
	return nil
}

// Current returns the active theme name and data, loading the saved theme on
// first use.
func (s *ThemeStore) Current() (string, models.ThemeData) {
	s.mu.Lock()
	if s.initialized {
		defer s.mu.Unlock()
		return s.current, s.data
	}
	s.mu.Unlock()

	name := common.DefaultTheme
	if s.settings != nil && s.settings.Theme() != "" {
		name = s.settings.Theme()
	}
	resolved := name
	if strings.EqualFold(name, SystemTheme) {
		resolved = s.ResolveSystem()
	}
	data := s.Load(resolved)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		s.current = name
		s.data = data
		s.initialized = true
	}
	return s.current, s.data
}

// SeparatorColor returns the separator color of the active theme.
func (s *ThemeStore) SeparatorColor() color.RGBA {
	_, data := s.Current()
	c, err := ParseHexColor(data.SeparatorColor)
	if err != nil {
		s.logger.Warn("Invalid separator color", "value", data.SeparatorColor, "error", err)
		c, _ = ParseHexColor(common.FallbackSeparatorColor)
	}
	return c
}

// ResolveSystem maps the OS appearance to Dark or Light. Light is used when
// the appearance cannot be detected.
func (s *ThemeStore) ResolveSystem() string {
	isDark, err := s.detect()
	if err != nil {
		s.logger.Debug("Dark mode detection failed", "error", err)
		return "Light"
	}
	if isDark {
		return "Dark"
	}
	return "Light"
}

// List returns the theme names found in the theme directory, sorted.
func (s *ThemeStore) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to list themes", "dir", s.dir, "error", err)
		}
		return []string{}
	}

	caser := cases.Title(language.Und)
	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			return "", false
		}
		return caser.String(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))), true
	})
	sort.Strings(names)
	return names
}

// ParseHexColor parses #RRGGBB or #RRGGBBAA. Six digits are fully opaque.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(hex) == 6 {
		val = val<<8 | 0xff
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}
