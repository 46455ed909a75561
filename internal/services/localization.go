package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"quickwinstall/internal/common"
	"quickwinstall/internal/models"
)

// LanguagePreference persists the selected UI language.
type LanguagePreference interface {
	Language() string
	SetLanguage(code string) error
}

// LanguageChange is delivered to subscribers after the active language changes.
type LanguageChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type ListenerID string

// LocalizationStore resolves UI strings for the active language.
type LocalizationStore struct {
	dir      string
	pref     LanguagePreference
	logger   *slog.Logger
	defaults *models.DefaultsDocument

	mu          sync.Mutex
	initialized bool
	current     string
	tables      map[string]map[string]string

	listenersMu sync.Mutex
	listeners   map[ListenerID]func(LanguageChange)
	order       []ListenerID
}

var nativeNames = map[string]string{
	"en-US": "English",
	"vi-VN": "Tiếng Việt",
}

func NewLocalizationStore(dir string, pref LanguagePreference, opts ...Option) *LocalizationStore {
	o := buildOptions(opts)
	return &LocalizationStore{
		dir:       dir,
		pref:      pref,
		logger:    o.logger,
		defaults:  o.defaults,
		tables:    make(map[string]map[string]string),
		listeners: make(map[ListenerID]func(LanguageChange)),
	}
}

// Initialize loads the preferred language. Calling it again has no effect
// until ClearCache.
func (s *LocalizationStore) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initLocked()
}

func (s *LocalizationStore) initLocked() {
	if s.initialized {
		return
	}

	code := ""
	if s.pref != nil {
		code = s.pref.Language()
	}
	if code == "" {
		code = s.defaults.LangSettings.Lang
	}
	if code == "" {
		code = common.DefaultLanguage
	}

	s.loadLocked(code)
	s.current = code
	s.initialized = true
	s.logger.Debug("Localization initialized", "lang", code)
}

// SetLanguage switches the active language, persists it and notifies
// subscribers. It reports false without notifying when code is empty or
// already active.
func (s *LocalizationStore) SetLanguage(code string) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	s.mu.Lock()
	s.initLocked()
	if code == s.current {
		s.mu.Unlock()
		return false, nil
	}
	if _, err := language.Parse(code); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}

	s.loadLocked(code)
	old := s.current
	s.current = code
	s.mu.Unlock()

	var persistErr error
	if s.pref != nil {
		if err := s.pref.SetLanguage(code); err != nil {
			s.logger.Warn("Failed to persist language", "lang", code, "error", err)
			persistErr = fmt.Errorf("failed to persist language %s: %w", code, err)
		}
	}

	s.logger.Info("Language changed", "old", old, "new", code)
	s.notify(LanguageChange{Old: old, New: code})
	return true, persistErr
}

// GetString looks key up in the active table, then the base English table.
// fallback, and finally key itself, are returned when neither has it.
func (s *LocalizationStore) GetString(key, fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initLocked()
	if v, ok := s.tables[s.current][key]; ok {
		return v
	}
	if s.current != common.FallbackLanguage {
		if v, ok := s.loadLocked(common.FallbackLanguage)[key]; ok {
			return v
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}

// Strings returns every known string for the active language, with base
// English strings filling the gaps.
func (s *LocalizationStore) Strings() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initLocked()
	out := make(map[string]string)
	for k, v := range s.loadLocked(common.FallbackLanguage) {
		out[k] = v
	}
	for k, v := range s.tables[s.current] {
		out[k] = v
	}
	return out
}

// Subscribe registers fn for language changes.
func (s *LocalizationStore) Subscribe(fn func(LanguageChange)) ListenerID {
	id := ListenerID(common.GenerateUUID())

	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	s.listeners[id] = fn
	s.order = append(s.order, id)
	return id
}

// Unsubscribe removes a listener. It reports whether id was registered.
func (s *LocalizationStore) Unsubscribe(id ListenerID) bool {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	if _, ok := s.listeners[id]; !ok {
		return false
	}
	delete(s.listeners, id)
	s.order = lo.Without(s.order, id)
	return true
}

func (s *LocalizationStore) notify(change LanguageChange) {
	s.listenersMu.Lock()
	fns := lo.FilterMap(s.order, func(id ListenerID, _ int) (func(LanguageChange), bool) {
		fn, ok := s.listeners[id]
		return fn, ok
	})
	s.listenersMu.Unlock()

	for _, fn := range fns {
		s.invoke(fn, change)
	}
}

func (s *LocalizationStore) invoke(fn func(LanguageChange), change LanguageChange) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Language listener panicked", "panic", r)
		}
	}()
	fn(change)
}

// Reload drops and re-reads the table for code.
func (s *LocalizationStore) Reload(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tables, code)
	s.loadLocked(code)
	s.logger.Info("Language reloaded", "lang", code)
}

// ClearCache drops every table. The next read initializes again.
func (s *LocalizationStore) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tables = make(map[string]map[string]string)
	s.initialized = false
	s.current = ""
	s.logger.Debug("Localization cache cleared")
}

func (s *LocalizationStore) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initLocked()
	return s.current
}

// AvailableLanguages lists the selectable language codes.
func (s *LocalizationStore) AvailableLanguages() []string {
	if langs := s.defaults.LangSettings.LangsAvailable; len(langs) > 0 {
		return append([]string(nil), langs...)
	}
	return []string{"en-US", "vi-VN"}
}

// DisplayName returns the name of a language in that language.
func (s *LocalizationStore) DisplayName(code string) string {
	if name, ok := nativeNames[code]; ok {
		return name
	}

	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.Self.Name(tag)
	if name == "" {
		return code
	}
	return cases.Title(tag).String(name)
}

// Exists reports whether a language file for code is present.
func (s *LocalizationStore) Exists(code string) bool {
	return common.FileExists(s.path(code))
}

// MissingKeys lists the base English keys that code does not translate.
func (s *LocalizationStore) MissingKeys(code string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.loadLocked(common.FallbackLanguage)
	table := s.loadLocked(code)

	missing := lo.Filter(lo.Keys(base), func(k string, _ int) bool {
		_, ok := table[k]
		return !ok
	})
	sort.Strings(missing)
	return missing
}

func (s *LocalizationStore) CacheInfo() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fmt.Sprintf("languages cached: %d, current: %s, initialized: %t", len(s.tables), s.current, s.initialized)
}

func (s *LocalizationStore) path(code string) string {
	return filepath.Join(s.dir, code+".json")
}

func (s *LocalizationStore) loadLocked(code string) map[string]string {
	if table, ok := s.tables[code]; ok {
		return table
	}

	path := s.path(code)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("Language file not found, using fallback", "path", path)
		} else {
			s.logger.Warn("Failed to read language file", "path", path, "error", err)
		}
		s.tables[code] = fallbackStrings(code)
		return s.tables[code]
	}

	table := make(map[string]string)
	if err := json.Unmarshal(common.StripBOM(data), &table); err != nil {
		s.logger.Warn("Failed to parse language file", "path", path, "error", err)
		s.tables[code] = fallbackStrings(code)
		return s.tables[code]
	}

	s.tables[code] = table
	s.logger.Debug("Language loaded", "lang", code, "strings", len(table))
	return table
}

func fallbackStrings(code string) map[string]string {
	if code != common.FallbackLanguage {
		return map[string]string{}
	}
	return map[string]string{
		"AppName":  "QuickWinstall",
		"Settings": "Settings",
		"About":    "About",
		"Help":     "Help",
		"Generate": "Generate",
		"Cancel":   "Cancel",
		"Clear":    "Clear",
		"OK":       "OK",
	}
}
