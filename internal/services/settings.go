package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"quickwinstall/internal/common"
	"quickwinstall/internal/models"
)

// Field names a scalar setting that can be changed on its own.
type Field int

const (
	FieldLanguage Field = iota + 1
	FieldTheme
	FieldSavePath
)

func (f Field) String() string {
	switch f {
	case FieldLanguage:
		return "lang"
	case FieldTheme:
		return "theme"
	case FieldSavePath:
		return "savePath"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField maps a setting key to its Field. Keys are case-insensitive and
// the older xmlSavePath key is accepted.
func ParseField(key string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "lang", "language":
		return FieldLanguage, nil
	case "theme":
		return FieldTheme, nil
	case "savepath", "xmlsavepath":
		return FieldSavePath, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
}

// RevisionJournal stores past versions of the settings document.
type RevisionJournal interface {
	Record(doc *models.SettingsDocument) (*models.SettingsRevision, error)
	Prune(keep int) error
	List(limit int) ([]models.SettingsRevision, error)
	Get(id uint) (*models.SettingsRevision, error)
}

// SettingsStore owns the settings file. It keeps one cached document and
// hands out copies of it.
type SettingsStore struct {
	path string
	opts storeOptions

	mu    sync.Mutex
	cache *models.SettingsDocument
}

func NewSettingsStore(path string, opts ...Option) *SettingsStore {
	return &SettingsStore{
		path: path,
		opts: buildOptions(opts),
	}
}

func (s *SettingsStore) logger() *slog.Logger {
	return s.opts.logger
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.path
}

// Load returns the current settings. A missing file is replaced by the
// defaults, which are written to disk. A corrupt file yields the defaults
// and is left untouched. An empty save path and absent sections are kept.
func (s *SettingsStore) Load() *models.SettingsDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked().Clone()
}

func (s *SettingsStore) loadLocked() *models.SettingsDocument {
	if s.cache != nil {
		return s.cache
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		doc := s.newDefaults()
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger().Warn("Failed to read settings, using defaults", "path", s.path, "error", err)
			s.cache = doc
			return s.cache
		}

		s.logger().Info("Settings file not found, creating defaults", "path", s.path)
		if err := s.saveLocked(doc); err != nil {
			s.cache = doc
		}
		return s.cache
	}

	var doc models.SettingsDocument
	if err := json.Unmarshal(common.StripBOM(data), &doc); err != nil {
		s.logger().Warn("Failed to parse settings, using defaults", "path", s.path, "error", err)
		s.cache = s.newDefaults()
		return s.cache
	}

	s.fillMissing(&doc)
	s.cache = &doc
	s.logger().Debug("Settings loaded", "path", s.path)
	return s.cache
}

func (s *SettingsStore) newDefaults() *models.SettingsDocument {
	doc := models.NewSettingsDocument(s.opts.defaults, s.opts.defaultSavePath)
	if lang := s.opts.defaults.LangSettings.Lang; lang != "" {
		doc.Lang = lang
	}
	if theme := s.opts.defaults.ThemeSettings.Theme; theme != "" {
		doc.Theme = theme
	}
	return doc
}

// fillMissing completes the language and theme of a document read from an
// older or hand-edited file. Other fields are returned as saved.
func (s *SettingsStore) fillMissing(doc *models.SettingsDocument) {
	defaults := s.newDefaults()
	if doc.Lang == "" {
		doc.Lang = defaults.Lang
	}
	if doc.Theme == "" {
		doc.Theme = defaults.Theme
	}
}

// Save stamps doc with the current time and replaces the settings file.
func (s *SettingsStore) Save(doc *models.SettingsDocument) error {
	if doc == nil {
		return NewStoreError("save settings", s.path, errors.New("nil document"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc.LastModified = s.now()
	return s.saveLocked(doc.Clone())
}

func (s *SettingsStore) saveLocked(doc *models.SettingsDocument) error {
	if doc.LastModified.IsZero() {
		doc.LastModified = s.now()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return NewStoreError("save settings", s.path, err)
	}

	if err := common.WriteFileAtomic(s.path, data); err != nil {
		s.logger().Error("Failed to write settings", "path", s.path, "error", err)
		return NewStoreError("save settings", s.path, err)
	}

	s.cache = doc
	s.logger().Info("Settings saved", "path", s.path)
	s.record(doc)
	return nil
}

func (s *SettingsStore) record(doc *models.SettingsDocument) {
	if s.opts.journal == nil {
		return
	}
	if _, err := s.opts.journal.Record(doc); err != nil {
		s.logger().Warn("Failed to record settings revision", "error", err)
		return
	}
	if err := s.opts.journal.Prune(s.opts.historyLimit); err != nil {
		s.logger().Warn("Failed to prune settings history", "error", err)
	}
}

func (s *SettingsStore) now() time.Time {
	return s.opts.clock().UTC().Round(0)
}

// UpdateField sets a single scalar field and saves the document. Nothing is
// changed when field is unknown.
func (s *SettingsStore) UpdateField(field Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.loadLocked().Clone()
	switch field {
	case FieldLanguage:
		doc.Lang = value
	case FieldTheme:
		doc.Theme = value
	case FieldSavePath:
		doc.SavePath = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	doc.LastModified = s.now()
	return s.saveLocked(doc)
}

// Field returns the current value of a scalar field, or "" when unknown.
func (s *SettingsStore) Field(field Field) string {
	doc := s.Load()
	switch field {
	case FieldLanguage:
		return doc.Lang
	case FieldTheme:
		return doc.Theme
	case FieldSavePath:
		return doc.SavePath
	default:
		return ""
	}
}

func (s *SettingsStore) Language() string {
	return s.Field(FieldLanguage)
}

func (s *SettingsStore) SetLanguage(code string) error {
	return s.UpdateField(FieldLanguage, code)
}

func (s *SettingsStore) Theme() string {
	return s.Field(FieldTheme)
}

func (s *SettingsStore) SetTheme(name string) error {
	return s.UpdateField(FieldTheme, name)
}

func (s *SettingsStore) SavePath() string {
	return s.Field(FieldSavePath)
}

func (s *SettingsStore) SetSavePath(path string) error {
	return s.UpdateField(FieldSavePath, path)
}

// ClearCache forces the next Load to read the file again.
func (s *SettingsStore) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
}

// Exists reports whether the settings file is present on disk.
func (s *SettingsStore) Exists() bool {
	return common.FileExists(s.path)
}

// History returns up to limit past revisions, newest first.
func (s *SettingsStore) History(limit int) ([]models.SettingsRevision, error) {
	if s.opts.journal == nil {
		return nil, ErrNoJournal
	}
	return s.opts.journal.List(limit)
}

// Restore saves the document stored in revision id as the current settings.
func (s *SettingsStore) Restore(id uint) error {
	if s.opts.journal == nil {
		return ErrNoJournal
	}

	rev, err := s.opts.journal.Get(id)
	if err != nil {
		return fmt.Errorf("failed to load revision %d: %w", id, err)
	}

	return s.Save(rev.Document())
}
