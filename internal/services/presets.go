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

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"quickwinstall/internal/common"
	"quickwinstall/internal/models"
)

// PresetStore manages the named preset files in a single directory.
type PresetStore struct {
	dir    string
	logger *slog.Logger
}

func NewPresetStore(dir string, logger *slog.Logger) *PresetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PresetStore{dir: dir, logger: logger}
}

// Dir returns the preset directory.
func (s *PresetStore) Dir() string {
	return s.dir
}

// ValidatePresetName rejects names that are empty or would escape the preset
// directory.
func ValidatePresetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidPresetName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidPresetName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidPresetName, name)
	}
	return nil
}

// IsReservedPreset reports whether name is the shipped default preset.
func IsReservedPreset(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), common.ReservedPresetName)
}

// Path returns the file backing preset name.
func (s *PresetStore) Path(name string) string {
	return filepath.Join(s.dir, name+common.PresetExtension)
}

// Exists reports whether preset name has a file.
func (s *PresetStore) Exists(name string) bool {
	if ValidatePresetName(name) != nil {
		return false
	}
	return common.FileExists(s.Path(name))
}

// List returns the preset names in the directory, sorted. A missing directory
// has no presets.
func (s *PresetStore) List() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to list presets", "dir", s.dir, "error", err)
		}
		return []string{}
	}

	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), common.PresetExtension) {
			return "", false
		}
		return strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())), true
	})
	sort.Strings(names)
	return names
}

// LoadMetadata reads only the Preset object of a preset file.
func (s *PresetStore) LoadMetadata(name string) (*models.PresetMetadata, bool) {
	data, ok := s.read(name)
	if !ok {
		return nil, false
	}

	var head struct {
		Preset *models.PresetMetadata `json:"Preset"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		s.logger.Warn("Failed to parse preset metadata", "preset", name, "error", err)
		return nil, false
	}
	if head.Preset == nil {
		return nil, false
	}
	return head.Preset, true
}

// Load reads a whole preset.
func (s *PresetStore) Load(name string) (*models.PresetDocument, bool) {
	data, ok := s.read(name)
	if !ok {
		return nil, false
	}

	var doc models.PresetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("Failed to parse preset", "preset", name, "error", err)
		return nil, false
	}
	return &doc, true
}

func (s *PresetStore) read(name string) ([]byte, bool) {
	if err := ValidatePresetName(name); err != nil {
		s.logger.Debug("Rejected preset name", "preset", name, "error", err)
		return nil, false
	}

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("Preset not found", "preset", name)
		} else {
			s.logger.Warn("Failed to read preset", "preset", name, "error", err)
		}
		return nil, false
	}
	return common.StripBOM(data), true
}

// Save writes doc as preset name, replacing any existing file.
func (s *PresetStore) Save(name string, doc *models.PresetDocument) error {
	if err := ValidatePresetName(name); err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidPreset)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return NewStoreError("save preset", s.Path(name), err)
	}

	if err := common.WriteFileAtomic(s.Path(name), data); err != nil {
		s.logger.Error("Failed to write preset", "preset", name, "error", err)
		return NewStoreError("save preset", s.Path(name), err)
	}

	s.logger.Info("Preset saved", "preset", name)
	return nil
}

// Delete removes preset name. The reserved default preset is not protected
// here; see IsReservedPreset.
func (s *PresetStore) Delete(name string) error {
	if err := ValidatePresetName(name); err != nil {
		return err
	}

	if err := os.Remove(s.Path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
		}
		return NewStoreError("delete preset", s.Path(name), err)
	}

	s.logger.Info("Preset deleted", "preset", name)
	return nil
}

// Export copies preset name to dest. A .yaml or .yml destination receives
// the preset converted to YAML.
func (s *PresetStore) Export(name, dest string) error {
	if err := ValidatePresetName(name); err != nil {
		return err
	}

	src := s.Path(name)
	if !common.FileExists(src) {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}

	if !isYAMLPath(dest) {
		if err := common.CopyFile(src, dest); err != nil {
			return NewStoreError("export preset", dest, err)
		}
		s.logger.Info("Preset exported", "preset", name, "dest", dest)
		return nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return NewStoreError("export preset", src, err)
	}

	var tree any
	if err := json.Unmarshal(common.StripBOM(data), &tree); err != nil {
		return NewStoreError("export preset", src, fmt.Errorf("%w: %v", ErrInvalidPreset, err))
	}

	out, err := yaml.Marshal(tree)
	if err != nil {
		return NewStoreError("export preset", dest, err)
	}
	if err := common.WriteFileAtomic(dest, out); err != nil {
		return NewStoreError("export preset", dest, err)
	}

	s.logger.Info("Preset exported", "preset", name, "dest", dest, "format", "yaml")
	return nil
}

// Import validates src as a preset and stores it as name. Any JSON object is
// accepted, unknown keys included; null and non-object documents are not.
// The destination is only written once the source has parsed.
func (s *PresetStore) Import(src, name string) error {
	if err := ValidatePresetName(name); err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return NewStoreError("import preset", src, err)
	}
	data = common.StripBOM(data)

	if isYAMLPath(src) {
		if data, err = yamlToJSON(data); err != nil {
			return NewStoreError("import preset", src, fmt.Errorf("%w: %v", ErrInvalidPreset, err))
		}
	}

	var doc *models.PresetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return NewStoreError("import preset", src, fmt.Errorf("%w: %v", ErrInvalidPreset, err))
	}
	if doc == nil {
		return NewStoreError("import preset", src, fmt.Errorf("%w: null document", ErrInvalidPreset))
	}

	if isYAMLPath(src) {
		if data, err = json.MarshalIndent(doc, "", "  "); err != nil {
			return NewStoreError("import preset", src, err)
		}
	}

	if err := common.WriteFileAtomic(s.Path(name), data); err != nil {
		s.logger.Error("Failed to write imported preset", "preset", name, "error", err)
		return NewStoreError("import preset", s.Path(name), err)
	}

	s.logger.Info("Preset imported", "preset", name, "src", src)
	return nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(data []byte) ([]byte, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	if _, ok := tree.(map[string]any); !ok {
		return nil, errors.New("yaml document is not a mapping")
	}
	return json.Marshal(tree)
}
