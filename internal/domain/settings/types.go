package settings

import "quickwinstall/internal/models"

// Store is the persisted settings document.
type Store interface {
	Load() *models.SettingsDocument
	Save(doc *models.SettingsDocument) error
	// Update sets one scalar setting by key (lang, theme, savePath).
	Update(key, value string) error
	Get(key string) (string, error)
	History(limit int) ([]models.SettingsRevision, error)
	Restore(id uint) error
}

// Presets is the named preset library.
type Presets interface {
	List() []string
	LoadMetadata(name string) (*models.PresetMetadata, bool)
	Load(name string) (*models.PresetDocument, bool)
	Save(name string, doc *models.PresetDocument) error
	Delete(name string) error
	Export(name, dest string) error
	Import(src, name string) error
	IsReserved(name string) bool
}

type PresetInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Version     string `json:"version,omitempty"`
	Reserved    bool   `json:"reserved"`
}
