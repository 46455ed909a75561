package container

import (
	"quickwinstall/internal/domain/resources"
	settingsDomain "quickwinstall/internal/domain/settings"
	"quickwinstall/internal/models"
	"quickwinstall/internal/services"
)

// SettingsStoreAdapter adapts services.SettingsStore to settingsDomain.Store
type SettingsStoreAdapter struct {
	store *services.SettingsStore
}

func (a *SettingsStoreAdapter) Load() *models.SettingsDocument {
	return a.store.Load()
}

func (a *SettingsStoreAdapter) Save(doc *models.SettingsDocument) error {
	return a.store.Save(doc)
}

func (a *SettingsStoreAdapter) Update(key, value string) error {
	field, err := services.ParseField(key)
	if err != nil {
		return err
	}
	return a.store.UpdateField(field, value)
}

func (a *SettingsStoreAdapter) Get(key string) (string, error) {
	field, err := services.ParseField(key)
	if err != nil {
		return "", err
	}
	return a.store.Field(field), nil
}

func (a *SettingsStoreAdapter) History(limit int) ([]models.SettingsRevision, error) {
	return a.store.History(limit)
}

func (a *SettingsStoreAdapter) Restore(id uint) error {
	return a.store.Restore(id)
}

// PresetStoreAdapter adapts services.PresetStore to settingsDomain.Presets
type PresetStoreAdapter struct {
	*services.PresetStore
}

func (a *PresetStoreAdapter) IsReserved(name string) bool {
	return services.IsReservedPreset(name)
}

var _ settingsDomain.Presets = (*PresetStoreAdapter)(nil)

// LocalizerAdapter adapts services.LocalizationStore to resources.Localizer
type LocalizerAdapter struct {
	*services.LocalizationStore
}

func (a *LocalizerAdapter) Languages() []resources.Language {
	codes := a.AvailableLanguages()
	langs := make([]resources.Language, len(codes))
	for i, code := range codes {
		langs[i] = resources.Language{
			Code:        code,
			DisplayName: a.DisplayName(code),
		}
	}
	return langs
}

func (a *LocalizerAdapter) Subscribe(fn func(resources.LanguageChange)) string {
	id := a.LocalizationStore.Subscribe(func(c services.LanguageChange) {
		fn(resources.LanguageChange{Old: c.Old, New: c.New})
	})
	return string(id)
}

func (a *LocalizerAdapter) Unsubscribe(id string) bool {
	return a.LocalizationStore.Unsubscribe(services.ListenerID(id))
}

// IconCacheAdapter adapts services.IconCache to resources.Icons
type IconCacheAdapter struct {
	*services.IconCache
}

func (a *IconCacheAdapter) Stats() string {
	return a.IconCache.Stats().String()
}

var (
	_ settingsDomain.Store = (*SettingsStoreAdapter)(nil)
	_ resources.Localizer  = (*LocalizerAdapter)(nil)
	_ resources.Icons      = (*IconCacheAdapter)(nil)
	_ resources.Themes     = (*services.ThemeStore)(nil)
)
