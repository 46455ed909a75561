package resources

import (
	"image"
	"image/color"

	"quickwinstall/internal/models"
)

type LanguageChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

type Language struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// Localizer resolves UI strings for the active language.
type Localizer interface {
	GetString(key, fallback string) string
	Strings() map[string]string
	SetLanguage(code string) (bool, error)
	Current() string
	Languages() []Language
	Subscribe(fn func(LanguageChange)) string
	Unsubscribe(id string) bool
}

type Icons interface {
	GetScaled(name string, w, h int) (image.Image, bool)
	AppIcon() image.Image
	Stats() string
}

type Themes interface {
	Current() (string, models.ThemeData)
	Switch(name string) error
	List() []string
	SeparatorColor() color.RGBA
}
