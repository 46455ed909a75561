package common

const (
	// Localization constants
	DefaultLanguage  = "en-US"
	FallbackLanguage = "en-US"

	// Theme constants
	DefaultTheme           = "Light"
	FallbackSeparatorColor = "#000000ff"

	// Preset constants
	ReservedPresetName = "default"
	PresetExtension    = ".json"

	// File operation constants
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644

	// Event names
	EventLanguageChanged  = "lang:changed"
	EventLanguageReloaded = "lang:reloaded"
	EventPresetsChanged   = "presets:changed"
	EventThemeChanged     = "theme:changed"
	EventSettingsChanged  = "settings:changed"
)
