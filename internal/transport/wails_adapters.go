package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"log/slog"
	"path/filepath"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"quickwinstall/internal/common"
	"quickwinstall/internal/domain/resources"
	settingsDomain "quickwinstall/internal/domain/settings"
	"quickwinstall/internal/models"
	"quickwinstall/internal/services"
)

// EventEmitter matches wailsruntime.EventsEmit.
type EventEmitter func(ctx context.Context, eventName string, optionalData ...interface{})

// Services are the domain dependencies of the bound API.
type Services struct {
	Settings  settingsDomain.Store
	Presets   settingsDomain.Presets
	Localizer resources.Localizer
	Icons     resources.Icons
	Themes    resources.Themes
}

type Option func(*WailsApp)

func WithEmitter(emit EventEmitter) Option {
	return func(a *WailsApp) { a.emit = emit }
}

func WithDialogs(dialogs DialogHandler) Option {
	return func(a *WailsApp) { a.dialogsHandler = dialogs }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *WailsApp) { a.logger = logger }
}

type WailsApp struct {
	ctx            context.Context
	settings       settingsDomain.Store
	presets        settingsDomain.Presets
	localizer      resources.Localizer
	icons          resources.Icons
	themes         resources.Themes
	dialogsHandler DialogHandler
	emit           EventEmitter
	logger         *slog.Logger

	languageSub string
}

func NewWailsApp(ctx context.Context, svc Services, opts ...Option) *WailsApp {
	a := &WailsApp{
		ctx:       ctx,
		settings:  svc.Settings,
		presets:   svc.Presets,
		localizer: svc.Localizer,
		icons:     svc.Icons,
		themes:    svc.Themes,
		emit:      wailsruntime.EventsEmit,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.languageSub = a.localizer.Subscribe(func(c resources.LanguageChange) {
		a.Emit(common.EventLanguageChanged, c.Old, c.New)
	})
	return a
}

// SetContext replaces the runtime context once Wails has started.
func (a *WailsApp) SetContext(ctx context.Context) {
	a.ctx = ctx
}

func (a *WailsApp) dialogs() DialogHandler {
	if a.dialogsHandler != nil {
		return a.dialogsHandler
	}
	return NewDialogsHandler(a.ctx)
}

// Emit sends an event to the frontend.
func (a *WailsApp) Emit(event string, data ...any) {
	a.emit(a.ctx, event, data...)
}

// Shutdown detaches the language listener.
func (a *WailsApp) Shutdown() {
	if a.languageSub != "" {
		a.localizer.Unsubscribe(a.languageSub)
		a.languageSub = ""
	}
}

// Settings

func (a *WailsApp) GetSettings() *models.SettingsDocument {
	return a.settings.Load()
}

func (a *WailsApp) SaveSettings(doc *models.SettingsDocument) Result {
	if err := a.settings.Save(doc); err != nil {
		a.logger.Error("Failed to save settings", "error", err)
		return failed(err)
	}
	a.Emit(common.EventSettingsChanged)
	return succeeded()
}

// UpdateSetting changes one setting by key. Language and theme changes go
// through their stores so listeners are notified.
func (a *WailsApp) UpdateSetting(key, value string) Result {
	field, err := services.ParseField(key)
	if err != nil {
		return failed(err)
	}

	switch field {
	case services.FieldLanguage:
		return a.SetLanguage(value)
	case services.FieldTheme:
		return a.SetTheme(value)
	}

	if err := a.settings.Update(key, value); err != nil {
		a.logger.Error("Failed to update setting", "key", key, "error", err)
		return failed(err)
	}
	a.Emit(common.EventSettingsChanged)
	return succeeded()
}

func (a *WailsApp) GetSetting(key string) (string, error) {
	return a.settings.Get(key)
}

// ChooseSavePath asks for an output folder and stores it.
func (a *WailsApp) ChooseSavePath() Result {
	dir, err := a.dialogs().OpenDirectoryDialog()
	if err != nil {
		return failed(err)
	}
	if dir == "" {
		return Result{Cancelled: true}
	}

	res := a.UpdateSetting(services.FieldSavePath.String(), dir)
	res.Path = dir
	return res
}

func (a *WailsApp) GetHistory(limit int) ([]models.SettingsRevision, error) {
	return a.settings.History(limit)
}

func (a *WailsApp) RestoreRevision(id uint) Result {
	if err := a.settings.Restore(id); err != nil {
		return failed(err)
	}
	a.Emit(common.EventSettingsChanged)
	return succeeded()
}

// Presets

func (a *WailsApp) ListPresets() []PresetInfo {
	names := a.presets.List()
	infos := make([]PresetInfo, len(names))
	for i, name := range names {
		infos[i] = a.presetInfo(name)
	}
	return infos
}

func (a *WailsApp) presetInfo(name string) PresetInfo {
	info := PresetInfo{
		Name:        name,
		DisplayName: name,
		Reserved:    a.presets.IsReserved(name),
	}
	if meta, ok := a.presets.LoadMetadata(name); ok {
		if meta.Name != "" {
			info.DisplayName = meta.Name
		}
		info.Description = meta.Description
		info.Author = meta.Author
		info.Version = meta.Version
	}
	return info
}

func (a *WailsApp) GetPresetInfo(name string) (*PresetInfo, error) {
	if _, ok := a.presets.LoadMetadata(name); !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrPresetNotFound, name)
	}
	info := a.presetInfo(name)
	return &info, nil
}

func (a *WailsApp) LoadPreset(name string) (*models.PresetDocument, error) {
	doc, ok := a.presets.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrPresetNotFound, name)
	}
	return doc, nil
}

// ApplyPreset copies the preset's sections into the settings and saves them.
func (a *WailsApp) ApplyPreset(name string) (*models.SettingsDocument, error) {
	preset, err := a.LoadPreset(name)
	if err != nil {
		return nil, err
	}

	doc := a.settings.Load()
	preset.ApplyTo(doc)
	if err := a.settings.Save(doc); err != nil {
		return nil, err
	}

	a.logger.Info("Preset applied", "preset", name)
	a.Emit(common.EventSettingsChanged)
	return doc, nil
}

func (a *WailsApp) SavePreset(name string, doc *models.PresetDocument) Result {
	if err := a.presets.Save(name, doc); err != nil {
		return failed(err)
	}
	return succeeded()
}

func (a *WailsApp) SaveCurrentAsPreset(name string, meta models.PresetMetadata) Result {
	if meta.Name == "" {
		meta.Name = name
	}
	return a.SavePreset(name, models.NewPresetFromSettings(meta, a.settings.Load()))
}

// DeletePreset removes a user preset. The shipped default preset cannot be
// deleted.
func (a *WailsApp) DeletePreset(name string) Result {
	if a.presets.IsReserved(name) {
		return failed(fmt.Errorf("%w: %s", services.ErrReservedPreset, name))
	}
	if err := a.presets.Delete(name); err != nil {
		return failed(err)
	}
	return succeeded()
}

func (a *WailsApp) ExportPreset(name string) Result {
	dest, err := a.dialogs().SavePresetDialog(name + common.PresetExtension)
	if err != nil {
		return failed(err)
	}
	if dest == "" {
		return Result{Cancelled: true}
	}

	if err := a.presets.Export(name, dest); err != nil {
		a.logger.Error("Failed to export preset", "preset", name, "error", err)
		return failed(err)
	}
	return Result{Success: true, Path: dest}
}

// ImportPreset asks for a preset file and stores it as name, or under the
// file's base name when name is empty.
func (a *WailsApp) ImportPreset(name string) Result {
	src, err := a.dialogs().OpenPresetDialog()
	if err != nil {
		return failed(err)
	}
	if src == "" {
		return Result{Cancelled: true}
	}

	if name == "" {
		base := filepath.Base(src)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := a.presets.Import(src, name); err != nil {
		a.logger.Error("Failed to import preset", "src", src, "error", err)
		return failed(err)
	}
	return Result{Success: true, Path: src}
}

// Localization

func (a *WailsApp) GetString(key, fallback string) string {
	return a.localizer.GetString(key, fallback)
}

func (a *WailsApp) GetStrings() map[string]string {
	return a.localizer.Strings()
}

func (a *WailsApp) GetLanguage() string {
	return a.localizer.Current()
}

func (a *WailsApp) GetLanguages() []Language {
	return a.localizer.Languages()
}

func (a *WailsApp) SetLanguage(code string) Result {
	if _, err := a.localizer.SetLanguage(code); err != nil {
		a.logger.Warn("Failed to set language", "lang", code, "error", err)
		return failed(err)
	}
	return succeeded()
}

// Themes

func (a *WailsApp) GetTheme() ThemeResponse {
	name, _ := a.themes.Current()
	c := a.themes.SeparatorColor()
	return ThemeResponse{
		Name:           name,
		SeparatorColor: fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A),
		Available:      a.themes.List(),
	}
}

func (a *WailsApp) SetTheme(name string) Result {
	if err := a.themes.Switch(name); err != nil {
		a.logger.Warn("Failed to switch theme", "theme", name, "error", err)
		return failed(err)
	}
	a.Emit(common.EventThemeChanged, a.GetTheme())
	return succeeded()
}

// Icons

// GetIcon returns the icon scaled to size as a PNG data URI.
func (a *WailsApp) GetIcon(name string, size int) (string, error) {
	img, ok := a.icons.GetScaled(name, size, size)
	if !ok {
		if name != services.AppIconName {
			return "", fmt.Errorf("icon not found: %s", name)
		}
		img = a.icons.AppIcon()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode icon %s: %w", name, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (a *WailsApp) GetStatus() StatusResponse {
	theme, _ := a.themes.Current()
	savePath, _ := a.settings.Get(services.FieldSavePath.String())
	return StatusResponse{
		Language:    a.localizer.Current(),
		Theme:       theme,
		SavePath:    savePath,
		PresetCount: len(a.presets.List()),
		IconCache:   a.icons.Stats(),
	}
}
