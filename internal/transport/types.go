package transport

import (
	"quickwinstall/internal/domain/resources"
	settingsDomain "quickwinstall/internal/domain/settings"
)

// Transport layer types for Wails API

type Result struct {
	Success   bool   `json:"success"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Path      string `json:"path,omitempty"`
	Error     string `json:"error,omitempty"`
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

type PresetInfo = settingsDomain.PresetInfo

type Language = resources.Language

type ThemeResponse struct {
	Name           string   `json:"name"`
	SeparatorColor string   `json:"separator_color"`
	Available      []string `json:"available"`
}

type StatusResponse struct {
	Language    string `json:"language"`
	Theme       string `json:"theme"`
	SavePath    string `json:"save_path"`
	PresetCount int    `json:"preset_count"`
	IconCache   string `json:"icon_cache"`
}

// Dialog interface for system dialogs
type DialogHandler interface {
	OpenPresetDialog() (string, error)
	SavePresetDialog(filename string) (string, error)
	OpenDirectoryDialog() (string, error)
}
