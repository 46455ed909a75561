package transport

import (
	"context"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

var presetFilters = []wailsruntime.FileFilter{
	{
		DisplayName: "Preset Files (*.json, *.yaml, *.yml)",
		Pattern:     "*.json;*.yaml;*.yml",
	},
	{
		DisplayName: "JSON Files (*.json)",
		Pattern:     "*.json",
	},
	{
		DisplayName: "YAML Files (*.yaml, *.yml)",
		Pattern:     "*.yaml;*.yml",
	},
}

type dialogsHandler struct {
	ctx context.Context
}

func NewDialogsHandler(ctx context.Context) DialogHandler {
	return &dialogsHandler{
		ctx: ctx,
	}
}

func (h *dialogsHandler) OpenPresetDialog() (string, error) {
	return wailsruntime.OpenFileDialog(h.ctx, wailsruntime.OpenDialogOptions{
		Title:   "Import preset",
		Filters: presetFilters,
	})
}

func (h *dialogsHandler) SavePresetDialog(filename string) (string, error) {
	return wailsruntime.SaveFileDialog(h.ctx, wailsruntime.SaveDialogOptions{
		Title:           "Export preset",
		DefaultFilename: filename,
		Filters:         presetFilters,
	})
}

func (h *dialogsHandler) OpenDirectoryDialog() (string, error) {
	return wailsruntime.OpenDirectoryDialog(h.ctx, wailsruntime.OpenDialogOptions{
		Title: "Select output folder",
	})
}
