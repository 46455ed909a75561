package services

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"quickwinstall/internal/models"
)

func newTestPresetStore(t *testing.T) *PresetStore {
	return NewPresetStore(filepath.Join(t.TempDir(), "res", "presets"), nil)
}

func writePresetFile(t *testing.T, dir, file, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", file, err)
	}
	return path
}

const workPreset = `{
  "Preset": {
    "PresetName": "Work Laptop",
    "PresetDescription": "Corporate image",
    "PresetAuthor": "IT",
    "PresetVersion": "1.0"
  },
  "GeneralConfig": {"windowsEdition": "Pro"},
  "BypassChecksConfig": {"bypassTPM": false}
}`

func TestPresetStore_ListMissingDirectory(t *testing.T) {
	store := newTestPresetStore(t)

	names := store.List()
	if names == nil || len(names) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", names)
	}
}

func TestPresetStore_ListSorted(t *testing.T) {
	store := newTestPresetStore(t)
	for _, file := range []string{"work.json", "default.json", "home.json", "notes.txt"} {
		writePresetFile(t, store.Dir(), file, "{}")
	}
	if err := os.MkdirAll(filepath.Join(store.Dir(), "archive.json"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	got := store.List()
	want := []string{"default", "home", "work"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestPresetStore_LoadMetadata(t *testing.T) {
	store := newTestPresetStore(t)
	writePresetFile(t, store.Dir(), "work.json", workPreset)
	writePresetFile(t, store.Dir(), "bare.json", `{"GeneralConfig": {}}`)
	writePresetFile(t, store.Dir(), "broken.json", `{"Preset": `)

	meta, ok := store.LoadMetadata("work")
	if !ok {
		t.Fatal("Expected metadata for work preset")
	}
	if meta.Name != "Work Laptop" {
		t.Errorf("Expected name 'Work Laptop', got %q", meta.Name)
	}
	if meta.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %q", meta.Version)
	}

	for _, name := range []string{"bare", "broken", "missing", "../work"} {
		if _, ok := store.LoadMetadata(name); ok {
			t.Errorf("Expected no metadata for %q", name)
		}
	}
}

func TestPresetStore_SaveLoadDelete(t *testing.T) {
	store := newTestPresetStore(t)

	settings := models.NewSettingsDocument(nil, "")
	settings.GeneralConfig.WindowsEdition = "Education"
	doc := models.NewPresetFromSettings(models.PresetMetadata{Name: "School"}, settings)

	if err := store.Save("school", doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.Exists("school") {
		t.Fatal("Expected preset file to exist")
	}

	loaded, ok := store.Load("school")
	if !ok {
		t.Fatal("Load failed")
	}
	if loaded.GeneralConfig.WindowsEdition != "Education" {
		t.Errorf("Expected edition Education, got %q", loaded.GeneralConfig.WindowsEdition)
	}

	if err := store.Delete("school"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete("school"); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Expected ErrPresetNotFound, got %v", err)
	}
}

func TestPresetStore_DeleteDefaultAllowed(t *testing.T) {
	store := newTestPresetStore(t)
	writePresetFile(t, store.Dir(), "default.json", workPreset)

	if !IsReservedPreset("Default") {
		t.Error("Expected Default to be reserved")
	}
	if err := store.Delete("default"); err != nil {
		t.Errorf("Store-level delete of default should succeed, got %v", err)
	}
}

func TestValidatePresetName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "work", wantErr: false},
		{name: "Work Laptop v2", wantErr: false},
		{name: "", wantErr: true},
		{name: "   ", wantErr: true},
		{name: "a/b", wantErr: true},
		{name: `a\b`, wantErr: true},
		{name: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresetName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePresetName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPresetName) {
				t.Errorf("Expected ErrInvalidPresetName, got %v", err)
			}
		})
	}
}

func TestPresetStore_ImportAcceptsAnyObject(t *testing.T) {
	store := newTestPresetStore(t)
	srcDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "empty object", file: "empty.json", content: `{}`},
		{name: "unknown keys", file: "other.json", content: `{"Comment": "from another tool"}`},
		{name: "empty yaml mapping", file: "empty.yaml", content: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writePresetFile(t, srcDir, tt.file, tt.content)

			if err := store.Import(src, tt.name); err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			if _, ok := store.Load(tt.name); !ok {
				t.Error("Expected imported preset to load")
			}
		})
	}
}

func TestPresetStore_ImportRejectsInvalidWithoutWriting(t *testing.T) {
	store := newTestPresetStore(t)
	srcDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "malformed json", file: "bad.json", content: `{"Preset": {`},
		{name: "array", file: "list.json", content: `[1, 2, 3]`},
		{name: "null", file: "null.json", content: `null`},
		{name: "yaml scalar", file: "scalar.yaml", content: `just a string`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writePresetFile(t, srcDir, tt.file, tt.content)

			err := store.Import(src, "imported")
			if !errors.Is(err, ErrInvalidPreset) {
				t.Fatalf("Expected ErrInvalidPreset, got %v", err)
			}
			if store.Exists("imported") {
				t.Error("Invalid import must not create the destination")
			}
		})
	}
}

func TestPresetStore_ImportKeepsExistingOnFailure(t *testing.T) {
	store := newTestPresetStore(t)
	writePresetFile(t, store.Dir(), "work.json", workPreset)
	src := writePresetFile(t, t.TempDir(), "bad.json", "{nope")

	if err := store.Import(src, "work"); err == nil {
		t.Fatal("Expected import to fail")
	}

	meta, ok := store.LoadMetadata("work")
	if !ok || meta.Name != "Work Laptop" {
		t.Error("Existing preset must survive a failed import")
	}
}

func TestPresetStore_YAMLRoundTrip(t *testing.T) {
	store := newTestPresetStore(t)
	writePresetFile(t, store.Dir(), "work.json", workPreset)

	dest := filepath.Join(t.TempDir(), "work.yaml")
	if err := store.Export("work", dest); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "PresetName: Work Laptop") {
		t.Errorf("Expected YAML output, got:\n%s", data)
	}

	if err := store.Import(dest, "copy"); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	doc, ok := store.Load("copy")
	if !ok {
		t.Fatal("Expected imported preset to load")
	}
	if doc.Preset.Author != "IT" {
		t.Errorf("Expected author IT, got %q", doc.Preset.Author)
	}
	if doc.GeneralConfig == nil || doc.GeneralConfig.WindowsEdition != "Pro" {
		t.Error("Expected GeneralConfig to survive the YAML round trip")
	}
	if doc.BypassConfig == nil || doc.BypassConfig.BypassTPM {
		t.Error("Expected BypassChecksConfig to survive the YAML round trip")
	}
}

func TestPresetStore_ExportJSONCopy(t *testing.T) {
	store := newTestPresetStore(t)
	writePresetFile(t, store.Dir(), "work.json", workPreset)

	dest := filepath.Join(t.TempDir(), "out", "work.json")
	if err := store.Export("work", dest); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if string(data) != workPreset {
		t.Error("Expected byte-for-byte copy for JSON export")
	}

	if err := store.Export("missing", dest); !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("Expected ErrPresetNotFound, got %v", err)
	}
}
