package services

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type memoryThemePreference struct {
	theme string
}

func (p *memoryThemePreference) Theme() string { return p.theme }

func (p *memoryThemePreference) SetTheme(name string) error {
	p.theme = name
	return nil
}

func newTestThemeDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "themes")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create theme dir: %v", err)
	}
	files := map[string]string{
		"light.json":  `{"SeparatorColor": "#c0c0c0"}`,
		"dark.json":   `{"separatorColor": "#40404080"}`,
		"broken.json": `{"SeparatorColor": `,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#000000ff", want: color.RGBA{A: 0xff}},
		{in: "#c0c0c0", want: color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}},
		{in: "  #11223344 ", want: color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
		{in: "#123", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestThemeStore_LoadFallback(t *testing.T) {
	store := NewThemeStore(newTestThemeDir(t), nil, nil)

	if got := store.Load("Dark").SeparatorColor; got != "#40404080" {
		t.Errorf("Expected dark separator, got %q", got)
	}
	for _, name := range []string{"broken", "missing", "../dark"} {
		if got := store.Load(name).SeparatorColor; got != "#000000ff" {
			t.Errorf("Expected fallback for %q, got %q", name, got)
		}
	}
}

func TestThemeStore_CurrentFromSettings(t *testing.T) {
	pref := &memoryThemePreference{theme: "Dark"}
	store := NewThemeStore(newTestThemeDir(t), pref, nil)

	name, _ := store.Current()
	if name != "Dark" {
		t.Errorf("Expected Dark, got %s", name)
	}
	want := color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0x80}
	if got := store.SeparatorColor(); got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestThemeStore_Switch(t *testing.T) {
	pref := &memoryThemePreference{theme: "Light"}
	store := NewThemeStore(newTestThemeDir(t), pref, nil)

	if err := store.Switch("Dark"); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}
	if pref.theme != "Dark" {
		t.Errorf("Expected preference Dark, got %s", pref.theme)
	}

	if err := store.Switch("Solarized"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
	if pref.theme != "Dark" {
		t.Error("Failed switch must not change the saved preference")
	}
	if got := store.SeparatorColor(); got != (color.RGBA{A: 0xff}) {
		t.Errorf("Expected fallback separator after failed switch, got %v", got)
	}
	if name, _ := store.Current(); name != "Light" {
		t.Errorf("Expected fallback theme name Light after failed switch, got %s", name)
	}
}

func TestThemeStore_System(t *testing.T) {
	tests := []struct {
		name   string
		detect func() (bool, error)
		want   string
	}{
		{name: "dark", detect: func() (bool, error) { return true, nil }, want: "Dark"},
		{name: "light", detect: func() (bool, error) { return false, nil }, want: "Light"},
		{name: "unsupported", detect: func() (bool, error) { return false, errors.New("unsupported") }, want: "Light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pref := &memoryThemePreference{}
			store := NewThemeStore(newTestThemeDir(t), pref, nil)
			store.detect = tt.detect

			if got := store.ResolveSystem(); got != tt.want {
				t.Errorf("ResolveSystem() = %s, want %s", got, tt.want)
			}
			if err := store.Switch(SystemTheme); err != nil {
				t.Fatalf("Switch(System) failed: %v", err)
			}
			if pref.theme != SystemTheme {
				t.Errorf("Expected System to be persisted, got %s", pref.theme)
			}
		})
	}
}

func TestThemeStore_List(t *testing.T) {
	store := NewThemeStore(newTestThemeDir(t), nil, nil)

	want := []string{"Broken", "Dark", "Light"}
	if got := store.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
}
