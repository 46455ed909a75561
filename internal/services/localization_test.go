package services

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type memoryPreference struct {
	lang  string
	saves int
	err   error
}

func (p *memoryPreference) Language() string { return p.lang }

func (p *memoryPreference) SetLanguage(code string) error {
	if p.err != nil {
		return p.err
	}
	p.lang = code
	p.saves++
	return nil
}

func newTestLangDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "res", "langs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create lang dir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func TestLocalization_FallbackChain(t *testing.T) {
	dir := newTestLangDir(t, map[string]string{
		"en-US.json": `{"Save": "Save", "Only.English": "English only"}`,
		"vi-VN.json": "\xEF\xBB\xBF" + `{"Save": "Lưu"}`,
	})
	store := NewLocalizationStore(dir, &memoryPreference{lang: "vi-VN"})

	tests := []struct {
		name     string
		key      string
		fallback string
		want     string
	}{
		{name: "active table", key: "Save", want: "Lưu"},
		{name: "base table", key: "Only.English", want: "English only"},
		{name: "caller fallback", key: "Missing", fallback: "Default text", want: "Default text"},
		{name: "key itself", key: "Missing", want: "Missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.GetString(tt.key, tt.fallback); got != tt.want {
				t.Errorf("GetString(%q, %q) = %q, want %q", tt.key, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestLocalization_MissingFilesUseBuiltinEnglish(t *testing.T) {
	store := NewLocalizationStore(newTestLangDir(t, nil), &memoryPreference{})

	if store.Current() != "en-US" {
		t.Errorf("Expected en-US, got %s", store.Current())
	}
	if got := store.GetString("AppName", ""); got != "QuickWinstall" {
		t.Errorf("Expected builtin AppName, got %q", got)
	}
}

func TestLocalization_MalformedFileUsesFallback(t *testing.T) {
	dir := newTestLangDir(t, map[string]string{"en-US.json": `{"Save": `})
	store := NewLocalizationStore(dir, &memoryPreference{lang: "en-US"})

	if got := store.GetString("OK", ""); got != "OK" {
		t.Errorf("Expected builtin OK string, got %q", got)
	}
}

func TestLocalization_SetLanguageIdempotent(t *testing.T) {
	dir := newTestLangDir(t, map[string]string{"vi-VN.json": `{"Save": "Lưu"}`})
	pref := &memoryPreference{lang: "en-US"}
	store := NewLocalizationStore(dir, pref)

	var changes []LanguageChange
	store.Subscribe(func(c LanguageChange) { changes = append(changes, c) })

	for i := 0; i < 3; i++ {
		if _, err := store.SetLanguage("vi-VN"); err != nil {
			t.Fatalf("SetLanguage failed: %v", err)
		}
	}

	want := []LanguageChange{{Old: "en-US", New: "vi-VN"}}
	if !reflect.DeepEqual(changes, want) {
		t.Errorf("Expected a single change %v, got %v", want, changes)
	}
	if pref.saves != 1 {
		t.Errorf("Expected language persisted once, got %d", pref.saves)
	}

	changed, err := store.SetLanguage("")
	if changed || err != nil {
		t.Errorf("Expected empty code to be a no-op, got %v, %v", changed, err)
	}
}

func TestLocalization_SetLanguageInvalidCode(t *testing.T) {
	store := NewLocalizationStore(newTestLangDir(t, nil), &memoryPreference{})

	changed, err := store.SetLanguage("not a language!")
	if changed {
		t.Error("Expected no change for invalid code")
	}
	if !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("Expected ErrInvalidLanguage, got %v", err)
	}
	if store.Current() != "en-US" {
		t.Errorf("Expected current language unchanged, got %s", store.Current())
	}
}

func TestLocalization_PersistFailureStillSwitches(t *testing.T) {
	pref := &memoryPreference{lang: "en-US", err: errors.New("disk full")}
	store := NewLocalizationStore(newTestLangDir(t, nil), pref)

	changed, err := store.SetLanguage("vi-VN")
	if !changed {
		t.Error("Expected language to change")
	}
	if err == nil {
		t.Error("Expected persistence error to be reported")
	}
	if store.Current() != "vi-VN" {
		t.Errorf("Expected vi-VN, got %s", store.Current())
	}
}

func TestLocalization_Unsubscribe(t *testing.T) {
	store := NewLocalizationStore(newTestLangDir(t, nil), &memoryPreference{lang: "en-US"})

	calls := 0
	id := store.Subscribe(func(LanguageChange) { calls++ })

	if !store.Unsubscribe(id) {
		t.Fatal("Expected Unsubscribe to find listener")
	}
	if store.Unsubscribe(id) {
		t.Error("Second Unsubscribe should report false")
	}

	store.SetLanguage("vi-VN")
	if calls != 0 {
		t.Errorf("Unsubscribed listener was called %d times", calls)
	}
}

func TestLocalization_PanickingListenerSkipped(t *testing.T) {
	store := NewLocalizationStore(newTestLangDir(t, nil), &memoryPreference{lang: "en-US"})

	var order []string
	store.Subscribe(func(LanguageChange) { order = append(order, "first") })
	store.Subscribe(func(LanguageChange) { panic("boom") })
	store.Subscribe(func(LanguageChange) { order = append(order, "third") })

	if changed, _ := store.SetLanguage("vi-VN"); !changed {
		t.Fatal("Expected language to change")
	}

	want := []string{"first", "third"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("Expected listeners %v to run, got %v", want, order)
	}
}

func TestLocalization_ReloadPicksUpEdits(t *testing.T) {
	dir := newTestLangDir(t, map[string]string{"en-US.json": `{"Title": "Old"}`})
	store := NewLocalizationStore(dir, &memoryPreference{lang: "en-US"})

	if got := store.GetString("Title", ""); got != "Old" {
		t.Fatalf("Expected Old, got %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "en-US.json"), []byte(`{"Title": "New"}`), 0644); err != nil {
		t.Fatalf("Failed to rewrite file: %v", err)
	}
	if got := store.GetString("Title", ""); got != "Old" {
		t.Errorf("Expected cached table before reload, got %q", got)
	}

	store.Reload("en-US")
	if got := store.GetString("Title", ""); got != "New" {
		t.Errorf("Expected New after reload, got %q", got)
	}
}

func TestLocalization_MissingKeys(t *testing.T) {
	dir := newTestLangDir(t, map[string]string{
		"en-US.json": `{"Save": "Save", "Open": "Open", "About": "About"}`,
		"vi-VN.json": `{"Save": "Lưu"}`,
	})
	store := NewLocalizationStore(dir, &memoryPreference{})

	got := store.MissingKeys("vi-VN")
	want := []string{"About", "Open"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingKeys() = %v, want %v", got, want)
	}
}

func TestLocalization_DisplayName(t *testing.T) {
	store := NewLocalizationStore(newTestLangDir(t, nil), nil)

	if got := store.DisplayName("vi-VN"); got != "Tiếng Việt" {
		t.Errorf("Expected Tiếng Việt, got %q", got)
	}
	if got := store.DisplayName("de"); got != "Deutsch" {
		t.Errorf("Expected Deutsch, got %q", got)
	}
	if got := store.DisplayName("%%"); got != "%%" {
		t.Errorf("Expected invalid code echoed back, got %q", got)
	}
}

func TestLocalization_ClearCache(t *testing.T) {
	pref := &memoryPreference{lang: "vi-VN"}
	store := NewLocalizationStore(newTestLangDir(t, nil), pref)
	store.Initialize()

	pref.lang = "en-US"
	store.ClearCache()

	if store.Current() != "en-US" {
		t.Errorf("Expected re-initialization from preference, got %s", store.Current())
	}
}
