package models

import (
	"encoding/json"
	"fmt"
	"os"

	"quickwinstall/internal/common"
)

// LangSettings lists the initial and selectable UI languages.
type LangSettings struct {
	Lang           string   `json:"lang"`
	LangsAvailable []string `json:"langsAvailable"`
}

// ThemeSettings lists the initial and selectable themes.
type ThemeSettings struct {
	Theme           string   `json:"theme"`
	ThemesAvailable []string `json:"themesAvailable"`
}

// DefaultsDocument is the read-only default.json shipped with the application.
type DefaultsDocument struct {
	GeneralConfig     *GeneralConfig     `json:"generalConfig"`
	LangRegionConfig  *LangRegionConfig  `json:"langRegionConfig"`
	BypassConfig      *BypassConfig      `json:"bypassChecksConfig"`
	DiskConfig        *DiskConfig        `json:"diskConfig"`
	AccountConfig     *AccountConfig     `json:"accountConfig"`
	OOBEConfig        *OOBEConfig        `json:"oobeConfig"`
	BitLockerConfig   *BitLockerConfig   `json:"bitLockerConfig"`
	PersonalizeConfig *PersonalizeConfig `json:"personalizeConfig"`
	AppConfig         *AppConfig         `json:"appConfig"`
	LangSettings      LangSettings       `json:"langSettings"`
	ThemeSettings     ThemeSettings      `json:"themeSettings"`
}

// LoadDefaults reads a defaults file. Sections missing from the file are
// filled from the compiled-in defaults.
func LoadDefaults(path string) (*DefaultsDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults %s: %w", path, err)
	}

	var doc DefaultsDocument
	if err := json.Unmarshal(common.StripBOM(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse defaults %s: %w", path, err)
	}

	builtin := BuiltinDefaults()
	doc.setSections(doc.Sections().Overlay(builtin.Sections()))
	if doc.LangSettings.Lang == "" {
		doc.LangSettings.Lang = builtin.LangSettings.Lang
	}
	if len(doc.LangSettings.LangsAvailable) == 0 {
		doc.LangSettings.LangsAvailable = builtin.LangSettings.LangsAvailable
	}
	if doc.ThemeSettings.Theme == "" {
		doc.ThemeSettings.Theme = builtin.ThemeSettings.Theme
	}
	if len(doc.ThemeSettings.ThemesAvailable) == 0 {
		doc.ThemeSettings.ThemesAvailable = builtin.ThemeSettings.ThemesAvailable
	}

	return &doc, nil
}

// Sections returns a deep copy of the default section sub-documents.
func (d *DefaultsDocument) Sections() Sections {
	return Sections{
		General:     d.GeneralConfig,
		LangRegion:  d.LangRegionConfig,
		Bypass:      d.BypassConfig,
		Disk:        d.DiskConfig,
		Account:     d.AccountConfig,
		OOBE:        d.OOBEConfig,
		BitLocker:   d.BitLockerConfig,
		Personalize: d.PersonalizeConfig,
		App:         d.AppConfig,
	}.Clone()
}

func (d *DefaultsDocument) setSections(s Sections) {
	d.GeneralConfig = s.General
	d.LangRegionConfig = s.LangRegion
	d.BypassConfig = s.Bypass
	d.DiskConfig = s.Disk
	d.AccountConfig = s.Account
	d.OOBEConfig = s.OOBE
	d.BitLockerConfig = s.BitLocker
	d.PersonalizeConfig = s.Personalize
	d.AppConfig = s.App
}

// BuiltinDefaults returns the compiled-in defaults used when default.json is
// missing or unreadable.
func BuiltinDefaults() *DefaultsDocument {
	return &DefaultsDocument{
		GeneralConfig: &GeneralConfig{Expanded: true},
		LangRegionConfig: &LangRegionConfig{
			Expanded:           true,
			SameAsSystemLocale: true,
		},
		BypassConfig: &BypassConfig{
			Expanded:         true,
			BypassAll:        true,
			BypassTPM:        true,
			BypassSecureBoot: true,
			BypassRAM:        true,
			BypassCPU:        true,
			BypassDiskSpace:  true,
			BypassStorage:    true,
		},
		DiskConfig: &DiskConfig{
			MinEntries:              1,
			MaxEntries:              8,
			EnableDiskConfiguration: true,
			PartitionLayout:         "GPT",
			Partitions: []Partition{
				{ID: 1, Type: "EFI", Name: "System", SizeMB: 300, Format: true},
				{ID: 2, Type: "MSR", Name: "Reserved", SizeMB: 16},
				{ID: 3, Type: "Primary", Name: "Windows", Format: true, Letter: "C"},
			},
		},
		AccountConfig: &AccountConfig{
			MinEntries:                 1,
			MaxEntries:                 5,
			EnableLocalAccountCreation: true,
			Accounts: []Account{
				{ID: 1, Type: "Administrators", Username: "User", DisplayName: "User"},
			},
		},
		OOBEConfig: &OOBEConfig{
			SkipAndHideAll:    true,
			SkipEULAs:         true,
			SkipLocalAccount:  true,
			SkipOnlineAccount: true,
			SkipWirelessSetup: true,
			SkipMachineOOBE:   true,
			SkipUserOOBE:      true,
		},
		BitLockerConfig:   &BitLockerConfig{},
		PersonalizeConfig: &PersonalizeConfig{},
		AppConfig:         &AppConfig{},
		LangSettings: LangSettings{
			Lang:           common.DefaultLanguage,
			LangsAvailable: []string{"en-US", "vi-VN"},
		},
		ThemeSettings: ThemeSettings{
			Theme:           common.DefaultTheme,
			ThemesAvailable: []string{"Light", "Dark"},
		},
	}
}
