package models

import (
	"encoding/json"
	"time"

	"quickwinstall/internal/common"
)

// SettingsDocument is the persisted application settings file.
type SettingsDocument struct {
	Lang         string    `json:"lang"`
	Theme        string    `json:"theme"`
	SavePath     string    `json:"savePath"`
	LastModified time.Time `json:"lastModified"`

	GeneralConfig     *GeneralConfig     `json:"generalConfig,omitempty"`
	LangRegionConfig  *LangRegionConfig  `json:"langRegionConfig,omitempty"`
	BypassConfig      *BypassConfig      `json:"bypassConfig,omitempty"`
	DiskConfig        *DiskConfig        `json:"diskConfig,omitempty"`
	AccountConfig     *AccountConfig     `json:"accountConfig,omitempty"`
	OOBEConfig        *OOBEConfig        `json:"oobeConfig,omitempty"`
	BitLockerConfig   *BitLockerConfig   `json:"bitLockerConfig,omitempty"`
	PersonalizeConfig *PersonalizeConfig `json:"personalizeConfig,omitempty"`
	AppConfig         *AppConfig         `json:"appConfig,omitempty"`
}

// UnmarshalJSON accepts the older xmlSavePath key as an alias for savePath.
func (d *SettingsDocument) UnmarshalJSON(data []byte) error {
	type alias SettingsDocument
	aux := struct {
		*alias
		XMLSavePath *string `json:"xmlSavePath"`
	}{alias: (*alias)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if d.SavePath == "" && aux.XMLSavePath != nil {
		d.SavePath = *aux.XMLSavePath
	}
	return nil
}

// NewSettingsDocument builds the first-run settings document from defaults.
func NewSettingsDocument(defaults *DefaultsDocument, savePath string) *SettingsDocument {
	if defaults == nil {
		defaults = BuiltinDefaults()
	}

	doc := &SettingsDocument{
		Lang:     common.DefaultLanguage,
		Theme:    common.DefaultTheme,
		SavePath: savePath,
	}
	doc.SetSections(defaults.Sections())
	return doc
}

// Sections returns the section sub-documents.
func (d *SettingsDocument) Sections() Sections {
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
	}
}

// SetSections replaces every section sub-document.
func (d *SettingsDocument) SetSections(s Sections) {
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

// Clone returns a deep copy of the document.
func (d *SettingsDocument) Clone() *SettingsDocument {
	if d == nil {
		return nil
	}
	out := &SettingsDocument{
		Lang:         d.Lang,
		Theme:        d.Theme,
		SavePath:     d.SavePath,
		LastModified: d.LastModified,
	}
	out.SetSections(d.Sections().Clone())
	return out
}
