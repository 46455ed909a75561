package models

// PresetMetadata describes a preset. Serialized under the "Preset" key.
type PresetMetadata struct {
	Name        string `json:"PresetName"`
	Description string `json:"PresetDescription"`
	Author      string `json:"PresetAuthor"`
	Version     string `json:"PresetVersion"`
}

// PresetDocument is a named snapshot of every section plus metadata.
type PresetDocument struct {
	Preset PresetMetadata `json:"Preset"`

	GeneralConfig     *GeneralConfig     `json:"GeneralConfig,omitempty"`
	LangRegionConfig  *LangRegionConfig  `json:"LangRegionConfig,omitempty"`
	BypassConfig      *BypassConfig      `json:"BypassChecksConfig,omitempty"`
	DiskConfig        *DiskConfig        `json:"DiskConfig,omitempty"`
	AccountConfig     *AccountConfig     `json:"AccountConfig,omitempty"`
	OOBEConfig        *OOBEConfig        `json:"OOBEConfig,omitempty"`
	BitLockerConfig   *BitLockerConfig   `json:"BitLockerConfig,omitempty"`
	PersonalizeConfig *PersonalizeConfig `json:"PersonalizeConfig,omitempty"`
	AppConfig         *AppConfig         `json:"AppConfig,omitempty"`
}

// NewPresetFromSettings snapshots the sections of a settings document.
func NewPresetFromSettings(meta PresetMetadata, doc *SettingsDocument) *PresetDocument {
	p := &PresetDocument{Preset: meta}
	if doc != nil {
		p.SetSections(doc.Sections().Clone())
	}
	return p
}

func (p *PresetDocument) Sections() Sections {
	return Sections{
		General:     p.GeneralConfig,
		LangRegion:  p.LangRegionConfig,
		Bypass:      p.BypassConfig,
		Disk:        p.DiskConfig,
		Account:     p.AccountConfig,
		OOBE:        p.OOBEConfig,
		BitLocker:   p.BitLockerConfig,
		Personalize: p.PersonalizeConfig,
		App:         p.AppConfig,
	}
}

func (p *PresetDocument) SetSections(s Sections) {
	p.GeneralConfig = s.General
	p.LangRegionConfig = s.LangRegion
	p.BypassConfig = s.Bypass
	p.DiskConfig = s.Disk
	p.AccountConfig = s.Account
	p.OOBEConfig = s.OOBE
	p.BitLockerConfig = s.BitLocker
	p.PersonalizeConfig = s.Personalize
	p.AppConfig = s.App
}

// ApplyTo copies every section present in the preset into doc. Sections the
// preset leaves out keep their current values.
func (p *PresetDocument) ApplyTo(doc *SettingsDocument) {
	if p == nil || doc == nil {
		return
	}
	doc.SetSections(p.Sections().Overlay(doc.Sections()))
}
