package models

// GeneralConfig holds the edition, product key and architecture choices.
type GeneralConfig struct {
	Expanded        bool      `json:"expanded"`
	WindowsEdition  string    `json:"windowsEdition"`
	ProductKey      [5]string `json:"productKey"`
	CPUArchitecture string    `json:"cpuArchitecture"`
}

// LangRegionConfig holds locale, keyboard and time zone choices.
type LangRegionConfig struct {
	Expanded           bool   `json:"expanded"`
	SystemLocale       string `json:"systemLocale"`
	UserLocale         string `json:"userLocale"`
	SameAsSystemLocale bool   `json:"sameAsSystemLocale"`
	WindowsUILanguage  string `json:"windowsUILanguage"`
	KeyboardLayout     string `json:"keyboardLayout"`
	TimeZone           string `json:"timeZone"`
}

// BypassConfig holds the Windows 11 hardware requirement bypass flags.
type BypassConfig struct {
	Expanded         bool `json:"expanded"`
	BypassAll        bool `json:"bypassAll"`
	BypassTPM        bool `json:"bypassTPM"`
	BypassSecureBoot bool `json:"bypassSecureBoot"`
	BypassRAM        bool `json:"bypassRAM"`
	BypassCPU        bool `json:"bypassCPU"`
	BypassDiskSpace  bool `json:"bypassDiskSpace"`
	BypassStorage    bool `json:"bypassStorage"`
}

// Partition is a single entry of the disk layout.
type Partition struct {
	ID     int    `json:"id"`
	Type   string `json:"type"`
	Name   string `json:"name"`
	SizeMB int    `json:"sizeMB"`
	Active bool   `json:"active"`
	Format bool   `json:"format"`
	Letter string `json:"letter"`
}

// DiskConfig holds the partition layout. MinEntries and MaxEntries bound the
// number of partitions the UI lets the user create; they are not enforced on load.
type DiskConfig struct {
	Expanded                bool        `json:"expanded"`
	MinEntries              int         `json:"minEntries"`
	MaxEntries              int         `json:"maxEntries"`
	EnableDiskConfiguration bool        `json:"enableDiskConfiguration"`
	PartitionLayout         string      `json:"partitionLayout"`
	Partitions              []Partition `json:"partitions"`
}

// WithinBounds reports whether the partition count is inside [MinEntries, MaxEntries].
func (c *DiskConfig) WithinBounds() bool {
	return withinBounds(len(c.Partitions), c.MinEntries, c.MaxEntries)
}

func (c *DiskConfig) clone() *DiskConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Partitions != nil {
		out.Partitions = append([]Partition(nil), c.Partitions...)
	}
	return &out
}

// Account is a single local account entry.
type Account struct {
	ID          int    `json:"id"`
	Type        string `json:"type"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	AutoLogin   bool   `json:"autoLogin"`
}

// AccountConfig holds the local accounts to create.
type AccountConfig struct {
	Expanded                   bool      `json:"expanded"`
	MinEntries                 int       `json:"minEntries"`
	MaxEntries                 int       `json:"maxEntries"`
	EnableLocalAccountCreation bool      `json:"enableLocalAccountCreation"`
	Accounts                   []Account `json:"accounts"`
}

// WithinBounds reports whether the account count is inside [MinEntries, MaxEntries].
func (c *AccountConfig) WithinBounds() bool {
	return withinBounds(len(c.Accounts), c.MinEntries, c.MaxEntries)
}

func (c *AccountConfig) clone() *AccountConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Accounts != nil {
		out.Accounts = append([]Account(nil), c.Accounts...)
	}
	return &out
}

// OOBEConfig holds the out-of-box-experience skip flags.
type OOBEConfig struct {
	Expanded          bool `json:"expanded"`
	SkipAndHideAll    bool `json:"skipAndHideAll"`
	SkipEULAs         bool `json:"skipEULAs"`
	SkipLocalAccount  bool `json:"skipLocalAccount"`
	SkipOnlineAccount bool `json:"skipOnlineAccount"`
	SkipWirelessSetup bool `json:"skipWirelessSetup"`
	SkipMachineOOBE   bool `json:"skipMachineOOBE"`
	SkipUserOOBE      bool `json:"skipUserOOBE"`
}

type BitLockerConfig struct {
	Expanded         bool `json:"expanded"`
	DisableBitLocker bool `json:"disableBitLocker"`
}

type PersonalizeConfig struct {
	Expanded     bool   `json:"expanded"`
	ComputerName string `json:"computerName"`
}

type AppConfig struct {
	Expanded bool `json:"expanded"`
}

// Sections groups one optional sub-document per configuration section. It is
// the shape shared by settings, presets and defaults.
type Sections struct {
	General     *GeneralConfig
	LangRegion  *LangRegionConfig
	Bypass      *BypassConfig
	Disk        *DiskConfig
	Account     *AccountConfig
	OOBE        *OOBEConfig
	BitLocker   *BitLockerConfig
	Personalize *PersonalizeConfig
	App         *AppConfig
}

// Clone returns a deep copy.
func (s Sections) Clone() Sections {
	return Sections{
		General:     clonePtr(s.General),
		LangRegion:  clonePtr(s.LangRegion),
		Bypass:      clonePtr(s.Bypass),
		Disk:        s.Disk.clone(),
		Account:     s.Account.clone(),
		OOBE:        clonePtr(s.OOBE),
		BitLocker:   clonePtr(s.BitLocker),
		Personalize: clonePtr(s.Personalize),
		App:         clonePtr(s.App),
	}
}

// Overlay returns base with every non-nil section of s copied over it.
func (s Sections) Overlay(base Sections) Sections {
	out := base.Clone()
	src := s.Clone()
	if src.General != nil {
		out.General = src.General
	}
	if src.LangRegion != nil {
		out.LangRegion = src.LangRegion
	}
	if src.Bypass != nil {
		out.Bypass = src.Bypass
	}
	if src.Disk != nil {
		out.Disk = src.Disk
	}
	if src.Account != nil {
		out.Account = src.Account
	}
	if src.OOBE != nil {
		out.OOBE = src.OOBE
	}
	if src.BitLocker != nil {
		out.BitLocker = src.BitLocker
	}
	if src.Personalize != nil {
		out.Personalize = src.Personalize
	}
	if src.App != nil {
		out.App = src.App
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func withinBounds(n, lo, hi int) bool {
	if n < lo {
		return false
	}
	return hi <= 0 || n <= hi
}
