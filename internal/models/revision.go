package models

import (
	"encoding/json"
	"time"
)

// SettingsRevision is one saved version of the settings document, kept in the
// settings journal database.
type SettingsRevision struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Lang         string    `gorm:"size:32" json:"lang"`
	Theme        string    `gorm:"size:64" json:"theme"`
	DocumentJSON string    `gorm:"type:text" json:"document_json"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// Document parses the stored settings document. A blank or corrupt blob
// yields the first-run defaults.
func (r *SettingsRevision) Document() *SettingsDocument {
	if r.DocumentJSON == "" {
		return NewSettingsDocument(nil, "")
	}

	var doc SettingsDocument
	if err := json.Unmarshal([]byte(r.DocumentJSON), &doc); err != nil {
		return NewSettingsDocument(nil, "")
	}

	return &doc
}

// SetDocument stores doc as the revision payload.
func (r *SettingsRevision) SetDocument(doc *SettingsDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	r.DocumentJSON = string(data)
	r.Lang = doc.Lang
	r.Theme = doc.Theme
	return nil
}
