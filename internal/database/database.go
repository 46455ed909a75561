package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"quickwinstall/internal/models"
)

// DefaultHistoryLimit is the number of revisions kept when Prune is called
// with a non-positive limit.
const DefaultHistoryLimit = 20

// ErrRevisionNotFound is returned by Get for an unknown revision id.
var ErrRevisionNotFound = errors.New("settings revision not found")

// Database is the settings revision journal.
type Database struct {
	db *gorm.DB
}

// NewDatabase opens (or creates) the journal at dbPath. ":memory:" is
// accepted for tests.
func NewDatabase(dbPath string) (*Database, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", dbPath, err)
	}

	// sqlite allows a single writer; a shared in-memory database also needs
	// every query on the same connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.SettingsRevision{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	return &Database{db: db}, nil
}

// Record appends a snapshot of doc to the journal.
func (d *Database) Record(doc *models.SettingsDocument) (*models.SettingsRevision, error) {
	rev := &models.SettingsRevision{}
	if err := rev.SetDocument(doc); err != nil {
		return nil, err
	}
	if !doc.LastModified.IsZero() {
		rev.CreatedAt = doc.LastModified
	}

	if err := d.db.Create(rev).Error; err != nil {
		return nil, err
	}
	return rev, nil
}

// Prune deletes all but the newest keep revisions.
func (d *Database) Prune(keep int) error {
	if keep <= 0 {
		keep = DefaultHistoryLimit
	}

	var ids []uint
	err := d.db.Model(&models.SettingsRevision{}).
		Order("id DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) <= keep {
		return nil
	}

	stale := ids[keep:]
	return d.db.Delete(&models.SettingsRevision{}, stale).Error
}

// List returns up to limit revisions, newest first. A non-positive limit
// returns every revision.
func (d *Database) List(limit int) ([]models.SettingsRevision, error) {
	var revs []models.SettingsRevision

	q := d.db.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&revs).Error; err != nil {
		return nil, err
	}
	return revs, nil
}

// Get returns a single revision.
func (d *Database) Get(id uint) (*models.SettingsRevision, error) {
	var rev models.SettingsRevision

	if err := d.db.First(&rev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevisionNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// Close releases the underlying connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
