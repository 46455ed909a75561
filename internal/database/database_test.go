package database

import (
	"errors"
	"testing"

	"quickwinstall/internal/models"
)

func setupTestDB(t *testing.T) *Database {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndList(t *testing.T) {
	db := setupTestDB(t)

	for _, theme := range []string{"Light", "Dark", "Light"} {
		doc := models.NewSettingsDocument(nil, "")
		doc.Theme = theme
		if _, err := db.Record(doc); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	revs, err := db.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("Expected 2 revisions, got %d", len(revs))
	}
	if revs[0].ID < revs[1].ID {
		t.Error("Expected newest revision first")
	}
	if revs[1].Theme != "Dark" {
		t.Errorf("Expected second newest theme Dark, got %s", revs[1].Theme)
	}
}

func TestPrune(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 5; i++ {
		if _, err := db.Record(models.NewSettingsDocument(nil, "")); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	if err := db.Prune(3); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}

	revs, err := db.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(revs) != 3 {
		t.Fatalf("Expected 3 revisions after prune, got %d", len(revs))
	}
	if revs[len(revs)-1].ID != 3 {
		t.Errorf("Expected oldest kept revision id 3, got %d", revs[len(revs)-1].ID)
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	doc := models.NewSettingsDocument(nil, "/saves")
	rev, err := db.Record(doc)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := db.Get(rev.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Document().SavePath != "/saves" {
		t.Errorf("Expected savePath /saves, got %q", got.Document().SavePath)
	}

	if _, err := db.Get(999); !errors.Is(err, ErrRevisionNotFound) {
		t.Errorf("Expected ErrRevisionNotFound, got %v", err)
	}
}
