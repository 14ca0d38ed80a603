package metadata

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "meta.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestGetMissingKey(t *testing.T) {
	db := openTestDB(t)
	v, err := GetValue(db, "nope")
	if err != nil || v != "" {
		t.Fatalf("GetValue = %q, %v", v, err)
	}
}

func TestSetValueUpserts(t *testing.T) {
	db := openTestDB(t)
	if err := SetPolicyVersion(db, "1"); err != nil {
		t.Fatal(err)
	}
	if err := SetPolicyVersion(db, "2"); err != nil {
		t.Fatal(err)
	}
	v, err := PolicyVersion(db)
	if err != nil || v != "2" {
		t.Fatalf("PolicyVersion = %q, %v", v, err)
	}

	var count int64
	db.Model(&Metadata{}).Where("key = ?", PolicyVersionKey).Count(&count)
	if count != 1 {
		t.Fatalf("rows = %d", count)
	}
}

func TestDefaultUserSeeded(t *testing.T) {
	db := openTestDB(t)
	if id, _ := DefaultUserSeeded(db); id != "" {
		t.Fatalf("fresh db seeded = %q", id)
	}
	if err := MarkDefaultUserSeeded(db, "axol999"); err != nil {
		t.Fatal(err)
	}
	if id, _ := DefaultUserSeeded(db); id != "axol999" {
		t.Fatalf("seeded = %q", id)
	}
}
