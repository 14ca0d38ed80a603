package startup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/config"
	"github.com/SlpAus/life-gacha-backend/internal/platform/metadata"
	"github.com/SlpAus/life-gacha-backend/internal/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T) (*gorm.DB, *ledger.GormStore, *user.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "app.db")), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	p := economy.DefaultPolicy()
	if err := economy.Validate(p); err != nil {
		t.Fatal(err)
	}
	store := ledger.NewGormStore(db)
	return db, store, user.NewService(ledger.NewCoordinator(store), economy.NewHolder(p))
}

func TestInitializeSeedsOnce(t *testing.T) {
	db, store, users := setup(t)
	ctx := context.Background()
	seed := config.SeedConfig{UserID: "axol999", Username: "Axol"}

	if err := InitializeApplication(ctx, db, users, seed, "1"); err != nil {
		t.Fatal(err)
	}
	l, err := store.Load(ctx, "axol999")
	if err != nil {
		t.Fatal(err)
	}
	if l.Astrum != 1600 {
		t.Fatalf("astrum = %d", l.Astrum)
	}

	// 已记录过的默认用户不会被重新创建
	if err := db.Where("user_id = ?", "axol999").Delete(&ledger.LedgerRecord{}).Error; err != nil {
		t.Fatal(err)
	}
	if err := InitializeApplication(ctx, db, users, seed, "2"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "axol999"); err == nil {
		t.Fatal("seed user should not be recreated")
	}
	if v, _ := metadata.PolicyVersion(db); v != "2" {
		t.Fatalf("policy version = %q", v)
	}
}

func TestSeedAdoptsExistingUser(t *testing.T) {
	db, _, users := setup(t)
	ctx := context.Background()
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	if _, err := users.Register(ctx, user.RegisterInput{ID: "axol999", Username: "Axol"}); err != nil {
		t.Fatal(err)
	}
	if err := SeedDefaultUser(ctx, db, users, config.SeedConfig{UserID: "axol999"}); err != nil {
		t.Fatal(err)
	}
	if id, _ := metadata.DefaultUserSeeded(db); id != "axol999" {
		t.Fatalf("seeded = %q", id)
	}
}
