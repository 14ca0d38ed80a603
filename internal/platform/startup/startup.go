package startup

import (
	"context"
	"fmt"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/config"
	"github.com/SlpAus/life-gacha-backend/internal/platform/metadata"
	"github.com/SlpAus/life-gacha-backend/internal/user"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migrate 创建所有持久化表
func Migrate(db *gorm.DB) error {
	if err := metadata.Migrate(db); err != nil {
		return err
	}
	if err := ledger.NewGormStore(db).Migrate(); err != nil {
		return fmt.Errorf("无法迁移ledgers表: %w", err)
	}
	return nil
}

// SeedDefaultUser 在首次启动时创建默认用户。
// 元数据中记录过之后不再尝试，即使该用户后来被删除。
func SeedDefaultUser(ctx context.Context, db *gorm.DB, users *user.Service, seed config.SeedConfig) error {
	if seed.UserID == "" {
		return nil
	}
	seeded, err := metadata.DefaultUserSeeded(db)
	if err != nil {
		return fmt.Errorf("读取默认用户元数据失败: %w", err)
	}
	if seeded != "" {
		log.Debug().Str("user", seeded).Msg("默认用户已创建过，跳过")
		return nil
	}

	created, err := users.EnsureUser(ctx, seed.UserID, seed.Username)
	if err != nil {
		return fmt.Errorf("创建默认用户失败: %w", err)
	}
	if created {
		log.Info().Str("user", seed.UserID).Msg("已创建默认用户")
	}
	return metadata.MarkDefaultUserSeeded(db, seed.UserID)
}

// InitializeApplication 是应用启动时执行的总入口
func InitializeApplication(ctx context.Context, db *gorm.DB, users *user.Service, seed config.SeedConfig, policyVersion string) error {
	log.Info().Msg("开始应用初始化...")

	if err := Migrate(db); err != nil {
		return err
	}
	if err := SeedDefaultUser(ctx, db, users, seed); err != nil {
		return err
	}

	previous, err := metadata.PolicyVersion(db)
	if err != nil {
		return err
	}
	if previous != policyVersion {
		log.Info().Str("from", previous).Str("to", policyVersion).Msg("经济策略版本已变化")
		if err := metadata.SetPolicyVersion(db, policyVersion); err != nil {
			return err
		}
	}

	log.Info().Msg("应用初始化完成！")
	return nil
}
