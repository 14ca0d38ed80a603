package metadata

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate 创建或更新 metadata 表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	return nil
}

// GetValue 读取一个键的值，键不存在时返回空字符串。
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue 插入或更新一个键的值。
func SetValue(db *gorm.DB, key, value string) error {
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}

// DefaultUserSeeded 返回已创建的默认用户ID，尚未创建时为空。
func DefaultUserSeeded(db *gorm.DB) (string, error) {
	return GetValue(db, DefaultUserSeededKey)
}

func MarkDefaultUserSeeded(db *gorm.DB, userID string) error {
	return SetValue(db, DefaultUserSeededKey, userID)
}

func PolicyVersion(db *gorm.DB) (string, error) {
	return GetValue(db, PolicyVersionKey)
}

func SetPolicyVersion(db *gorm.DB, version string) error {
	return SetValue(db, PolicyVersionKey, version)
}
