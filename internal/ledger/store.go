package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 是账本的持久化接口，整份账本作为一个不透明的数据块按用户ID存取。
type Store interface {
	Load(ctx context.Context, id string) (*Ledger, error)
	Save(ctx context.Context, l *Ledger) error
	Create(ctx context.Context, l *Ledger) error
}

// LedgerRecord 是账本在数据库中的持久化模型。
type LedgerRecord struct {
	UserID    string `gorm:"primarykey;type:varchar(64)"`
	Data      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (LedgerRecord) TableName() string { return "ledgers" }

// GormStore 是基于GORM的 Store 实现，SQLite 与 PostgreSQL 均可使用。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建一个新的 GormStore。
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate 自动迁移账本表结构
func (s *GormStore) Migrate() error {
	if err := s.db.AutoMigrate(&LedgerRecord{}); err != nil {
		return fmt.Errorf("无法迁移ledgers表: %w", err)
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context, id string) (*Ledger, error) {
	var rec LedgerRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: 读取账本 %s 失败: %v", ErrStorageFailure, id, err)
	}

	var l Ledger
	if err := json.Unmarshal([]byte(rec.Data), &l); err != nil {
		return nil, fmt.Errorf("%w: 无法解析账本 %s: %v", ErrStorageFailure, id, err)
	}
	if l.Vouchers == nil {
		l.Vouchers = []Voucher{}
	}
	return &l, nil
}

func (s *GormStore) Save(ctx context.Context, l *Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("%w: 无法序列化账本 %s: %v", ErrStorageFailure, l.ID, err)
	}
	rec := LedgerRecord{UserID: l.ID, Data: string(data)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("%w: 写入账本 %s 失败: %v", ErrStorageFailure, l.ID, err)
	}
	return nil
}

// Create 插入一份新账本，若ID已存在则返回 ErrAlreadyExists。
func (s *GormStore) Create(ctx context.Context, l *Ledger) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("%w: 无法序列化账本 %s: %v", ErrStorageFailure, l.ID, err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&LedgerRecord{}).Where("user_id = ?", l.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, l.ID)
		}
		if err := tx.Create(&LedgerRecord{UserID: l.ID, Data: string(data)}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrAlreadyExists, l.ID)
			}
			return fmt.Errorf("%w: 创建账本 %s 失败: %v", ErrStorageFailure, l.ID, err)
		}
		return nil
	})
}

// IDs 返回所有账本的用户ID，用于重建缓存。
func (s *GormStore) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&LedgerRecord{}).Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("无法读取账本ID列表: %w", err)
	}
	return ids, nil
}
