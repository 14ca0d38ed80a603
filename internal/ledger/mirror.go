package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// FundsKeyPrefix 是余额镜像的Redis键前缀。
// Key: funds:<user id>  (Hash)
// Field: astrum / astrai / flux
const FundsKeyPrefix = "funds:"

// FundsMirror 在账本每次成功保存后同步一份余额快照，供只读查询使用。
type FundsMirror interface {
	Publish(ctx context.Context, l *Ledger) error
	Lookup(ctx context.Context, id string) (Funds, bool, error)
	Forget(ctx context.Context, id string) error
	Reset(ctx context.Context) error
}

// RedisMirror 是基于Redis Hash的 FundsMirror 实现。
type RedisMirror struct {
	rdb *redis.Client
}

// NewRedisMirror 创建一个新的Redis镜像。
func NewRedisMirror(rdb *redis.Client) *RedisMirror {
	return &RedisMirror{rdb: rdb}
}

func fundsKey(id string) string { return FundsKeyPrefix + id }

func (m *RedisMirror) Publish(ctx context.Context, l *Ledger) error {
	err := m.rdb.HSet(ctx, fundsKey(l.ID),
		"astrum", l.Astrum,
		"astrai", l.Astrai,
		"flux", l.Flux,
	).Err()
	if err != nil {
		return fmt.Errorf("无法同步余额镜像 %s: %w", l.ID, err)
	}
	return nil
}

func (m *RedisMirror) Lookup(ctx context.Context, id string) (Funds, bool, error) {
	vals, err := m.rdb.HGetAll(ctx, fundsKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Funds{}, false, nil
		}
		return Funds{}, false, fmt.Errorf("无法读取余额镜像 %s: %w", id, err)
	}
	if len(vals) == 0 {
		return Funds{}, false, nil
	}

	var f Funds
	if f.Astrum, err = strconv.ParseUint(vals["astrum"], 10, 64); err != nil {
		return Funds{}, false, fmt.Errorf("余额镜像 %s 的astrum字段损坏: %w", id, err)
	}
	if f.Astrai, err = strconv.ParseUint(vals["astrai"], 10, 64); err != nil {
		return Funds{}, false, fmt.Errorf("余额镜像 %s 的astrai字段损坏: %w", id, err)
	}
	if f.Flux, err = strconv.ParseInt(vals["flux"], 10, 64); err != nil {
		return Funds{}, false, fmt.Errorf("余额镜像 %s 的flux字段损坏: %w", id, err)
	}
	return f, true, nil
}

// Forget 删除单个用户的镜像。
func (m *RedisMirror) Forget(ctx context.Context, id string) error {
	if err := m.rdb.Del(ctx, fundsKey(id)).Err(); err != nil {
		return fmt.Errorf("无法删除余额镜像 %s: %w", id, err)
	}
	return nil
}

// Reset 删除所有余额镜像。Redis重启后由健康检查调用。
func (m *RedisMirror) Reset(ctx context.Context) error {
	iter := m.rdb.Scan(ctx, 0, FundsKeyPrefix+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("无法扫描余额镜像: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := m.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("无法清除余额镜像: %w", err)
	}
	return nil
}
