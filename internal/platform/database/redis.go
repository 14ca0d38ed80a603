package database

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// OpenRedis 初始化与Redis的连接。未配置地址时返回 nil，余额镜像随之关闭。
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		log.Info().Msg("未配置Redis，余额镜像已禁用")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("无法连接到Redis: %w", err)
	}

	log.Info().Str("address", cfg.Address).Msg("Redis 连接成功")
	return rdb, nil
}
