package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/SlpAus/life-gacha-backend/pkg/lifecycle"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	CheckInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// RunIDFunc 返回Redis服务器当前的 run_id。
type RunIDFunc func(ctx context.Context) (string, error)

// RedisRunID 从Redis服务器信息中提取run_id
func RedisRunID(rdb *redis.Client) RunIDFunc {
	return func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		info, err := rdb.Info(ctx, "server").Result()
		if err != nil {
			return "", err
		}
		matches := runIDPattern.FindStringSubmatch(info)
		if len(matches) < 2 {
			return "", fmt.Errorf("无法在Redis INFO中找到run_id")
		}
		return matches[1], nil
	}
}

// Checker 周期性地检查Redis，在重启或恢复后清空余额镜像。
type Checker struct {
	runID   RunIDFunc
	rebuild func(ctx context.Context) error
	tracker *Tracker
}

// NewChecker 创建检查器。rebuild 通常是 Coordinator.ResetMirror。
func NewChecker(runID RunIDFunc, rebuild func(ctx context.Context) error, tracker *Tracker) *Checker {
	return &Checker{runID: runID, rebuild: rebuild, tracker: tracker}
}

// InitializeRunID 在应用启动时执行一次，获取初始的run_id并清空可能残留的镜像。
func (c *Checker) InitializeRunID(ctx context.Context) error {
	runID, err := c.runID(ctx)
	if err != nil {
		return fmt.Errorf("无法在启动时获取Redis Run ID: %w", err)
	}
	if err := c.rebuild(ctx); err != nil {
		return fmt.Errorf("启动时清空余额镜像失败: %w", err)
	}
	c.tracker.SetInitialRunID(runID)
	log.Info().Str("run_id", runID).Msg("获取初始Redis Run ID成功")
	return nil
}

// PerformCheck 执行一次完整的健康检查和可能的修复操作。
func (c *Checker) PerformCheck(ctx context.Context) {
	runID, err := c.runID(ctx)
	if !c.tracker.Assess(err == nil, runID) {
		return
	}

	if err := c.rebuild(ctx); err != nil {
		log.Error().Err(err).Msg("健康检查错误: 清空余额镜像失败")
		c.tracker.MarkRebuildComplete(false, "")
		return
	}
	after, err := c.runID(ctx)
	if err != nil {
		c.tracker.MarkRebuildComplete(false, "")
		return
	}
	c.tracker.MarkRebuildComplete(true, after)
}

// Run 以阻塞方式运行检查循环，直到生命周期句柄被取消。
// 每次检查使用 work 作为上下文，停机第一阶段不会打断进行中的重建。
func (c *Checker) Run(h *lifecycle.Handle, work context.Context) {
	log.Info().Dur("interval", CheckInterval).Msg("Redis健康检查器已启动")
	h.Every(CheckInterval, func(context.Context) { c.PerformCheck(work) })
}
