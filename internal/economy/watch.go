package economy

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/platform/metrics"
	"github.com/SlpAus/life-gacha-backend/pkg/lifecycle"
	"github.com/rs/zerolog/log"
)

// Holder 持有当前生效的策略，可被并发读取并整体替换。
type Holder struct {
	current atomic.Pointer[Policy]
}

// NewHolder 创建一个持有 p 的 Holder，p 必须已经通过校验。
func NewHolder(p *Policy) *Holder {
	h := &Holder{}
	h.current.Store(p)
	return h
}

// Current 返回当前策略。返回值不可修改。
func (h *Holder) Current() *Policy {
	return h.current.Load()
}

// Replace 替换当前策略。
func (h *Holder) Replace(p *Policy) {
	h.current.Store(p)
}

// Watcher 轮询策略文件的修改时间，文件变化时重新加载。
// 新文件未通过校验时保留旧策略。
type Watcher struct {
	path     string
	interval time.Duration
	holder   *Holder
	lastMod  time.Time
}

// NewWatcher 创建一个新的策略文件监视器。
func NewWatcher(path string, interval time.Duration, holder *Holder) *Watcher {
	w := &Watcher{path: path, interval: interval, holder: holder}
	if fi, err := os.Stat(path); err == nil {
		w.lastMod = fi.ModTime()
	}
	return w
}

// Run 在生命周期句柄被取消之前持续轮询。
func (w *Watcher) Run(h *lifecycle.Handle) {
	log.Info().Str("path", w.path).Dur("interval", w.interval).Msg("经济策略监视器已启动")
	h.Every(w.interval, func(context.Context) {
		if _, err := w.Check(); err != nil {
			log.Error().Err(err).Str("path", w.path).Msg("经济策略热重载失败，继续使用旧策略")
		}
	})
	log.Info().Msg("经济策略监视器已停止")
}

// Check 检查一次文件，文件发生变化并成功加载时返回 true。
func (w *Watcher) Check() (bool, error) {
	fi, err := os.Stat(w.path)
	if err != nil {
		// 文件被删除时保留当前策略
		return false, nil
	}
	if !fi.ModTime().After(w.lastMod) {
		return false, nil
	}
	w.lastMod = fi.ModTime()

	p, err := Load(w.path)
	if err != nil {
		metrics.PolicyReloads.WithLabelValues("failed").Inc()
		return false, fmt.Errorf("重新加载 %s: %w", w.path, err)
	}
	w.holder.Replace(p)
	metrics.PolicyReloads.WithLabelValues("ok").Inc()
	log.Info().Str("version", p.Version).Msg("经济策略已重新加载")
	return true, nil
}
