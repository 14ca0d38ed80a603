package health

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// State 定义了余额镜像健康状态的枚举类型
type State int

const (
	StateHealthy State = iota
	StateDegraded
	StateRebuilding
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateRebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// Tracker 负责线程安全地管理Redis镜像的健康状态。
type Tracker struct {
	mu             sync.RWMutex
	currentState   State
	lastKnownRunID string
}

func NewTracker() *Tracker {
	return &Tracker{currentState: StateHealthy}
}

// State 返回当前状态。
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentState
}

// Healthy 只有在 StateHealthy 时返回true，镜像读写以此为准。
func (t *Tracker) Healthy() bool {
	return t.State() == StateHealthy
}

// SetInitialRunID 在应用启动时调用，用于设置初始的Redis run_id。
func (t *Tracker) SetInitialRunID(runID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastKnownRunID = runID
}

// Assess 根据一次检查的结果推进状态，返回是否需要重建镜像。
func (t *Tracker) Assess(connected bool, runID string) (needsRebuild bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	restarted := t.lastKnownRunID != "" && t.lastKnownRunID != runID

	switch t.currentState {
	case StateHealthy:
		if !connected {
			t.currentState = StateDegraded
			log.Warn().Msg("健康检查: Redis连接丢失，系统状态 -> [降级]")
		} else if restarted {
			t.currentState = StateRebuilding
			needsRebuild = true
			log.Warn().Str("from", t.lastKnownRunID).Str("to", runID).Msg("健康检查: 检测到Redis重启，系统状态 -> [重建中]")
		}
	case StateDegraded:
		if connected {
			// 降级期间的写入都没有进入镜像，恢复后一律重建
			t.currentState = StateRebuilding
			needsRebuild = true
			log.Info().Bool("restarted", restarted).Msg("健康检查: Redis连接已恢复，系统状态 -> [重建中]")
		}
	case StateRebuilding:
		if !connected {
			t.currentState = StateDegraded
			log.Warn().Msg("健康检查: 重建期间Redis连接再次丢失，系统状态 -> [降级]")
		} else {
			// 仍处于重建状态，说明上次重建失败了
			needsRebuild = true
			log.Info().Msg("健康检查: 将再次尝试重建余额镜像")
		}
	}

	if connected {
		t.lastKnownRunID = runID
	}
	return needsRebuild
}

// MarkRebuildComplete 在一次重建尝试之后调用。
func (t *Tracker) MarkRebuildComplete(success bool, runIDAfterRebuild string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.currentState != StateRebuilding {
		return
	}
	if success && t.lastKnownRunID != runIDAfterRebuild {
		log.Error().Str("from", t.lastKnownRunID).Str("to", runIDAfterRebuild).Msg("健康检查错误: 重建期间检测到Redis再次重启，保持[重建中]状态")
		t.lastKnownRunID = runIDAfterRebuild
		return
	}
	if success {
		t.currentState = StateHealthy
		log.Info().Msg("健康检查: 余额镜像重建成功，系统状态 -> [健康]")
	} else {
		log.Error().Msg("健康检查错误: 余额镜像重建失败，保持 [重建中] 以待重试")
	}
}
