// Package timer 实现分类计时器的启动、停止与按时长结算。
package timer

import (
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

// MinimumElapsed 是获得任何收益所需的最短计时。
const MinimumElapsed = time.Minute

// Resolve 计算计时器在 now 时刻停止应得的星辉。
// 按整分钟计算 floor(分钟数 × Reward / EveryMinutes)，不足一分钟或时间倒流时为0。
func Resolve(t ledger.Timer, now time.Time, rate economy.TimerRate) uint64 {
	elapsed := now.Sub(t.Started)
	if elapsed < MinimumElapsed || rate.EveryMinutes == 0 {
		return 0
	}
	minutes := uint64(elapsed / time.Minute)
	return minutes * rate.Reward / rate.EveryMinutes
}
