// Package daily 实现每日任务的周期边界计算与领取状态机。
package daily

import (
	"fmt"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

// CycleBoundary 返回 now 所在周期的起点：不晚于 now 的最近一个 UTC cutoffHour:00。
func CycleBoundary(now time.Time, cutoffHour int) time.Time {
	u := now.UTC()
	b := time.Date(u.Year(), u.Month(), u.Day(), cutoffHour, 0, 0, 0, time.UTC)
	if u.Before(b) {
		b = b.AddDate(0, 0, -1)
	}
	return b
}

// Reward 是一笔已发放的奖励。
type Reward struct {
	Type   string `json:"reward_type"`
	Amount int64  `json:"amount"`
	Source string `json:"source"`
}

func applyGrant(l *ledger.Ledger, g economy.Grant) []Reward {
	var out []Reward
	if g.Astrai > 0 {
		l.Astrai += g.Astrai
		out = append(out, Reward{Type: "Astrai", Amount: int64(g.Astrai), Source: g.Name})
	}
	if g.Astrum > 0 {
		l.CreditAstrum(g.Astrum)
		out = append(out, Reward{Type: "Astrum", Amount: int64(g.Astrum), Source: g.Name})
	}
	if g.Flux > 0 {
		l.CreditFlux(g.Flux)
		out = append(out, Reward{Type: "Flux", Amount: g.Flux, Source: g.Name})
	}
	return out
}

// syncSpend 在进入新周期时清空消费累计。
func syncSpend(l *ledger.Ledger, boundary time.Time) {
	if l.TodaysFluxCycle != boundary.Unix() {
		l.TodaysFlux = 0
		l.TodaysFluxCycle = boundary.Unix()
	}
}

// RecordSpend 记录一笔消费，用于解锁消费门槛槽位。
func RecordSpend(l *ledger.Ledger, amount uint64, now time.Time, cutoffHour int) {
	syncSpend(l, CycleBoundary(now, cutoffHour))
	l.TodaysFlux += amount
}

func claimedIn(s ledger.DailySlot, boundary time.Time) bool {
	return s.LastClaimed >= boundary.Unix()
}

// Refresh 根据当前周期重新计算所有槽位的 claimable / claimed 标记。
func Refresh(l *ledger.Ledger, now time.Time, p economy.DailyPolicy) {
	boundary := CycleBoundary(now, p.CutoffHour)
	syncSpend(l, boundary)
	for i := range l.Dailies {
		s := &l.Dailies[i]
		s.ID = uint8(i)
		if claimedIn(*s, boundary) {
			s.Claimed = true
			s.Claimable = false
			continue
		}
		s.Claimed = false
		s.Claimable = i != ledger.SpendSlot || l.TodaysFlux >= p.SpendThreshold
	}
}

// Claim 领取一个槽位并发放奖励。
// 领取后若本周期四个槽位全部完成，再额外发放全勤奖励。
func Claim(l *ledger.Ledger, slot int, now time.Time, p economy.DailyPolicy) ([]Reward, error) {
	if slot < 0 || slot >= ledger.DailySlots {
		return nil, fmt.Errorf("%w: 槽位 %d 不存在", ledger.ErrInvalidRequest, slot)
	}
	boundary := CycleBoundary(now, p.CutoffHour)
	syncSpend(l, boundary)

	if claimedIn(l.Dailies[slot], boundary) {
		return nil, fmt.Errorf("%w: 槽位 %d", ledger.ErrAlreadyClaimed, slot)
	}
	if slot == ledger.SpendSlot && l.TodaysFlux < p.SpendThreshold {
		return nil, fmt.Errorf("%w: 本周期消费 %d，需要 %d", ledger.ErrInsufficientFunds, l.TodaysFlux, p.SpendThreshold)
	}

	rewards := applyGrant(l, p.Slots[slot])
	l.Dailies[slot].LastClaimed = now.Unix()
	if slot == ledger.SpendSlot {
		l.TodaysFlux = 0
	}

	complete := true
	for _, s := range l.Dailies {
		if !claimedIn(s, boundary) {
			complete = false
			break
		}
	}
	if complete {
		rewards = append(rewards, applyGrant(l, p.AllClaimed)...)
	}

	Refresh(l, now, p)
	return rewards, nil
}
