package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/metrics"
	"github.com/rs/zerolog/log"
)

// Service 负责计时器的状态变更。
type Service struct {
	coord  *ledger.Coordinator
	policy *economy.Holder
	now    func() time.Time
}

// NewService 创建计时器服务。now 为 nil 时使用 time.Now。
func NewService(coord *ledger.Coordinator, policy *economy.Holder, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{coord: coord, policy: policy, now: now}
}

// StartResult 是启动计时器的结果。
// Accepted 为 false 时表示已有计时器在运行，Category 是该计时器的类别。
type StartResult struct {
	Accepted bool                 `json:"accepted"`
	Category ledger.TimerCategory `json:"category"`
	Started  time.Time            `json:"started"`
}

// StopResult 是停止计时器的结果。
type StopResult struct {
	HadTimer bool                 `json:"had_timer"`
	Category ledger.TimerCategory `json:"category,omitempty"`
	Payout   uint64               `json:"payout"`
	Elapsed  time.Duration        `json:"elapsed"`
}

// Start 启动一个计时器。已有计时器时不做任何修改。
func (s *Service) Start(ctx context.Context, userID string, category ledger.TimerCategory) (StartResult, error) {
	if _, ok := s.policy.Current().Timers[category]; !ok {
		return StartResult{}, fmt.Errorf("%w: 未知的计时器类别 %q", ledger.ErrInvalidRequest, category)
	}

	g, err := s.coord.Acquire(ctx, userID)
	if err != nil {
		return StartResult{}, err
	}
	defer g.Release()

	l := g.Ledger
	if l.Timer != nil {
		return StartResult{Accepted: false, Category: l.Timer.Category, Started: l.Timer.Started}, nil
	}

	l.Timer = &ledger.Timer{Category: category, Started: s.now().UTC()}
	if err := g.Commit(ctx); err != nil {
		return StartResult{}, err
	}
	log.Debug().Str("user", userID).Str("category", string(category)).Msg("计时器已启动")
	return StartResult{Accepted: true, Category: category, Started: l.Timer.Started}, nil
}

// Stop 停止当前计时器并发放收益。没有计时器时返回 HadTimer=false。
func (s *Service) Stop(ctx context.Context, userID string) (StopResult, error) {
	g, err := s.coord.Acquire(ctx, userID)
	if err != nil {
		return StopResult{}, err
	}
	defer g.Release()

	l := g.Ledger
	if l.Timer == nil {
		return StopResult{}, nil
	}

	active := *l.Timer
	now := s.now()
	rate := s.policy.Current().Timers[active.Category]
	payout := Resolve(active, now, rate)

	l.Timer = nil
	l.CreditAstrum(payout)
	if err := g.Commit(ctx); err != nil {
		return StopResult{}, err
	}

	metrics.TimerPayout.WithLabelValues(string(active.Category)).Add(float64(payout))
	log.Debug().Str("user", userID).Str("category", string(active.Category)).Uint64("payout", payout).Msg("计时器已停止")
	return StopResult{
		HadTimer: true,
		Category: active.Category,
		Payout:   payout,
		Elapsed:  now.Sub(active.Started),
	}, nil
}

// Status 返回当前计时器，没有时返回 nil。
func (s *Service) Status(ctx context.Context, userID string) (*ledger.Timer, error) {
	l, err := s.coord.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	return l.Timer, nil
}
