package daily

import (
	"context"
	"strconv"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/metrics"
	"github.com/rs/zerolog/log"
)

// Result 是每日任务操作的结果。
type Result struct {
	Slots      [ledger.DailySlots]ledger.DailySlot `json:"dailies"`
	Rewards    []Reward                            `json:"rewards"`
	TodaysFlux uint64                              `json:"todays_flux"`
}

// Service 负责每日任务的领取与查询。
type Service struct {
	coord  *ledger.Coordinator
	policy *economy.Holder
	now    func() time.Time
}

// NewService 创建每日任务服务。now 为 nil 时使用 time.Now。
func NewService(coord *ledger.Coordinator, policy *economy.Holder, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{coord: coord, policy: policy, now: now}
}

// Info 刷新并保存槽位状态，不发放任何奖励。
func (s *Service) Info(ctx context.Context, userID string) (Result, error) {
	p := s.policy.Current().Dailies
	l, err := s.coord.Mutate(ctx, userID, func(l *ledger.Ledger) error {
		Refresh(l, s.now(), p)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Slots: l.Dailies, Rewards: []Reward{}, TodaysFlux: l.TodaysFlux}, nil
}

// Claim 领取指定槽位。
func (s *Service) Claim(ctx context.Context, userID string, slot int) (Result, error) {
	p := s.policy.Current().Dailies
	var rewards []Reward
	l, err := s.coord.Mutate(ctx, userID, func(l *ledger.Ledger) error {
		var err error
		rewards, err = Claim(l, slot, s.now(), p)
		return err
	})
	if err != nil {
		if ledger.IsRejection(err) {
			log.Debug().Err(err).Str("user", userID).Int("slot", slot).Msg("每日任务领取被拒绝")
		}
		return Result{}, err
	}
	metrics.DailyClaims.WithLabelValues(strconv.Itoa(slot)).Inc()
	return Result{Slots: l.Dailies, Rewards: rewards, TodaysFlux: l.TodaysFlux}, nil
}
