// Package pull 实现单次抽取：判定档位、推进保底计数、结算奖励。
package pull

import (
	"context"
	"errors"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/gacha"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/metrics"
	"github.com/SlpAus/life-gacha-backend/internal/reward"
	"github.com/rs/zerolog/log"
)

// Result 是一次抽取的结果。NoTickets 为 true 时没有发生任何抽取。
type Result struct {
	NoTickets       bool               `json:"no_tickets"`
	Rarity          gacha.Rarity       `json:"rarity"`
	Flux            int64              `json:"flux"`
	Vouchers        []ledger.Voucher   `json:"vouchers"`
	VouchersGranted int                `json:"vouchers_granted"`
	Pity            gacha.PityCounters `json:"pity"`
	Funds           ledger.Funds       `json:"funds"`
}

// Service 负责执行抽取。
type Service struct {
	coord  *ledger.Coordinator
	policy *economy.Holder
	rng    gacha.RandomSource
}

// NewService 创建抽取服务。rng 为 nil 时使用 gacha.DefaultRNG。
func NewService(coord *ledger.Coordinator, policy *economy.Holder, rng gacha.RandomSource) *Service {
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	return &Service{coord: coord, policy: policy, rng: rng}
}

// Pull 为用户执行一次抽取。
// 抽取券与星辉都不足时返回 NoTickets，账本不做任何修改。
func (s *Service) Pull(ctx context.Context, userID string) (Result, error) {
	p := s.policy.Current()

	var res Result
	l, err := s.coord.Mutate(ctx, userID, func(l *ledger.Ledger) error {
		if !reward.CanAfford(l, p) {
			return ledger.ErrInsufficientTickets
		}

		rarity := p.Pull.Ladder.Roll(l.Pity, s.rng)
		l.Pity = l.Pity.Advance(rarity)
		out := reward.ApplyOutcome(l, rarity, p, s.rng)

		res.Rarity = rarity
		res.Flux = out.Flux
		res.Vouchers = out.Vouchers
		res.VouchersGranted = len(out.Vouchers)
		return nil
	})
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientTickets) {
			metrics.PullRejections.Inc()
			log.Debug().Str("user", userID).Msg("抽取被拒绝: 抽取券与星辉均不足")
			return Result{NoTickets: true}, nil
		}
		return Result{}, err
	}

	res.Pity = l.Pity
	res.Funds = l.Funds()
	metrics.Pulls.WithLabelValues(res.Rarity.String()).Inc()
	metrics.VouchersGranted.WithLabelValues("pull").Add(float64(res.VouchersGranted))
	log.Debug().Str("user", userID).Stringer("rarity", res.Rarity).Int("vouchers", res.VouchersGranted).Msg("抽取完成")
	return res, nil
}

// Odds 返回用户当前保底状态下各档位的实际概率。
func (s *Service) Odds(ctx context.Context, userID string) (map[string]float64, gacha.PityCounters, error) {
	l, err := s.coord.View(ctx, userID)
	if err != nil {
		return nil, gacha.PityCounters{}, err
	}
	odds := s.policy.Current().Pull.Ladder.Odds(l.Pity)
	out := make(map[string]float64, len(odds))
	for r, v := range odds {
		out[r.String()] = v
	}
	return out, l.Pity, nil
}
