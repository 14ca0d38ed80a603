// Package reward 把抽取结果换算成货币与兑换券。
package reward

import (
	"fmt"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/gacha"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

// Outcome 描述一次结算发放的内容。
type Outcome struct {
	Rarity   gacha.Rarity     `json:"rarity"`
	Flux     int64            `json:"flux"`
	Vouchers []ledger.Voucher `json:"vouchers"`
	// UsedTicket 为 true 表示本次消耗的是抽取券而不是星辉
	UsedTicket bool `json:"used_ticket"`
}

// ApplyOutcome 按档位向账本发放奖励，然后累计抽取次数并扣除一次抽取的花费。
// 不修改保底计数器。调用方需事先确认资金充足。
func ApplyOutcome(l *ledger.Ledger, rarity gacha.Rarity, p *economy.Policy, rng gacha.RandomSource) Outcome {
	out := Outcome{Rarity: rarity}
	grant := func(id ledger.VoucherID) {
		t, err := p.Voucher(id)
		if err != nil {
			// 策略加载时已校验所有引用
			panic(fmt.Sprintf("reward: %v", err))
		}
		out.Vouchers = append(out.Vouchers, l.Grant(t))
	}

	r := p.Rewards
	switch rarity {
	case gacha.RarityMythicSSS:
		out.Flux = r.MythicSSS.Flux
		if l.HasSlip || gacha.Chance(r.MythicSSS.SingleChance, rng) {
			grant(r.MythicSSS.Single)
		} else {
			for _, e := range r.MythicSSS.Bundle {
				for i := 0; i < e.Count; i++ {
					grant(e.Voucher)
				}
			}
			l.HasSlip = true
		}
	case gacha.RarityS:
		out.Flux = r.S.Flux
		for _, id := range r.S.Guaranteed {
			grant(id)
		}
		for _, bonus := range r.S.Bonus {
			if gacha.Chance(bonus.Chance, rng) {
				grant(bonus.Voucher)
			}
		}
	case gacha.RarityA:
		out.Flux = r.A.Flux
		grant(r.A.Voucher)
	case gacha.RarityB:
		out.Flux = r.B.Flux
		for _, bonus := range r.B.Bonus {
			if gacha.Chance(bonus.Chance, rng) {
				grant(bonus.Voucher)
			}
		}
	default:
		panic(fmt.Sprintf("reward: 未知的档位 %d", rarity))
	}
	l.CreditFlux(out.Flux)

	l.Totals.Pulls++
	if l.Astrai > 0 {
		l.Astrai--
		out.UsedTicket = true
	} else {
		l.Astrum -= p.Pull.CostAstrum
	}
	return out
}

// CanAfford 报告账本是否足以支付一次抽取。
func CanAfford(l *ledger.Ledger, p *economy.Policy) bool {
	return l.Astrai > 0 || l.Astrum >= p.Pull.CostAstrum
}
