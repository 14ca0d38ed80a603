package economy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

// ErrInvalidPolicy 表示经济策略未通过校验。
var ErrInvalidPolicy = errors.New("经济策略无效")

// Validate 检查策略的完整性并构建兑换券注册表，所有问题会一次性返回。
func Validate(p *Policy) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if err := p.Pull.Ladder.Validate(); err != nil {
		add("%v", err)
	}
	if p.Pull.CostAstrum < 1 {
		add("pull.cost_astrum 必须至少为1")
	}

	catalog, err := ledger.NewCatalog(p.Catalog)
	if err != nil {
		add("%v", err)
	} else {
		ref := func(field string, id ledger.VoucherID) {
			if !catalog.Has(id) {
				add("%s 引用了不存在的兑换券 %d", field, id)
			}
		}
		chance := func(field string, c float64) {
			if c < 0 || c > 1 {
				add("%s 的概率 %v 不在 [0,1] 内", field, c)
			}
		}

		r := p.Rewards
		ref("rewards.mythic_sss.single", r.MythicSSS.Single)
		chance("rewards.mythic_sss.single_chance", r.MythicSSS.SingleChance)
		if len(r.MythicSSS.Bundle) == 0 {
			add("rewards.mythic_sss.bundle 不能为空")
		}
		for i, e := range r.MythicSSS.Bundle {
			ref(fmt.Sprintf("rewards.mythic_sss.bundle[%d]", i), e.Voucher)
			if e.Count < 1 {
				add("rewards.mythic_sss.bundle[%d].count 必须至少为1", i)
			}
		}
		for i, id := range r.S.Guaranteed {
			ref(fmt.Sprintf("rewards.s.guaranteed[%d]", i), id)
		}
		if len(r.S.Bonus) > 3 {
			add("rewards.s.bonus 最多3项")
		}
		for i, g := range r.S.Bonus {
			ref(fmt.Sprintf("rewards.s.bonus[%d]", i), g.Voucher)
			chance(fmt.Sprintf("rewards.s.bonus[%d]", i), g.Chance)
		}
		ref("rewards.a.voucher", r.A.Voucher)
		if len(r.B.Bonus) > 1 {
			add("rewards.b.bonus 最多1项")
		}
		for i, g := range r.B.Bonus {
			ref(fmt.Sprintf("rewards.b.bonus[%d]", i), g.Voucher)
			chance(fmt.Sprintf("rewards.b.bonus[%d]", i), g.Chance)
		}
		for name, f := range map[string]int64{
			"mythic_sss": r.MythicSSS.Flux, "s": r.S.Flux, "a": r.A.Flux, "b": r.B.Flux,
		} {
			if f < 0 {
				add("rewards.%s.flux 不能为负", name)
			}
		}
	}

	for _, cat := range []ledger.TimerCategory{ledger.TimerSNode, ledger.TimerANode, ledger.TimerBNode} {
		rate, ok := p.Timers[cat]
		if !ok {
			add("timers 缺少类别 %s", cat)
			continue
		}
		if rate.EveryMinutes < 1 {
			add("timers.%s.every_minutes 必须至少为1", cat)
		}
	}

	if p.Dailies.CutoffHour < 0 || p.Dailies.CutoffHour > 23 {
		add("dailies.cutoff_hour 必须在 0-23 之间")
	}
	if p.Store.MaxAmount < 1 || p.Store.MaxAmount > 255 {
		add("store.max_amount 必须在 1-255 之间")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(errs, "; "))
	}
	p.catalog = catalog
	return nil
}
