package gacha

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLadderConfig 表示概率阶梯配置不合法。
var ErrLadderConfig = errors.New("概率阶梯配置无效")

// TierRule 描述单个档位的概率曲线。
// 例: BaseRate=0.006, SoftStart=73, SoftTarget=0.3, HardPity=90
// 表示第74抽起概率线性爬升，到第89抽达到0.3，第90抽必出。
type TierRule struct {
	BaseRate   float64 `yaml:"base_rate" json:"base_rate"`
	SoftStart  int     `yaml:"soft_start" json:"soft_start"`
	SoftTarget float64 `yaml:"soft_target" json:"soft_target"`
	HardPity   int     `yaml:"hard_pity" json:"hard_pity"`
}

// Probability 返回计数器为 count 时本次抽取命中该档位的实际概率。
func (t TierRule) Probability(count uint16) float64 {
	c := int(count)
	if t.HardPity > 0 && c+1 >= t.HardPity {
		return 1
	}
	if t.SoftStart <= 0 || t.HardPity <= 0 || c < t.SoftStart {
		return t.BaseRate
	}

	end := t.HardPity - 1
	length := float64(end - t.SoftStart)
	if length <= 0 {
		return t.BaseRate
	}
	progress := float64(c-t.SoftStart) / length
	if progress > 1 {
		progress = 1
	}
	p := t.BaseRate + (t.SoftTarget-t.BaseRate)*progress
	if p < 0 {
		p = 0
	}
	// 硬保底之前不允许出现必中
	if p > 0.999999999999 {
		p = 0.999999999999
	}
	return p
}

func (t TierRule) validate(name string) []string {
	var errs []string
	if t.BaseRate < 0 || t.BaseRate > 1 {
		errs = append(errs, fmt.Sprintf("%s.base_rate 必须在 [0,1] 内", name))
	}
	if t.HardPity < 0 {
		errs = append(errs, fmt.Sprintf("%s.hard_pity 不能为负", name))
	}
	if t.SoftStart > 0 {
		if t.HardPity <= 0 {
			errs = append(errs, fmt.Sprintf("%s.soft_start 需要同时配置 hard_pity", name))
		} else if t.SoftStart >= t.HardPity-1 {
			errs = append(errs, fmt.Sprintf("%s.soft_start 必须小于 hard_pity-1", name))
		}
		if t.SoftTarget <= t.BaseRate || t.SoftTarget >= 1 {
			errs = append(errs, fmt.Sprintf("%s.soft_target 必须在 (base_rate,1) 内", name))
		}
	}
	return errs
}

// Ladder 是按档位从高到低排列的概率阶梯，B档为兜底。
type Ladder struct {
	MythicSSS TierRule `yaml:"mythic_sss" json:"mythic_sss"`
	S         TierRule `yaml:"s" json:"s"`
	A         TierRule `yaml:"a" json:"a"`
}

// Validate 检查所有档位的配置，并一次性返回全部问题。
func (l Ladder) Validate() error {
	var errs []string
	errs = append(errs, l.MythicSSS.validate("mythic_sss")...)
	errs = append(errs, l.S.validate("s")...)
	errs = append(errs, l.A.validate("a")...)
	if base := l.MythicSSS.BaseRate + l.S.BaseRate + l.A.BaseRate; base > 1 {
		errs = append(errs, fmt.Sprintf("基础概率之和 %.4f 超过 1", base))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrLadderConfig, strings.Join(errs, "; "))
	}
	return nil
}

// Roll 根据当前计数器抽取一个档位。
// 所有档位共用同一个均匀随机数，从高到低依次判定；
// 低档位触发硬保底时，高档位仍保留其原有的命中区间。
// Roll 不修改计数器，调用方通过 PityCounters.Advance 应用结果。
func (l Ladder) Roll(p PityCounters, rng RandomSource) Rarity {
	u := rng.Float64()

	tiers := [...]struct {
		rarity Rarity
		prob   float64
	}{
		{RarityMythicSSS, l.MythicSSS.Probability(p.SSS)},
		{RarityS, l.S.Probability(p.S)},
		{RarityA, l.A.Probability(p.A)},
	}

	var cumulative float64
	for _, tier := range tiers {
		if tier.prob >= 1 {
			return tier.rarity
		}
		cumulative += tier.prob
		if u < cumulative {
			return tier.rarity
		}
	}
	return RarityB
}

// Odds 返回给定计数器下各档位的实际概率，供信息查询使用。
func (l Ladder) Odds(p PityCounters) map[Rarity]float64 {
	odds := make(map[Rarity]float64, len(Rarities))
	remaining := 1.0
	probs := []struct {
		rarity Rarity
		prob   float64
	}{
		{RarityMythicSSS, l.MythicSSS.Probability(p.SSS)},
		{RarityS, l.S.Probability(p.S)},
		{RarityA, l.A.Probability(p.A)},
	}
	for _, tier := range probs {
		if tier.prob >= 1 {
			odds[tier.rarity] = remaining
			remaining = 0
			continue
		}
		share := tier.prob
		if share > remaining {
			share = remaining
		}
		odds[tier.rarity] = share
		remaining -= share
	}
	odds[RarityB] = remaining
	return odds
}

// StandardLadder 返回默认的概率阶梯。
func StandardLadder() Ladder {
	return Ladder{
		MythicSSS: TierRule{BaseRate: 0.006, SoftStart: 73, SoftTarget: 0.3, HardPity: 90},
		S:         TierRule{BaseRate: 0.03, SoftStart: 20, SoftTarget: 0.25, HardPity: 30},
		A:         TierRule{BaseRate: 0.13, HardPity: 10},
	}
}
