package gacha

import "math"

// PityCounters 记录距离上一次命中各档位以来的抽取次数。
type PityCounters struct {
	SSS uint16 `json:"sss_pity"`
	S   uint16 `json:"s_pity"`
	A   uint16 `json:"a_pity"`
}

// Advance 返回抽出 r 之后的计数器：
// 命中档位的计数器清零，其余计数器各加一；抽出B时三者全部加一。
// 计数器在 uint16 上限处饱和。
func (p PityCounters) Advance(r Rarity) PityCounters {
	next := PityCounters{SSS: inc(p.SSS), S: inc(p.S), A: inc(p.A)}
	switch r {
	case RarityMythicSSS:
		next.SSS = 0
	case RarityS:
		next.S = 0
	case RarityA:
		next.A = 0
	}
	return next
}

func inc(v uint16) uint16 {
	if v == math.MaxUint16 {
		return v
	}
	return v + 1
}
