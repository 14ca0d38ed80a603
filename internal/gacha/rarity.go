package gacha

import "fmt"

// Rarity 是单次抽取的结果档位，数值越大档位越高。
type Rarity uint8

const (
	RarityB Rarity = iota
	RarityA
	RarityS
	RarityMythicSSS
)

// Rarities 按从高到低的顺序列出所有档位，与抽取时的判定顺序一致。
var Rarities = []Rarity{RarityMythicSSS, RarityS, RarityA, RarityB}

func (r Rarity) String() string {
	switch r {
	case RarityMythicSSS:
		return "MythicSSS"
	case RarityS:
		return "S"
	case RarityA:
		return "A"
	case RarityB:
		return "B"
	}
	return fmt.Sprintf("Rarity(%d)", uint8(r))
}

// ParseRarity 将档位名称解析为 Rarity。
func ParseRarity(s string) (Rarity, error) {
	for _, r := range Rarities {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("未知的档位: %q", s)
}

func (r Rarity) MarshalText() ([]byte, error) {
	if r > RarityMythicSSS {
		return nil, fmt.Errorf("无法序列化档位 %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	parsed, err := ParseRarity(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
