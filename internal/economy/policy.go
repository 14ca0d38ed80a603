// Package economy 定义经济系统的全部可配置数值，并负责加载、校验和热重载。
package economy

import (
	"github.com/SlpAus/life-gacha-backend/internal/gacha"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

// Policy 是一份完整的经济策略。加载并校验后不再修改，热重载时整体替换。
type Policy struct {
	Version string                             `yaml:"version" json:"version"`
	Start   ledger.Seed                        `yaml:"start" json:"start"`
	Pull    PullPolicy                         `yaml:"pull" json:"pull"`
	Rewards RewardPolicy                       `yaml:"rewards" json:"rewards"`
	Timers  map[ledger.TimerCategory]TimerRate `yaml:"timers" json:"timers"`
	Dailies DailyPolicy                        `yaml:"dailies" json:"dailies"`
	Store   StorePolicy                        `yaml:"store" json:"store"`
	Catalog []ledger.VoucherTemplate           `yaml:"catalog" json:"catalog"`

	catalog *ledger.Catalog
}

// PullPolicy 定义单次抽取的花费与概率阶梯。
type PullPolicy struct {
	CostAstrum uint64       `yaml:"cost_astrum" json:"cost_astrum"`
	Ladder     gacha.Ladder `yaml:"ladder" json:"ladder"`
}

// ChanceGrant 以 Chance 的概率发放一张 Voucher。
type ChanceGrant struct {
	Voucher ledger.VoucherID `yaml:"voucher" json:"voucher"`
	Chance  float64          `yaml:"chance" json:"chance"`
}

// BundleEntry 是礼包中的一项。
type BundleEntry struct {
	Voucher ledger.VoucherID `yaml:"voucher" json:"voucher"`
	Count   int              `yaml:"count" json:"count"`
}

// MythicReward 是最高档位的奖励。
// 次级判定小于 SingleChance 或用户已持有 has_slip 时发放 Single，否则发放 Bundle。
type MythicReward struct {
	Flux         int64            `yaml:"flux" json:"flux"`
	SingleChance float64          `yaml:"single_chance" json:"single_chance"`
	Single       ledger.VoucherID `yaml:"single" json:"single"`
	Bundle       []BundleEntry    `yaml:"bundle" json:"bundle"`
}

type SReward struct {
	Flux       int64              `yaml:"flux" json:"flux"`
	Guaranteed []ledger.VoucherID `yaml:"guaranteed" json:"guaranteed"`
	Bonus      []ChanceGrant      `yaml:"bonus" json:"bonus"`
}

type AReward struct {
	Flux    int64            `yaml:"flux" json:"flux"`
	Voucher ledger.VoucherID `yaml:"voucher" json:"voucher"`
}

type BReward struct {
	Flux  int64         `yaml:"flux" json:"flux"`
	Bonus []ChanceGrant `yaml:"bonus" json:"bonus"`
}

// RewardPolicy 按档位定义奖励。
type RewardPolicy struct {
	MythicSSS MythicReward `yaml:"mythic_sss" json:"mythic_sss"`
	S         SReward      `yaml:"s" json:"s"`
	A         AReward      `yaml:"a" json:"a"`
	B         BReward      `yaml:"b" json:"b"`
}

// TimerRate 表示每满 EveryMinutes 分钟发放 Reward 星辉。
type TimerRate struct {
	Reward       uint64 `yaml:"reward" json:"reward"`
	EveryMinutes uint64 `yaml:"every_minutes" json:"every_minutes"`
}

// Grant 是一笔货币奖励。
type Grant struct {
	Name   string `yaml:"name" json:"name"`
	Astrai uint64 `yaml:"astrai" json:"astrai"`
	Astrum uint64 `yaml:"astrum" json:"astrum"`
	Flux   int64  `yaml:"flux" json:"flux"`
}

// DailyPolicy 定义每日任务。
type DailyPolicy struct {
	CutoffHour     int                      `yaml:"cutoff_hour" json:"cutoff_hour"`
	SpendThreshold uint64                   `yaml:"spend_threshold" json:"spend_threshold"`
	Slots          [ledger.DailySlots]Grant `yaml:"slots" json:"slots"`
	AllClaimed     Grant                    `yaml:"all_claimed" json:"all_claimed"`
}

// StorePolicy 限制商店购买。
type StorePolicy struct {
	MaxAmount int `yaml:"max_amount" json:"max_amount"`
}

// CatalogRegistry 返回校验后的兑换券注册表，只能在 Validate 成功之后调用。
func (p *Policy) CatalogRegistry() *ledger.Catalog {
	return p.catalog
}

// Voucher 按ID查找目录条目。
func (p *Policy) Voucher(id ledger.VoucherID) (ledger.VoucherTemplate, error) {
	return p.catalog.Lookup(id)
}

// NewLedger 按本策略的初始资金和商店目录创建账本。
func (p *Policy) NewLedger(id, username string) *ledger.Ledger {
	return ledger.New(id, username, p.Start, p.catalog.StoreEntries())
}
