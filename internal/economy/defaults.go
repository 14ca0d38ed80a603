package economy

import (
	"github.com/SlpAus/life-gacha-backend/internal/gacha"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

// 默认目录中的条目ID
const (
	VoucherBreak      ledger.VoucherID = 0
	VoucherOffDay     ledger.VoucherID = 1
	VoucherGaming     ledger.VoucherID = 2
	VoucherGachaSlip  ledger.VoucherID = 3
	VoucherCoffee     ledger.VoucherID = 4
	VoucherCoffeeStd  ledger.VoucherID = 5
	VoucherShortSlip  ledger.VoucherID = 9
	VoucherJapanese   ledger.VoucherID = 24
	VoucherMythicWeek ledger.VoucherID = 999
)

// DefaultPolicy 返回已校验的内置经济策略。配置文件中出现的字段会覆盖这里的值。
func DefaultPolicy() *Policy {
	p := builtinPolicy()
	if err := Validate(p); err != nil {
		panic("内置经济策略无效: " + err.Error())
	}
	return p
}

func builtinPolicy() *Policy {
	return &Policy{
		Version: "builtin",
		Start:   ledger.Seed{Astrai: 15, Astrum: 1600, Flux: 500},
		Pull: PullPolicy{
			CostAstrum: 160,
			Ladder:     gacha.StandardLadder(),
		},
		Rewards: RewardPolicy{
			MythicSSS: MythicReward{
				Flux:         2400,
				SingleChance: 0.5,
				Single:       VoucherMythicWeek,
				Bundle: []BundleEntry{
					{Voucher: VoucherGaming, Count: 2},
					{Voucher: VoucherOffDay, Count: 1},
					{Voucher: VoucherCoffee, Count: 3},
					{Voucher: VoucherJapanese, Count: 3},
				},
			},
			S: SReward{
				Flux:       240,
				Guaranteed: []ledger.VoucherID{VoucherJapanese},
				Bonus: []ChanceGrant{
					{Voucher: VoucherShortSlip, Chance: 85.0 / 256},
					{Voucher: VoucherCoffee, Chance: 85.0 / 256},
					{Voucher: VoucherGaming, Chance: 16.0 / 256},
				},
			},
			A: AReward{Flux: 75, Voucher: VoucherBreak},
			B: BReward{
				Flux:  5,
				Bonus: []ChanceGrant{{Voucher: VoucherGaming, Chance: 1.0 / 256}},
			},
		},
		Timers: map[ledger.TimerCategory]TimerRate{
			ledger.TimerSNode: {Reward: 350, EveryMinutes: 60},
			ledger.TimerANode: {Reward: 80, EveryMinutes: 30},
			ledger.TimerBNode: {Reward: 20, EveryMinutes: 10},
		},
		Dailies: DailyPolicy{
			CutoffHour:     4,
			SpendThreshold: 500,
			Slots: [ledger.DailySlots]Grant{
				{Name: "Login", Astrai: 1},
				{Name: "Preflight", Astrum: 160},
				{Name: "Blood & Hormones", Astrum: 160},
				{Name: "Flux Expenditure", Astrai: 1},
			},
			AllClaimed: Grant{Name: "Efficiency Bonus", Astrai: 2, Flux: 60},
		},
		Store: StorePolicy{MaxAmount: 255},
		Catalog: []ledger.VoucherTemplate{
			{ID: VoucherBreak, Name: "15 Minute Break", Cost: 20, Description: "Take a 15 minute breather break", Kind: ledger.KindReward},
			{ID: VoucherOffDay, Name: "Full Day Off", Cost: 1800, Description: "Get one full day off", Kind: ledger.KindStore},
			{ID: VoucherGaming, Name: "Gaming Session (2H)", Cost: 225, Description: "2 Hour Gaming Session", Kind: ledger.KindStore},
			{ID: VoucherGachaSlip, Name: "Gacha Slip (2H)", Cost: 120, Description: "Permission Slip for Working on the Gacha Machine for 2 Hours", Kind: ledger.KindStore},
			{ID: VoucherCoffee, Name: "Coffee (Premium)", Cost: 150, Description: "Get 1 cup of Premium Coffee (250ml)", Kind: ledger.KindStore},
			{ID: VoucherCoffeeStd, Name: "Coffee (Standard)", Cost: 75, Description: "Get 1 cup of Coffee Standard (250ml)", Kind: ledger.KindStore},
			{ID: VoucherShortSlip, Name: "Gacha Slip [2H]", Cost: 30, Description: "Permission Slip to Work on LifeGacha for 2 Hours", Kind: ledger.KindReward},
			{ID: VoucherJapanese, Name: "Japanese Studies (3H)", Cost: 120, Description: "Slip to study Japanese for 3 Hours", Kind: ledger.KindStore},
			{ID: VoucherMythicWeek, Name: "Mythic Week Off", Cost: 24192, Description: "Get a full week off", Kind: ledger.KindStore},
		},
	}
}
