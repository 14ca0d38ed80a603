package ledger

import (
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/gacha"
	"github.com/google/uuid"
)

// DailySlots 是每日任务槽位的固定数量。
const DailySlots = 4

// SpendSlot 是以消费额度为门槛的奖励槽位下标。
const SpendSlot = 3

// Voucher 是用户持有的一张兑换券，UUID 一经发放不再改变。
type Voucher struct {
	ID          VoucherID `json:"id"`
	UUID        uuid.UUID `json:"uuid"`
	Name        string    `json:"name"`
	Cost        int64     `json:"cost"`
	Description string    `json:"description"`
	New         bool      `json:"new"`
}

// TimerCategory 是计时器的类别，每个类别有独立的收益速率。
type TimerCategory string

const (
	TimerSNode TimerCategory = "SNode"
	TimerANode TimerCategory = "ANode"
	TimerBNode TimerCategory = "BNode"
)

// Timer 是用户当前正在运行的计时器。Ledger.Timer 非空即表示计时中。
type Timer struct {
	Category TimerCategory `json:"category"`
	Started  time.Time     `json:"started"`
}

// DailySlot 是单个每日任务槽位的状态。
type DailySlot struct {
	ID          uint8 `json:"id"`
	Claimable   bool  `json:"claimable"`
	Claimed     bool  `json:"claimed"`
	LastClaimed int64 `json:"last_claimed"`
}

// Totals 是只增不减的累计统计，只用于分析，不参与任何游戏逻辑。
type Totals struct {
	Pulls          uint64 `json:"total_pulls"`
	FluxAcquired   uint64 `json:"total_flux_aq"`
	AstrumAcquired uint64 `json:"total_astrum_aq"`
}

// Ledger 是单个用户完整的经济状态，整体序列化为一条记录。
type Ledger struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`

	Astrai uint64 `json:"astrai"`
	Astrum uint64 `json:"astrum"`
	Flux   int64  `json:"flux"`

	Pity    gacha.PityCounters `json:"pity"`
	HasSlip bool               `json:"has_slip"`

	Vouchers  []Voucher         `json:"vouchers"`
	Templates []VoucherTemplate `json:"templates"`

	Timer   *Timer                `json:"timer,omitempty"`
	Dailies [DailySlots]DailySlot `json:"dailies"`

	// TodaysFlux 累计自 TodaysFluxCycle 所在周期以来的消费额
	TodaysFlux      uint64 `json:"todays_flux"`
	TodaysFluxCycle int64  `json:"todays_flux_cycle"`

	Totals Totals `json:"totals"`
}

// Seed 是新账本的初始资金。
type Seed struct {
	Astrai uint64 `yaml:"astrai" json:"astrai"`
	Astrum uint64 `yaml:"astrum" json:"astrum"`
	Flux   int64  `yaml:"flux" json:"flux"`
}

// New 创建一个带有初始资金的新账本。
// 模板从目录中的商店条目复制而来；消费门槛槽位在创建时处于锁定状态。
func New(id, username string, seed Seed, store []VoucherTemplate) *Ledger {
	l := &Ledger{
		ID:        id,
		Username:  username,
		Astrai:    seed.Astrai,
		Astrum:    seed.Astrum,
		Flux:      seed.Flux,
		Vouchers:  []Voucher{},
		Templates: append([]VoucherTemplate(nil), store...),
	}
	for i := range l.Dailies {
		l.Dailies[i] = DailySlot{ID: uint8(i), Claimable: i != SpendSlot}
	}
	return l
}

// CreditFlux 增加通量并计入累计获取量。
func (l *Ledger) CreditFlux(amount int64) {
	if amount <= 0 {
		return
	}
	l.Flux += amount
	l.Totals.FluxAcquired += uint64(amount)
}

// CreditAstrum 增加星辉并计入累计获取量。
func (l *Ledger) CreditAstrum(amount uint64) {
	l.Astrum += amount
	l.Totals.AstrumAcquired += amount
}

// Grant 发放一张兑换券并返回它。
func (l *Ledger) Grant(t VoucherTemplate) Voucher {
	v := t.Instantiate()
	l.Vouchers = append(l.Vouchers, v)
	return v
}

// FindTemplate 在用户自己的目录中查找条目。
func (l *Ledger) FindTemplate(id VoucherID) (VoucherTemplate, bool) {
	for _, t := range l.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return VoucherTemplate{}, false
}

// RemoveVoucher 按UUID移除一张兑换券。
func (l *Ledger) RemoveVoucher(id uuid.UUID) (Voucher, bool) {
	for i, v := range l.Vouchers {
		if v.UUID == id {
			l.Vouchers = append(l.Vouchers[:i], l.Vouchers[i+1:]...)
			return v, true
		}
	}
	return Voucher{}, false
}

// VouchersByID 返回持有的指定目录ID的兑换券。
func (l *Ledger) VouchersByID(id VoucherID) []Voucher {
	var out []Voucher
	for _, v := range l.Vouchers {
		if v.ID == id {
			out = append(out, v)
		}
	}
	return out
}

// MarkVouchersSeen 清除所有兑换券的“新”标记，返回被清除的数量。
func (l *Ledger) MarkVouchersSeen() int {
	n := 0
	for i := range l.Vouchers {
		if l.Vouchers[i].New {
			l.Vouchers[i].New = false
			n++
		}
	}
	return n
}

// Funds 是账本中三种货币的快照。
type Funds struct {
	Astrum uint64 `json:"astrum"`
	Astrai uint64 `json:"astrai"`
	Flux   int64  `json:"flux"`
}

// Funds 返回当前余额。
func (l *Ledger) Funds() Funds {
	return Funds{Astrum: l.Astrum, Astrai: l.Astrai, Flux: l.Flux}
}
