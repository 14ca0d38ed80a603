// Package voucher 实现兑换券商店：购买、自定义条目、使用与查询。
package voucher

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/daily"
	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service 负责兑换券相关的账本修改。
type Service struct {
	coord  *ledger.Coordinator
	policy *economy.Holder
	now    func() time.Time
}

// NewService 创建兑换券服务。now 为 nil 时使用 time.Now。
func NewService(coord *ledger.Coordinator, policy *economy.Holder, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{coord: coord, policy: policy, now: now}
}

// PurchaseResult 是一次成功购买的结果。
type PurchaseResult struct {
	Vouchers []ledger.Voucher `json:"vouchers"`
	Spent    int64            `json:"spent"`
	Flux     int64            `json:"flux"`
}

// Purchase 用通量购买 amount 张目录条目 catalogID。
// 余额不足时账本保持不变。
func (s *Service) Purchase(ctx context.Context, userID string, catalogID ledger.VoucherID, amount int) (PurchaseResult, error) {
	p := s.policy.Current()
	if amount < 1 || amount > p.Store.MaxAmount {
		metrics.Purchases.WithLabelValues("invalid").Inc()
		return PurchaseResult{}, fmt.Errorf("%w: 购买数量必须在 1-%d 之间", ledger.ErrInvalidRequest, p.Store.MaxAmount)
	}

	var res PurchaseResult
	l, err := s.coord.Mutate(ctx, userID, func(l *ledger.Ledger) error {
		t, ok := l.FindTemplate(catalogID)
		if !ok {
			return fmt.Errorf("%w (%w): %d", ledger.ErrCatalogEntryMissing, ledger.ErrInvalidCatalogEntry, catalogID)
		}
		if t.Cost > math.MaxInt64/int64(amount) {
			return fmt.Errorf("%w: 总价溢出", ledger.ErrInvalidRequest)
		}
		total := t.Cost * int64(amount)
		if l.Flux < total {
			return fmt.Errorf("%w: 需要 %d 通量，当前 %d", ledger.ErrInsufficientFunds, total, l.Flux)
		}

		l.Flux -= total
		daily.RecordSpend(l, uint64(total), s.now(), p.Dailies.CutoffHour)
		for i := 0; i < amount; i++ {
			res.Vouchers = append(res.Vouchers, l.Grant(t))
		}
		res.Spent = total
		return nil
	})
	if err != nil {
		switch {
		case ledger.IsRejection(err):
			metrics.Purchases.WithLabelValues("rejected").Inc()
			log.Debug().Err(err).Str("user", userID).Uint32("voucher", uint32(catalogID)).Msg("购买被拒绝")
		default:
			metrics.Purchases.WithLabelValues("failed").Inc()
		}
		return PurchaseResult{}, err
	}

	res.Flux = l.Flux
	metrics.Purchases.WithLabelValues("ok").Inc()
	metrics.VouchersGranted.WithLabelValues("store").Add(float64(len(res.Vouchers)))
	return res, nil
}

// TemplateInput 是用户自定义条目的输入。
type TemplateInput struct {
	ID          ledger.VoucherID
	Name        string
	Cost        int64
	Description string
}

// CreateTemplate 向用户自己的商店目录添加一个条目。
// ID 不能与用户目录或全局目录中的已有条目冲突。
func (s *Service) CreateTemplate(ctx context.Context, userID string, in TemplateInput) (ledger.VoucherTemplate, error) {
	t := ledger.VoucherTemplate{
		ID:          in.ID,
		Name:        in.Name,
		Cost:        in.Cost,
		Description: in.Description,
		Kind:        ledger.KindStore,
	}
	if err := t.Validate(); err != nil {
		return ledger.VoucherTemplate{}, err
	}
	if s.policy.Current().CatalogRegistry().Has(t.ID) {
		return ledger.VoucherTemplate{}, fmt.Errorf("%w: ID %d 已被内置目录占用", ledger.ErrInvalidCatalogEntry, t.ID)
	}

	_, err := s.coord.Mutate(ctx, userID, func(l *ledger.Ledger) error {
		if _, exists := l.FindTemplate(t.ID); exists {
			return fmt.Errorf("%w: ID %d 已存在", ledger.ErrInvalidCatalogEntry, t.ID)
		}
		l.Templates = append(l.Templates, t)
		return nil
	})
	if err != nil {
		return ledger.VoucherTemplate{}, err
	}
	return t, nil
}

// Consume 使用（移除）一张兑换券。
func (s *Service) Consume(ctx context.Context, userID string, id uuid.UUID) (ledger.Voucher, error) {
	var consumed ledger.Voucher
	_, err := s.coord.Mutate(ctx, userID, func(l *ledger.Ledger) error {
		v, ok := l.RemoveVoucher(id)
		if !ok {
			return fmt.Errorf("%w: %s", ledger.ErrVoucherNotFound, id)
		}
		consumed = v
		return nil
	})
	if err != nil {
		return ledger.Voucher{}, err
	}
	return consumed, nil
}

// ListFilter 选择 List 返回的内容。
type ListFilter struct {
	// ID 非空时只返回该目录ID的兑换券
	ID *ledger.VoucherID
}

// List 返回用户持有的兑换券。
func (s *Service) List(ctx context.Context, userID string, f ListFilter) ([]ledger.Voucher, error) {
	l, err := s.coord.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	if f.ID != nil {
		out := l.VouchersByID(*f.ID)
		if out == nil {
			out = []ledger.Voucher{}
		}
		return out, nil
	}
	return l.Vouchers, nil
}

// Store 返回用户可购买的商店目录。
func (s *Service) Store(ctx context.Context, userID string) ([]ledger.VoucherTemplate, error) {
	l, err := s.coord.View(ctx, userID)
	if err != nil {
		return nil, err
	}
	return l.Templates, nil
}

// MarkSeen 清除所有兑换券的“新”标记。
func (s *Service) MarkSeen(ctx context.Context, userID string) (int, error) {
	var n int
	_, err := s.coord.Mutate(ctx, userID, func(l *ledger.Ledger) error {
		n = l.MarkVouchersSeen()
		return nil
	})
	return n, err
}
