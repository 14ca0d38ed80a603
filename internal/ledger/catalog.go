package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// VoucherID 是兑换券目录中的稳定标识。
type VoucherID uint32

// VoucherKind 区分可在商店购买的条目与只能通过抽取获得的条目。
type VoucherKind string

const (
	KindStore  VoucherKind = "store"
	KindReward VoucherKind = "reward"
)

// VoucherTemplate 是兑换券的目录定义。
type VoucherTemplate struct {
	ID          VoucherID   `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Cost        int64       `json:"cost" yaml:"cost"`
	Description string      `json:"description" yaml:"description"`
	Kind        VoucherKind `json:"kind" yaml:"kind"`
}

// Validate 检查单个条目。
func (t VoucherTemplate) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: 条目 %d 缺少名称", ErrInvalidCatalogEntry, t.ID)
	}
	if t.Cost < 1 {
		return fmt.Errorf("%w: 条目 %d 的价格必须至少为1", ErrInvalidCatalogEntry, t.ID)
	}
	switch t.Kind {
	case KindStore, KindReward:
	default:
		return fmt.Errorf("%w: 条目 %d 的类型 %q 未知", ErrInvalidCatalogEntry, t.ID, t.Kind)
	}
	return nil
}

// Instantiate 由目录条目生成一张新的兑换券，每次调用都得到不同的UUID。
func (t VoucherTemplate) Instantiate() Voucher {
	return Voucher{
		ID:          t.ID,
		UUID:        uuid.Must(uuid.NewV7()),
		Name:        t.Name,
		Cost:        t.Cost,
		Description: t.Description,
		New:         true,
	}
}

// Catalog 是在加载时校验过的兑换券注册表。nil 的 *Catalog 等同于空目录。
type Catalog struct {
	entries map[VoucherID]VoucherTemplate
	order   []VoucherID
}

// NewCatalog 校验并构建注册表，重复的ID或不合法的条目会导致失败。
func NewCatalog(templates []VoucherTemplate) (*Catalog, error) {
	c := &Catalog{entries: make(map[VoucherID]VoucherTemplate, len(templates))}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.entries[t.ID]; dup {
			return nil, fmt.Errorf("%w: 重复的条目ID %d", ErrInvalidCatalogEntry, t.ID)
		}
		c.entries[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c, nil
}

// Lookup 按ID查找条目。
func (c *Catalog) Lookup(id VoucherID) (VoucherTemplate, error) {
	if !c.Has(id) {
		return VoucherTemplate{}, fmt.Errorf("%w: %d", ErrInvalidCatalogEntry, id)
	}
	return c.entries[id], nil
}

// Has 报告目录中是否存在该ID。
func (c *Catalog) Has(id VoucherID) bool {
	if c == nil {
		return false
	}
	_, ok := c.entries[id]
	return ok
}

// Entries 按加载顺序返回全部条目。
func (c *Catalog) Entries() []VoucherTemplate {
	if c == nil {
		return nil
	}
	out := make([]VoucherTemplate, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id])
	}
	return out
}

// StoreEntries 返回可以购买的条目，按ID排序。
func (c *Catalog) StoreEntries() []VoucherTemplate {
	var out []VoucherTemplate
	if c == nil {
		return out
	}
	for _, t := range c.entries {
		if t.Kind == KindStore {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
