package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/platform/metrics"
	"github.com/rs/zerolog/log"
)

// Coordinator 为账本提供独占的 读取-修改-写入 访问。
//
// 所有用户共用同一把互斥锁，锁从读取账本之前一直持有到写入完成之后，
// 因此任意两个经济操作之间都不会交错。
// TODO: 改为按用户ID分片的锁，使不同用户的请求可以并行。
type Coordinator struct {
	mu      sync.Mutex
	store   Store
	mirror  FundsMirror
	healthy func() bool
	stale   atomic.Bool
}

// Option 配置 Coordinator。
type Option func(*Coordinator)

// WithMirror 启用余额镜像。healthy 返回false时镜像会被跳过。
func WithMirror(m FundsMirror, healthy func() bool) Option {
	return func(c *Coordinator) {
		c.mirror = m
		c.healthy = healthy
	}
}

// NewCoordinator 创建一个新的协调器。
func NewCoordinator(store Store, opts ...Option) *Coordinator {
	c := &Coordinator{store: store}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) lock() {
	start := time.Now()
	c.mu.Lock()
	metrics.LockWait.Observe(time.Since(start).Seconds())
}

func (c *Coordinator) mirrorEnabled() bool {
	return c.mirror != nil && !c.stale.Load() && (c.healthy == nil || c.healthy())
}

// publish 同步余额镜像。同步失败时删除该用户的镜像，连删除也失败时
// 停用镜像直到下一次 ResetMirror 成功，读取一律回退到存储。
func (c *Coordinator) publish(ctx context.Context, l *Ledger) {
	if !c.mirrorEnabled() {
		return
	}
	err := c.mirror.Publish(ctx, l)
	if err == nil {
		return
	}
	log.Warn().Err(err).Str("user", l.ID).Msg("余额镜像同步失败，删除该用户的镜像")
	if ferr := c.mirror.Forget(ctx, l.ID); ferr != nil {
		c.stale.Store(true)
		log.Error().Err(ferr).Str("user", l.ID).Msg("无法删除过期的余额镜像，镜像已停用")
	}
}

// Guard 是一次独占访问的凭证，持有期间 Ledger 可以被自由修改。
// 必须调用 Release，Commit 不会释放锁。
type Guard struct {
	Ledger   *Ledger
	c        *Coordinator
	released bool
}

// Acquire 获取全局锁并读取账本。读取失败时锁会被立即释放。
func (c *Coordinator) Acquire(ctx context.Context, id string) (*Guard, error) {
	c.lock()
	l, err := c.store.Load(ctx, id)
	if err != nil {
		c.mu.Unlock()
		if errors.Is(err, ErrStorageFailure) {
			metrics.StorageFailures.Inc()
		}
		return nil, err
	}
	return &Guard{Ledger: l, c: c}, nil
}

// Commit 将修改后的账本写回存储。失败时返回包裹了 ErrStorageFailure 的错误，
// 调用方必须丢弃内存中的修改。
func (g *Guard) Commit(ctx context.Context) error {
	if g.released {
		return errors.New("ledger: 在已释放的Guard上提交")
	}
	if err := g.c.store.Save(ctx, g.Ledger); err != nil {
		metrics.StorageFailures.Inc()
		log.Error().Err(err).Str("user", g.Ledger.ID).Msg("账本持久化失败，修改已丢弃")
		return err
	}
	g.c.publish(ctx, g.Ledger)
	return nil
}

// Release 释放全局锁，可以重复调用。
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.c.mu.Unlock()
}

// Mutate 在锁内读取账本、执行 fn 并保存。
// fn 返回错误时不会保存任何内容，该错误原样返回。
// 返回的账本是保存后的状态，调用方可以在锁外只读使用。
func (c *Coordinator) Mutate(ctx context.Context, id string, fn func(*Ledger) error) (*Ledger, error) {
	g, err := c.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer g.Release()

	if err := fn(g.Ledger); err != nil {
		return nil, err
	}
	if err := g.Commit(ctx); err != nil {
		return nil, err
	}
	return g.Ledger, nil
}

// View 在锁内读取账本，不做任何写入。
func (c *Coordinator) View(ctx context.Context, id string) (*Ledger, error) {
	g, err := c.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Release()
	return g.Ledger, nil
}

// Create 在锁内创建一份新账本。
func (c *Coordinator) Create(ctx context.Context, l *Ledger) error {
	c.lock()
	defer c.mu.Unlock()

	if err := c.store.Create(ctx, l); err != nil {
		if errors.Is(err, ErrStorageFailure) {
			metrics.StorageFailures.Inc()
		}
		return err
	}
	c.publish(ctx, l)
	return nil
}

// Funds 返回用户余额，镜像可用且命中时不占用全局锁。
func (c *Coordinator) Funds(ctx context.Context, id string) (Funds, error) {
	if c.mirrorEnabled() {
		f, ok, err := c.mirror.Lookup(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("user", id).Msg("读取余额镜像失败，回退到存储")
		} else if ok {
			return f, nil
		}
	}
	l, err := c.View(ctx, id)
	if err != nil {
		return Funds{}, err
	}
	return l.Funds(), nil
}

// ResetMirror 清空余额镜像，成功后重新启用被停用的镜像。
func (c *Coordinator) ResetMirror(ctx context.Context) error {
	if c.mirror == nil {
		return nil
	}
	if err := c.mirror.Reset(ctx); err != nil {
		return err
	}
	c.stale.Store(false)
	return nil
}
