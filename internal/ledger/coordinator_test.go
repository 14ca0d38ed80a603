package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/ledger/ledgertest"
)

func TestMutateNotFound(t *testing.T) {
	c := ledger.NewCoordinator(ledgertest.NewMemoryStore())
	_, err := c.Mutate(context.Background(), "ghost", func(*ledger.Ledger) error { return nil })
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMutateRejectionSkipsSave(t *testing.T) {
	store := ledgertest.NewMemoryStore()
	store.Put(t, ledger.New("u1", "u1", ledger.Seed{Flux: 10}, nil))
	saves := store.Saves
	c := ledger.NewCoordinator(store)

	_, err := c.Mutate(context.Background(), "u1", func(l *ledger.Ledger) error {
		l.Flux = 0
		return ledger.ErrInsufficientFunds
	})
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("got %v", err)
	}
	if store.Saves != saves {
		t.Fatal("rejected mutation must not be saved")
	}
	if got := store.Get(t, "u1"); got.Flux != 10 {
		t.Fatalf("flux = %d, want 10", got.Flux)
	}
}

func TestMutateStorageFailureDiscards(t *testing.T) {
	store := ledgertest.NewMemoryStore()
	store.Put(t, ledger.New("u1", "u1", ledger.Seed{Astrum: 100}, nil))
	store.FailSaves = true
	c := ledger.NewCoordinator(store)

	_, err := c.Mutate(context.Background(), "u1", func(l *ledger.Ledger) error {
		l.Astrum = 0
		return nil
	})
	if !errors.Is(err, ledger.ErrStorageFailure) {
		t.Fatalf("got %v, want ErrStorageFailure", err)
	}

	store.FailSaves = false
	if got := store.Get(t, "u1"); got.Astrum != 100 {
		t.Fatalf("astrum = %d, failed mutation leaked", got.Astrum)
	}
}

func TestConcurrentMutationsDoNotLoseUpdates(t *testing.T) {
	store := ledgertest.NewMemoryStore()
	store.Put(t, ledger.New("a", "a", ledger.Seed{}, nil))
	store.Put(t, ledger.New("b", "b", ledger.Seed{}, nil))
	c := ledger.NewCoordinator(store)

	const workers = 32
	const perWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := "a"
			if w%2 == 1 {
				id = "b"
			}
			for i := 0; i < perWorker; i++ {
				_, err := c.Mutate(context.Background(), id, func(l *ledger.Ledger) error {
					l.Totals.Pulls++
					l.Pity.SSS++
					return nil
				})
				if err != nil {
					t.Errorf("Mutate: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for _, id := range []string{"a", "b"} {
		got := store.Get(t, id)
		want := uint64(workers / 2 * perWorker)
		if got.Totals.Pulls != want || uint64(got.Pity.SSS) != want {
			t.Fatalf("%s: pulls=%d sss=%d, want %d", id, got.Totals.Pulls, got.Pity.SSS, want)
		}
	}
}

func TestGuardReleaseIdempotent(t *testing.T) {
	store := ledgertest.NewMemoryStore()
	store.Put(t, ledger.New("u1", "u1", ledger.Seed{}, nil))
	c := ledger.NewCoordinator(store)

	g, err := c.Acquire(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	g.Ledger.Astrai = 3
	if err := g.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	g.Release()
	g.Release()
	if err := g.Commit(context.Background()); err == nil {
		t.Fatal("commit after release should fail")
	}

	// 锁已释放，后续访问不会阻塞
	l, err := c.View(context.Background(), "u1")
	if err != nil || l.Astrai != 3 {
		t.Fatalf("View = %+v, %v", l, err)
	}
}

type stubMirror struct {
	mu          sync.Mutex
	published   map[string]ledger.Funds
	failPublish bool
	failForget  bool
}

func (m *stubMirror) Publish(_ context.Context, l *ledger.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPublish {
		return errors.New("redis: connection reset")
	}
	m.published[l.ID] = l.Funds()
	return nil
}

func (m *stubMirror) Forget(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failForget {
		return errors.New("redis: connection reset")
	}
	delete(m.published, id)
	return nil
}

func (m *stubMirror) Lookup(_ context.Context, id string) (ledger.Funds, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.published[id]
	return f, ok, nil
}

func (m *stubMirror) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = map[string]ledger.Funds{}
	return nil
}

func TestFundsUsesMirrorWhenHealthy(t *testing.T) {
	store := ledgertest.NewMemoryStore()
	mirror := &stubMirror{published: map[string]ledger.Funds{}}
	healthy := true
	c := ledger.NewCoordinator(store, ledger.WithMirror(mirror, func() bool { return healthy }))

	if err := c.Create(context.Background(), ledger.New("u1", "u1", ledger.Seed{Astrum: 1600, Astrai: 15, Flux: 500}, nil)); err != nil {
		t.Fatal(err)
	}
	if _, ok := mirror.published["u1"]; !ok {
		t.Fatal("create should publish to mirror")
	}

	mirror.published["u1"] = ledger.Funds{Astrum: 1}
	f, err := c.Funds(context.Background(), "u1")
	if err != nil || f.Astrum != 1 {
		t.Fatalf("Funds from mirror = %+v, %v", f, err)
	}

	healthy = false
	f, err = c.Funds(context.Background(), "u1")
	if err != nil || f.Astrum != 1600 {
		t.Fatalf("Funds from store = %+v, %v", f, err)
	}
}

func TestPublishFailureNeverServesStaleFunds(t *testing.T) {
	ctx := context.Background()
	mirror := &stubMirror{published: map[string]ledger.Funds{}}
	c := ledger.NewCoordinator(ledgertest.NewMemoryStore(), ledger.WithMirror(mirror, func() bool { return true }))
	if err := c.Create(ctx, ledger.New("u1", "u1", ledger.Seed{Astrum: 1600}, nil)); err != nil {
		t.Fatal(err)
	}
	setAstrum := func(v uint64) {
		t.Helper()
		if _, err := c.Mutate(ctx, "u1", func(l *ledger.Ledger) error { l.Astrum = v; return nil }); err != nil {
			t.Fatal(err)
		}
	}

	// 同步失败时删除该用户的镜像
	mirror.failPublish = true
	setAstrum(100)
	if _, ok := mirror.published["u1"]; ok {
		t.Fatal("stale mirror entry should be forgotten")
	}
	if f, _ := c.Funds(ctx, "u1"); f.Astrum != 100 {
		t.Fatalf("funds = %+v, want store value", f)
	}

	// 删除也失败时停用镜像
	mirror.failForget = true
	setAstrum(50)
	mirror.published["u1"] = ledger.Funds{Astrum: 9999}
	if f, _ := c.Funds(ctx, "u1"); f.Astrum != 50 {
		t.Fatalf("funds = %+v, stale mirror served", f)
	}

	// 重置成功后重新启用
	mirror.failPublish, mirror.failForget = false, false
	if err := c.ResetMirror(ctx); err != nil {
		t.Fatal(err)
	}
	setAstrum(70)
	if got, ok := mirror.published["u1"]; !ok || got.Astrum != 70 {
		t.Fatalf("mirror after reset = %+v, %v", got, ok)
	}
	if f, _ := c.Funds(ctx, "u1"); f.Astrum != 70 {
		t.Fatalf("funds = %+v", f)
	}
}
