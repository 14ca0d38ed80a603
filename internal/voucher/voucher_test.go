package voucher

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
	"github.com/SlpAus/life-gacha-backend/internal/ledger/ledgertest"
	"github.com/google/uuid"
)

type fixture struct {
	store *ledgertest.MemoryStore
	svc   *Service
}

func newFixture(t *testing.T, flux int64) *fixture {
	t.Helper()
	p := economy.DefaultPolicy()
	p.Start.Flux = flux
	if err := economy.Validate(p); err != nil {
		t.Fatal(err)
	}
	store := ledgertest.NewMemoryStore()
	store.Put(t, p.NewLedger("u1", "u1"))
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewService(ledger.NewCoordinator(store), economy.NewHolder(p), func() time.Time { return now })
	return &fixture{store: store, svc: svc}
}

func TestPurchaseInsufficientFundsLeavesLedgerUnchanged(t *testing.T) {
	f := newFixture(t, 100)
	before := f.store.Get(t, "u1")

	_, err := f.svc.Purchase(context.Background(), "u1", economy.VoucherOffDay, 1)
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	after := f.store.Get(t, "u1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("ledger changed:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestPurchaseGrantsDistinctInstances(t *testing.T) {
	f := newFixture(t, 500)
	res, err := f.svc.Purchase(context.Background(), "u1", economy.VoucherCoffeeStd, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Vouchers) != 3 || res.Spent != 225 || res.Flux != 275 {
		t.Fatalf("result = %+v", res)
	}
	seen := map[uuid.UUID]bool{}
	for _, v := range res.Vouchers {
		if seen[v.UUID] {
			t.Fatal("duplicate voucher UUID")
		}
		seen[v.UUID] = true
	}

	l := f.store.Get(t, "u1")
	if l.Flux != 275 || len(l.Vouchers) != 3 {
		t.Fatalf("flux=%d vouchers=%d", l.Flux, len(l.Vouchers))
	}
	if l.TodaysFlux != 225 {
		t.Fatalf("todays_flux = %d, want 225", l.TodaysFlux)
	}
}

func TestPurchaseRejections(t *testing.T) {
	f := newFixture(t, 100000)
	cases := []struct {
		name   string
		id     ledger.VoucherID
		amount int
		want   error
	}{
		{"zero amount", economy.VoucherCoffee, 0, ledger.ErrInvalidRequest},
		{"too many", economy.VoucherCoffee, 256, ledger.ErrInvalidRequest},
		{"unknown id", 4242, 1, ledger.ErrCatalogEntryMissing},
		{"reward only", economy.VoucherBreak, 1, ledger.ErrCatalogEntryMissing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Purchase(context.Background(), "u1", tc.id, tc.amount); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateTemplateThenPurchase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100)

	if _, err := f.svc.CreateTemplate(ctx, "u1", TemplateInput{ID: 50, Name: "", Cost: 10}); !errors.Is(err, ledger.ErrInvalidCatalogEntry) {
		t.Fatalf("empty name: %v", err)
	}
	if _, err := f.svc.CreateTemplate(ctx, "u1", TemplateInput{ID: 50, Name: "Walk", Cost: 0}); !errors.Is(err, ledger.ErrInvalidCatalogEntry) {
		t.Fatalf("zero cost: %v", err)
	}
	if _, err := f.svc.CreateTemplate(ctx, "u1", TemplateInput{ID: economy.VoucherGaming, Name: "Dup", Cost: 5}); !errors.Is(err, ledger.ErrInvalidCatalogEntry) {
		t.Fatalf("builtin collision: %v", err)
	}

	tpl, err := f.svc.CreateTemplate(ctx, "u1", TemplateInput{ID: 50, Name: "Walk", Cost: 40, Description: "Evening walk"})
	if err != nil {
		t.Fatal(err)
	}
	if tpl.Kind != ledger.KindStore {
		t.Fatalf("kind = %q", tpl.Kind)
	}
	if _, err := f.svc.CreateTemplate(ctx, "u1", TemplateInput{ID: 50, Name: "Again", Cost: 1}); !errors.Is(err, ledger.ErrInvalidCatalogEntry) {
		t.Fatalf("user collision: %v", err)
	}

	res, err := f.svc.Purchase(ctx, "u1", 50, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Flux != 20 || res.Vouchers[0].Name != "Walk" {
		t.Fatalf("result = %+v", res)
	}

	store, err := f.svc.Store(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if store[len(store)-1].ID != 50 {
		t.Fatal("custom template missing from store")
	}
}

func TestConsumeAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1000)

	res, err := f.svc.Purchase(ctx, "u1", economy.VoucherCoffee, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Purchase(ctx, "u1", economy.VoucherJapanese, 1); err != nil {
		t.Fatal(err)
	}

	coffee := economy.VoucherCoffee
	list, err := f.svc.List(ctx, "u1", ListFilter{ID: &coffee})
	if err != nil || len(list) != 2 {
		t.Fatalf("filtered list = %d, %v", len(list), err)
	}

	consumed, err := f.svc.Consume(ctx, "u1", res.Vouchers[0].UUID)
	if err != nil {
		t.Fatal(err)
	}
	if consumed.UUID != res.Vouchers[0].UUID {
		t.Fatal("consumed the wrong voucher")
	}
	if _, err := f.svc.Consume(ctx, "u1", res.Vouchers[0].UUID); !errors.Is(err, ledger.ErrVoucherNotFound) {
		t.Fatalf("double consume: %v", err)
	}

	all, err := f.svc.List(ctx, "u1", ListFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %d, %v", len(all), err)
	}

	n, err := f.svc.MarkSeen(ctx, "u1")
	if err != nil || n != 2 {
		t.Fatalf("MarkSeen = %d, %v", n, err)
	}
}
