package reward

import (
	"testing"

	"github.com/SlpAus/life-gacha-backend/internal/economy"
	"github.com/SlpAus/life-gacha-backend/internal/gacha"
	"github.com/SlpAus/life-gacha-backend/internal/ledger"
)

func testPolicy(t *testing.T) *economy.Policy {
	t.Helper()
	p := economy.DefaultPolicy()
	if err := economy.Validate(p); err != nil {
		t.Fatal(err)
	}
	return p
}

func countByID(l *ledger.Ledger) map[ledger.VoucherID]int {
	out := map[ledger.VoucherID]int{}
	for _, v := range l.Vouchers {
		out[v.ID]++
	}
	return out
}

func TestTicketPreference(t *testing.T) {
	p := testPolicy(t)
	cases := []struct {
		name       string
		astrai     uint64
		wantAstrai uint64
		wantAstrum uint64
	}{
		{"ticket available", 1, 0, 1600},
		{"no ticket", 0, 0, 1600 - 160},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := ledger.New("u", "u", ledger.Seed{Astrai: tc.astrai, Astrum: 1600}, nil)
			ApplyOutcome(l, gacha.RarityB, p, gacha.NewSequence(0.9))
			if l.Astrai != tc.wantAstrai || l.Astrum != tc.wantAstrum {
				t.Fatalf("astrai=%d astrum=%d, want %d/%d", l.Astrai, l.Astrum, tc.wantAstrai, tc.wantAstrum)
			}
			if l.Totals.Pulls != 1 {
				t.Fatalf("total pulls = %d", l.Totals.Pulls)
			}
		})
	}
}

func TestMythicBundleSetsSlip(t *testing.T) {
	p := testPolicy(t)
	l := ledger.New("u", "u", ledger.Seed{Astrai: 1}, nil)

	// 0.9 >= single_chance，走礼包分支
	out := ApplyOutcome(l, gacha.RarityMythicSSS, p, gacha.NewSequence(0.9))
	if !l.HasSlip {
		t.Fatal("bundle branch must set has_slip")
	}
	if len(out.Vouchers) != 9 {
		t.Fatalf("bundle granted %d vouchers, want 9", len(out.Vouchers))
	}
	got := countByID(l)
	want := map[ledger.VoucherID]int{
		economy.VoucherGaming: 2, economy.VoucherOffDay: 1,
		economy.VoucherCoffee: 3, economy.VoucherJapanese: 3,
	}
	for id, n := range want {
		if got[id] != n {
			t.Errorf("voucher %d: got %d, want %d", id, got[id], n)
		}
	}
	if l.Flux != 2400 || l.Totals.FluxAcquired != 2400 {
		t.Fatalf("flux = %d", l.Flux)
	}

	// has_slip 之后总是发放单张高价值券
	l.Astrai = 1
	out = ApplyOutcome(l, gacha.RarityMythicSSS, p, gacha.NewSequence(0.9))
	if len(out.Vouchers) != 1 || out.Vouchers[0].ID != economy.VoucherMythicWeek {
		t.Fatalf("expected mythic week, got %+v", out.Vouchers)
	}
	if !l.HasSlip {
		t.Fatal("has_slip must never revert")
	}
}

func TestMythicSingleBranch(t *testing.T) {
	p := testPolicy(t)
	l := ledger.New("u", "u", ledger.Seed{Astrai: 1}, nil)
	out := ApplyOutcome(l, gacha.RarityMythicSSS, p, gacha.NewSequence(0.1))
	if l.HasSlip {
		t.Fatal("single branch must not set has_slip")
	}
	if len(out.Vouchers) != 1 || out.Vouchers[0].ID != economy.VoucherMythicWeek {
		t.Fatalf("got %+v", out.Vouchers)
	}
}

func TestSBonusSlotsIndependent(t *testing.T) {
	p := testPolicy(t)
	cases := []struct {
		name  string
		draws []float64
		want  int
	}{
		{"none", []float64{0.99, 0.99, 0.99}, 1},
		{"first only", []float64{0.1, 0.99, 0.99}, 2},
		{"second and third", []float64{0.99, 0.1, 0.01}, 3},
		{"all", []float64{0.01, 0.01, 0.01}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := ledger.New("u", "u", ledger.Seed{Astrai: 1}, nil)
			out := ApplyOutcome(l, gacha.RarityS, p, gacha.NewSequence(tc.draws...))
			if len(out.Vouchers) != tc.want {
				t.Fatalf("granted %d, want %d", len(out.Vouchers), tc.want)
			}
			if out.Vouchers[0].ID != economy.VoucherJapanese {
				t.Fatalf("first voucher should be the guaranteed one, got %d", out.Vouchers[0].ID)
			}
			if l.Flux != 240 {
				t.Fatalf("flux = %d", l.Flux)
			}
		})
	}
}

func TestAAndB(t *testing.T) {
	p := testPolicy(t)

	l := ledger.New("u", "u", ledger.Seed{Astrum: 1600}, nil)
	out := ApplyOutcome(l, gacha.RarityA, p, gacha.NewSequence(0.5))
	if len(out.Vouchers) != 1 || out.Vouchers[0].ID != economy.VoucherBreak || l.Flux != 75 {
		t.Fatalf("A outcome = %+v flux=%d", out, l.Flux)
	}

	l = ledger.New("u", "u", ledger.Seed{Astrum: 1600}, nil)
	out = ApplyOutcome(l, gacha.RarityB, p, gacha.NewSequence(0.5))
	if len(out.Vouchers) != 0 || l.Flux != 5 {
		t.Fatalf("B outcome = %+v flux=%d", out, l.Flux)
	}
	out = ApplyOutcome(l, gacha.RarityB, p, gacha.NewSequence(0.001))
	if len(out.Vouchers) != 1 || out.Vouchers[0].ID != economy.VoucherGaming {
		t.Fatalf("B bonus = %+v", out.Vouchers)
	}
}

func TestApplyOutcomeNeverTouchesPity(t *testing.T) {
	p := testPolicy(t)
	rng := gacha.NewSeededRNG(3)
	l := ledger.New("u", "u", ledger.Seed{Astrai: 100}, nil)
	l.Pity = gacha.PityCounters{SSS: 5, S: 6, A: 7}
	for i, r := range []gacha.Rarity{gacha.RarityMythicSSS, gacha.RarityS, gacha.RarityA, gacha.RarityB} {
		ApplyOutcome(l, r, p, rng)
		if l.Pity != (gacha.PityCounters{SSS: 5, S: 6, A: 7}) {
			t.Fatalf("pity changed after %s", r)
		}
		if l.Totals.Pulls != uint64(i+1) {
			t.Fatalf("total pulls = %d", l.Totals.Pulls)
		}
	}
}

func TestCanAfford(t *testing.T) {
	p := testPolicy(t)
	if CanAfford(ledger.New("u", "u", ledger.Seed{Astrum: 159}, nil), p) {
		t.Fatal("159 astrum and no tickets should not afford a pull")
	}
	if !CanAfford(ledger.New("u", "u", ledger.Seed{Astrum: 160}, nil), p) {
		t.Fatal("160 astrum should afford a pull")
	}
	if !CanAfford(ledger.New("u", "u", ledger.Seed{Astrai: 1}, nil), p) {
		t.Fatal("a ticket should afford a pull")
	}
}
