package services_test

import (
	"testing"
	"time"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/services"
)

func newDiscSvc(t *testing.T) (*services.DiscountService, *env) {
	t.Helper()
	e := newEnv(t)
	return services.NewDiscountService(repos.NewDiscountRepo(e.db)), e
}

func stamp(tm time.Time) string { return tm.UTC().Format("2006-01-02 15:04:05") }

func TestSweepActivatesAndExpires(t *testing.T) {
	svc, e := newDiscSvc(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	plan := domain.DiscountPlan{
		ID:            "p-spring",
		Name:          "Spring Sale",
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 10,
		StartsAt:      stamp(now.Add(-time.Hour)),
		EndsAt:        stamp(now.Add(time.Hour)),
	}
	if err := svc.CreatePlan(plan, []string{"kb-mech-01", "mouse-w-01"}); err != nil {
		t.Fatal(err)
	}

	// Window is open: sweep activates and writes the derived prices.
	if err := svc.Sweep(now); err != nil {
		t.Fatal(err)
	}
	kb, err := e.prods.Get("kb-mech-01")
	if err != nil {
		t.Fatal(err)
	}
	if kb.DiscountedPrice == nil || *kb.DiscountedPrice != 315 {
		t.Fatalf("kb not discounted: %+v", kb.DiscountedPrice)
	}
	if kb.EffectivePrice() != 315 {
		t.Fatalf("effective price %v", kb.EffectivePrice())
	}
	plans, err := svc.ListPlans()
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 || plans[0].Status != domain.PlanActive {
		t.Fatalf("plan not active: %+v", plans)
	}

	// Sweeping again inside the window is a no-op.
	if err := svc.Sweep(now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	// Window closed: prices roll back, plan expires.
	if err := svc.Sweep(now.Add(2 * time.Hour)); err != nil {
		t.Fatal(err)
	}
	kb, _ = e.prods.Get("kb-mech-01")
	if kb.DiscountedPrice != nil || kb.PlanID != nil {
		t.Fatalf("discount survived expiry: %+v", kb)
	}
	if kb.EffectivePrice() != 350 {
		t.Fatalf("effective price after expiry %v", kb.EffectivePrice())
	}
	plans, _ = svc.ListPlans()
	if plans[0].Status != domain.PlanExpired {
		t.Fatalf("plan not expired: %+v", plans[0])
	}
}

func TestFixedDiscountFloorsAtZero(t *testing.T) {
	svc, e := newDiscSvc(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	plan := domain.DiscountPlan{
		ID:            "p-free",
		Name:          "Giveaway",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 1000,
		StartsAt:      stamp(now.Add(-time.Minute)),
		EndsAt:        stamp(now.Add(time.Hour)),
	}
	if err := svc.CreatePlan(plan, []string{"bk-sahara"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Sweep(now); err != nil {
		t.Fatal(err)
	}
	bk, err := e.prods.Get("bk-sahara")
	if err != nil {
		t.Fatal(err)
	}
	if bk.DiscountedPrice == nil || *bk.DiscountedPrice != 0 {
		t.Fatalf("fixed discount did not floor at zero: %+v", bk.DiscountedPrice)
	}
}

func TestCreatePlanValidation(t *testing.T) {
	svc, _ := newDiscSvc(t)
	bad := domain.DiscountPlan{ID: "p-bad", Name: "Bad", DiscountType: "bogo", DiscountValue: 5,
		StartsAt: "2026-01-01 00:00:00", EndsAt: "2026-02-01 00:00:00"}
	if err := svc.CreatePlan(bad, []string{"kb-mech-01"}); err == nil {
		t.Fatal("unknown discount type accepted")
	}
	bad.DiscountType = domain.DiscountPercentage
	bad.DiscountValue = -1
	if err := svc.CreatePlan(bad, []string{"kb-mech-01"}); err == nil {
		t.Fatal("negative discount accepted")
	}
}

// Cart snapshots keep the discounted price even after the plan expires.
func TestCartSnapshotsDiscountedPrice(t *testing.T) {
	svc, e := newDiscSvc(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	plan := domain.DiscountPlan{
		ID: "p-flash", Name: "Flash", DiscountType: domain.DiscountPercentage, DiscountValue: 50,
		StartsAt: stamp(now.Add(-time.Minute)), EndsAt: stamp(now.Add(time.Minute)),
	}
	if err := svc.CreatePlan(plan, []string{"kb-mech-01"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Sweep(now); err != nil {
		t.Fatal(err)
	}
	if err := e.cartSvc.Add("c-sara", "kb-mech-01", 1); err != nil {
		t.Fatal(err)
	}
	if err := svc.Sweep(now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	lines, err := e.carts.Lines("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Price != 175 {
		t.Fatalf("snapshot lost the sale price: %+v", lines)
	}
}
