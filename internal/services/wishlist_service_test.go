package services_test

import (
	"errors"
	"testing"

	"bazaar/internal/domain"
	"bazaar/internal/repos"
	"bazaar/internal/services"
)

func newWishSvc(t *testing.T) (*services.WishlistService, *env) {
	t.Helper()
	e := newEnv(t)
	wishRepo := repos.NewWishlistRepo(e.db)
	custRepo := repos.NewCustomerRepo(e.db)
	return services.NewWishlistService(wishRepo, custRepo), e
}

func TestWishlistSaveIsIdempotent(t *testing.T) {
	svc, _ := newWishSvc(t)
	if err := svc.Save("c-sara", "kb-mech-01"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save("c-sara", "kb-mech-01"); err != nil {
		t.Fatal(err)
	}
	items, err := svc.List("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 item, got %d", len(items))
	}
	if items[0].Title != "Mechanical Keyboard" || items[0].Price != 350 {
		t.Fatalf("bad wishlist row: %+v", items[0])
	}

	if err := svc.Unsave("c-sara", "kb-mech-01"); err != nil {
		t.Fatal(err)
	}
	items, _ = svc.List("c-sara")
	if len(items) != 0 {
		t.Fatalf("unsave left %d items", len(items))
	}
}

func TestEnsureShareReusesToken(t *testing.T) {
	svc, _ := newWishSvc(t)
	first, err := svc.EnsureShare("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	if first.ShareToken == "" || !first.IsActive {
		t.Fatalf("bad fresh share: %+v", first)
	}
	second, err := svc.EnsureShare("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	if second.ShareToken != first.ShareToken {
		t.Fatal("EnsureShare rotated the token")
	}
}

func TestRegenerateTokenKillsOldLink(t *testing.T) {
	svc, _ := newWishSvc(t)
	old, err := svc.EnsureShare("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := svc.RegenerateToken("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.ShareToken == old.ShareToken {
		t.Fatal("token did not change")
	}
	if _, err := svc.GetShared(old.ShareToken); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("old token still resolves: %v", err)
	}
	if _, err := svc.GetShared(fresh.ShareToken); err != nil {
		t.Fatalf("new token does not resolve: %v", err)
	}
}

func TestGetSharedCountsViewsAndRespectsToggle(t *testing.T) {
	svc, _ := newWishSvc(t)
	if err := svc.Save("c-sara", "bk-sahara"); err != nil {
		t.Fatal(err)
	}
	sh, err := svc.EnsureShare("c-sara")
	if err != nil {
		t.Fatal(err)
	}

	view, err := svc.GetShared(sh.ShareToken)
	if err != nil {
		t.Fatal(err)
	}
	if view.OwnerName != "Sara" || len(view.Items) != 1 {
		t.Fatalf("bad shared view: %+v", view)
	}
	if _, err := svc.GetShared(sh.ShareToken); err != nil {
		t.Fatal(err)
	}
	after, _ := svc.EnsureShare("c-sara")
	if after.ViewsCount != 2 {
		t.Fatalf("want 2 views, got %d", after.ViewsCount)
	}

	// Deactivated shares look exactly like missing ones.
	if err := svc.SetShareActive("c-sara", false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetShared(sh.ShareToken); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deactivated share still resolves: %v", err)
	}
	if err := svc.SetShareActive("c-sara", true); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetShared(sh.ShareToken); err != nil {
		t.Fatalf("reactivated share does not resolve: %v", err)
	}
}

func TestShareCustomMessage(t *testing.T) {
	svc, _ := newWishSvc(t)
	sh, err := svc.EnsureShare("c-sara")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SetShareMessage("c-sara", "Birthday ideas!"); err != nil {
		t.Fatal(err)
	}
	view, err := svc.GetShared(sh.ShareToken)
	if err != nil {
		t.Fatal(err)
	}
	if view.CustomMessage != "Birthday ideas!" {
		t.Fatalf("message not shown: %q", view.CustomMessage)
	}
}
