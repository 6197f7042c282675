package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"bazaar/internal/cache"
	"bazaar/internal/config"
	"bazaar/internal/http/handlers"
	"bazaar/internal/repos"
)

func testApp(t *testing.T) (*fiber.App, *handlers.Deps, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)

	deps := handlers.NewDeps(db, config.Config{CacheTTL: time.Minute}, cache.NewMemory())

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	app.Post("/api/v1/login", limiter.New(limiter.Config{Max: 3, Expiration: time.Minute}), deps.AuthHandler.Login)
	app.Post("/api/v1/register", deps.AuthHandler.Register)
	app.Post("/api/v1/logout", deps.AuthHandler.Logout)

	api := app.Group("/api/v1", handlers.RequireCustomer(deps.Auth))
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders/:id", deps.OrderHandler.View)
	api.Post("/wishlist", deps.WishlistHandler.Save)
	api.Post("/wishlist/share", deps.WishlistHandler.Share)

	app.Get("/wishlist/shared/:token", deps.WishlistHandler.SharedPage)

	admin := app.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Get("/stats", deps.AdminHandler.Stats)

	return app, deps, db
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sidCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c.Value
		}
	}
	return ""
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/v1/login",
		`{"email":"`+email+`","password":"Passw0rd!"}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d", resp.StatusCode)
	}
	sid := sidCookie(resp)
	if sid == "" {
		t.Fatal("no sid cookie on login")
	}
	return sid
}

func TestSeededPasswordsAreHashed(t *testing.T) {
	_, _, db := testApp(t)
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM customers`); err != nil {
		t.Fatal(err)
	}
	if len(hashes) == 0 {
		t.Fatal("no customers seeded")
	}
	for _, h := range hashes {
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessFailAndThrottle(t *testing.T) {
	app, _, _ := testApp(t)

	respBad, err := app.Test(jsonReq("POST", "/api/v1/login",
		`{"email":"sara@bazaar.test","password":"WrongPass1!"}`), -1)
	if err != nil {
		t.Fatal(err)
	}
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}

	login(t, app, "sara@bazaar.test")

	// Limiter allows 3 attempts per window; the fourth gets throttled.
	for i := 0; i < 2; i++ {
		resp, err := app.Test(jsonReq("POST", "/api/v1/login",
			`{"email":"sara@bazaar.test","password":"WrongPass1!"}`), -1)
		if err != nil {
			t.Fatal(err)
		}
		if i == 1 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
		}
	}
}

func TestCartRequiresSession(t *testing.T) {
	app, _, _ := testApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestCheckoutOverHTTP(t *testing.T) {
	app, _, _ := testApp(t)
	sid := login(t, app, "sara@bazaar.test")

	add := jsonReq("POST", "/api/v1/cart", `{"product_id":"gc-steam-50","qty":2}`)
	add.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(add, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("cart add returned %d", resp.StatusCode)
	}

	view := httptest.NewRequest("GET", "/api/v1/cart", nil)
	view.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(view, -1)
	if err != nil {
		t.Fatal(err)
	}
	var cart struct {
		Total float64 `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		t.Fatal(err)
	}
	if cart.Total != 100 {
		t.Fatalf("cart total %v", cart.Total)
	}

	// Digital-only cart checks out without any address.
	place := jsonReq("POST", "/api/v1/orders", `{"addresses":{}}`)
	place.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(place, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("place returned %d: %s", resp.StatusCode, body)
	}
	var placed struct {
		OrderIDs []string `json:"order_ids"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&placed); err != nil {
		t.Fatal(err)
	}
	if len(placed.OrderIDs) != 1 {
		t.Fatalf("want 1 order, got %v", placed.OrderIDs)
	}

	// The order page is scoped to its owner.
	show := httptest.NewRequest("GET", "/api/v1/orders/"+placed.OrderIDs[0], nil)
	show.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err = app.Test(show, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("order view returned %d", resp.StatusCode)
	}

	other := login(t, app, "omar@bazaar.test")
	foreign := httptest.NewRequest("GET", "/api/v1/orders/"+placed.OrderIDs[0], nil)
	foreign.AddCookie(&http.Cookie{Name: "sid", Value: other})
	resp, err = app.Test(foreign, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("foreign order view returned %d", resp.StatusCode)
	}
}

func TestAdminStatsAuthz(t *testing.T) {
	app, _, _ := testApp(t)

	sid := login(t, app, "sara@bazaar.test")
	req := httptest.NewRequest("GET", "/admin/stats", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("customer reached admin stats: %d", resp.StatusCode)
	}

	adminSid := login(t, app, "admin@bazaar.test")
	req = httptest.NewRequest("GET", "/admin/stats", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: adminSid})
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin stats returned %d", resp.StatusCode)
	}
}

func TestSharedWishlistPage(t *testing.T) {
	app, _, _ := testApp(t)
	sid := login(t, app, "sara@bazaar.test")

	save := jsonReq("POST", "/api/v1/wishlist", `{"product_id":"bk-sahara"}`)
	save.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	if resp, err := app.Test(save, -1); err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("wishlist save: %v / %v", err, resp)
	}

	share := jsonReq("POST", "/api/v1/wishlist/share", `{}`)
	share.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(share, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Token == "" {
		t.Fatal("no share token")
	}

	page, err := app.Test(httptest.NewRequest("GET", "/wishlist/shared/"+out.Token, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if page.StatusCode != http.StatusOK {
		t.Fatalf("share page returned %d", page.StatusCode)
	}
	body, _ := io.ReadAll(page.Body)
	if !strings.Contains(string(body), "Desert Notes") {
		t.Fatalf("share page missing item: %s", body)
	}

	missing, err := app.Test(httptest.NewRequest("GET", "/wishlist/shared/not-a-real-token", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("bogus token returned %d", missing.StatusCode)
	}
}
