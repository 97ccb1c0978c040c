package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"velvet/internal/config"
	"velvet/internal/http/handlers"
	"velvet/internal/payments"
	"velvet/internal/repos"
)

type fakeSessions struct {
	last payments.SessionRequest
	fail error
}

func (f *fakeSessions) CreateSession(req payments.SessionRequest) (payments.Session, error) {
	f.last = req
	if f.fail != nil {
		return payments.Session{}, f.fail
	}
	return payments.Session{ID: "cs_test_123", URL: "https://pay.example/cs_test_123"}, nil
}

type fakeObjects struct{}

func (fakeObjects) Upload(path string, data []byte) (string, error) {
	return "/media/products/" + path, nil
}
func (fakeObjects) Remove(path string) error { return nil }

func storeApp(t *testing.T, pay *fakeSessions) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{BaseURL: "http://localhost:8080"}
	deps := handlers.NewDeps(db, cfg, pay, fakeObjects{})

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/remove", deps.CartHandler.Remove)
	app.Get("/checkout", deps.CheckoutHandler.Form)
	app.Post("/orders", deps.CheckoutHandler.Place)
	app.Get("/checkout/success", deps.CheckoutHandler.Success)
	app.Get("/api/v1/cart/count", deps.CartHandler.Count)
	return app, db
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func csrfToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/cart", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func postForm(t *testing.T, app *fiber.App, path, sid, csrfTok string, form url.Values) *http.Response {
	t.Helper()
	form.Set("csrf", csrfTok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: csrfTok})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestCartAddAndCount(t *testing.T) {
	app, _ := storeApp(t, &fakeSessions{})
	tok := csrfToken(t, app)
	sid := "sid-cart-test"

	resp := postForm(t, app, "/cart", sid, tok, url.Values{"productId": {"ring-aurora"}, "qty": {"2"}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("want redirect after add, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/api/v1/cart/count", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	cntResp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body := make([]byte, 64)
	n, _ := cntResp.Body.Read(body)
	if !strings.Contains(string(body[:n]), `"count":2`) {
		t.Fatalf("unexpected count body: %s", body[:n])
	}
}

func TestCartAddRejectsBadProductID(t *testing.T) {
	app, _ := storeApp(t, &fakeSessions{})
	tok := csrfToken(t, app)

	resp := postForm(t, app, "/cart", "sid-x", tok, url.Values{"productId": {"../../etc"}, "qty": {"1"}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for invalid id, got %d", resp.StatusCode)
	}
}

func TestCheckoutRedirectsToPaymentPage(t *testing.T) {
	pay := &fakeSessions{}
	app, _ := storeApp(t, pay)
	tok := csrfToken(t, app)
	sid := "sid-checkout-test"

	postForm(t, app, "/cart", sid, tok, url.Values{"productId": {"ring-aurora"}, "qty": {"1"}})

	resp := postForm(t, app, "/orders", sid, tok, url.Values{
		"email":       {"clara@velvet.test"},
		"first_name":  {"Clara"},
		"last_name":   {"Hale"},
		"phone":       {"07700 900123"},
		"address":     {"1 Mill Lane"},
		"city":        {"Bath"},
		"postal_code": {"BA1 1AA"},
		"country":     {"United Kingdom"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("want 303 to payment page, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "https://pay.example/cs_test_123" {
		t.Fatalf("bad redirect location: %s", loc)
	}
	if pay.last.CustomerEmail != "clara@velvet.test" {
		t.Fatalf("session request missing customer email: %+v", pay.last)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	app, _ := storeApp(t, &fakeSessions{})
	tok := csrfToken(t, app)

	resp := postForm(t, app, "/orders", "sid-empty", tok, url.Values{
		"email":       {"clara@velvet.test"},
		"first_name":  {"Clara"},
		"last_name":   {"Hale"},
		"phone":       {"07700 900123"},
		"address":     {"1 Mill Lane"},
		"city":        {"Bath"},
		"postal_code": {"BA1 1AA"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for empty cart, got %d", resp.StatusCode)
	}
}

func TestCheckoutInvalidEmailRejected(t *testing.T) {
	app, _ := storeApp(t, &fakeSessions{})
	tok := csrfToken(t, app)
	sid := "sid-bademail"

	postForm(t, app, "/cart", sid, tok, url.Values{"productId": {"ring-sable"}, "qty": {"1"}})

	resp := postForm(t, app, "/orders", sid, tok, url.Values{
		"email":       {"not-an-email"},
		"first_name":  {"Clara"},
		"last_name":   {"Hale"},
		"phone":       {"07700 900123"},
		"address":     {"1 Mill Lane"},
		"city":        {"Bath"},
		"postal_code": {"BA1 1AA"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for bad email, got %d", resp.StatusCode)
	}
}

func TestCheckoutSessionFailureKeepsPendingOrder(t *testing.T) {
	pay := &fakeSessions{fail: errors.New("stripe down")}
	app, db := storeApp(t, pay)
	tok := csrfToken(t, app)
	sid := "sid-fail"

	postForm(t, app, "/cart", sid, tok, url.Values{"productId": {"ring-sable"}, "qty": {"1"}})

	resp := postForm(t, app, "/orders", sid, tok, url.Values{
		"email":       {"clara@velvet.test"},
		"first_name":  {"Clara"},
		"last_name":   {"Hale"},
		"phone":       {"07700 900123"},
		"address":     {"1 Mill Lane"},
		"city":        {"Bath"},
		"postal_code": {"BA1 1AA"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 on session failure, got %d", resp.StatusCode)
	}

	// The pending row survives the failure.
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders WHERE status = 'pending' AND session_id = ?`, sid); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected one orphaned pending order, got %d", n)
	}
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	app, _ := storeApp(t, &fakeSessions{})
	tok := csrfToken(t, app)
	sid := "sid-success"

	postForm(t, app, "/cart", sid, tok, url.Values{"productId": {"ring-aurora"}, "qty": {"1"}})

	req := httptest.NewRequest("GET", "/checkout/success?order_id=ord-1", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	cntReq := httptest.NewRequest("GET", "/api/v1/cart/count", nil)
	cntReq.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	cntResp, err := app.Test(cntReq)
	if err != nil {
		t.Fatal(err)
	}
	body := make([]byte, 64)
	n, _ := cntResp.Body.Read(body)
	if !strings.Contains(string(body[:n]), `"count":0`) {
		t.Fatalf("cart should be empty after success, got %s", body[:n])
	}
}
