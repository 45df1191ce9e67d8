package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"

	"grocerypos/internal/cart"
	"grocerypos/internal/config"
	"grocerypos/internal/http/handlers"
	"grocerypos/internal/repos"
	"grocerypos/internal/services"

	"github.com/shopspring/decimal"
)

// registerApp wires the employee-facing routes the way main does, minus the
// csrf/limiter middleware that the flow under test does not exercise.
func registerApp(t *testing.T) (*fiber.App, *repos.ProductRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	carts := cart.NewStore()
	cfg := config.Config{TaxRate: decimal.RequireFromString("8.5"), PageSize: 10, StoreName: "Grocery Store V2"}

	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	deps := handlers.NewDeps(db, cfg, authSvc, carts)
	employee := handlers.RequireEmployee(authSvc)
	app.Get("/products", employee, deps.ProductHandler.Browse)
	app.Get("/cart", employee, deps.CartHandler.View)
	app.Post("/cart/add/:id", employee, deps.CartHandler.Add)
	app.Post("/cart/remove/:id", employee, deps.CartHandler.Remove)
	app.Get("/checkout", employee, deps.OrderHandler.CheckoutForm)
	app.Post("/checkout", employee, deps.OrderHandler.Place)
	app.Get("/orders/:id/invoice", handlers.RequireUser(authSvc), deps.OrderHandler.Invoice)

	if err := userRepo.BindSession("sid-emp", mustUserID(t, userRepo, "john_doe")); err != nil {
		t.Fatal(err)
	}
	return app, repos.NewProductRepo(db)
}

func asEmployee(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid-emp"})
	return req
}

func TestRegisterFlowAddCheckoutInvoice(t *testing.T) {
	app, prodRepo := registerApp(t)

	// seeded product 1 is Apple (Red) at 2.50 with stock 100
	req := asEmployee(httptest.NewRequest("POST", "/cart/add/1", strings.NewReader("quantity=3")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("add should redirect, got %d", resp.StatusCode)
	}

	// cart page shows the line
	resp, err = app.Test(asEmployee(httptest.NewRequest("GET", "/cart", nil)))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Apple (Red)") {
		t.Fatalf("cart page missing line item (status %d)", resp.StatusCode)
	}

	// place the order
	req = asEmployee(httptest.NewRequest("POST", "/checkout", strings.NewReader("payment_method=cash")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("checkout should redirect to the invoice, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/orders/") || !strings.HasSuffix(loc, "/invoice") {
		t.Fatalf("unexpected redirect target %s", loc)
	}

	// invoice renders with snapshot and totals
	resp, err = app.Test(asEmployee(httptest.NewRequest("GET", loc, nil)))
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Apple (Red)") {
		t.Fatalf("invoice missing snapshot line (status %d)", resp.StatusCode)
	}

	// stock decremented
	p, err := prodRepo.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQty != 97 {
		t.Fatalf("want stock 97, got %d", p.StockQty)
	}

	// cart is empty again
	resp, err = app.Test(asEmployee(httptest.NewRequest("GET", "/cart", nil)))
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	if strings.Contains(string(body), "Apple (Red)") {
		t.Fatal("cart should be empty after checkout")
	}
}

func TestAddRejectsBadQuantityWithoutTouchingCart(t *testing.T) {
	app, _ := registerApp(t)

	for _, qty := range []string{"-5", "0", "abc"} {
		req := asEmployee(httptest.NewRequest("POST", "/cart/add/1", strings.NewReader("quantity="+qty)))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("quantity=%s should be rejected with 400, got %d", qty, resp.StatusCode)
		}
	}

	// no line item sneaked in
	resp, err := app.Test(asEmployee(httptest.NewRequest("GET", "/cart", nil)))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "Apple (Red)") {
		t.Fatal("cart must stay empty after rejected quantities")
	}
}

func TestCheckoutFormEmptyCartRedirects(t *testing.T) {
	app, _ := registerApp(t)
	resp, err := app.Test(asEmployee(httptest.NewRequest("GET", "/checkout", nil)))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("empty cart should bounce back to products, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/products") {
		t.Fatalf("unexpected redirect %s", loc)
	}
}

func TestInvoiceHiddenFromOtherEmployees(t *testing.T) {
	app, _ := registerApp(t)

	req := asEmployee(httptest.NewRequest("POST", "/cart/add/1", strings.NewReader("quantity=1")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}
	req = asEmployee(httptest.NewRequest("POST", "/checkout", strings.NewReader("payment_method=upi")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	loc := resp.Header.Get("Location")

	// a different signed-in identity must get 404, not the receipt
	other := httptest.NewRequest("GET", loc, nil)
	other.AddCookie(&http.Cookie{Name: "sid", Value: "sid-other"})
	respOther, err := app.Test(other)
	if err != nil {
		t.Fatal(err)
	}
	if respOther.StatusCode == http.StatusOK {
		t.Fatal("foreign session should not see the invoice")
	}
}
