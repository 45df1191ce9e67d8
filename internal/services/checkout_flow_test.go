package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"grocerypos/internal/cart"
	"grocerypos/internal/pricing"
	"grocerypos/internal/repos"
	"grocerypos/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE products(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, price NUMERIC,
	  stock_qty INTEGER CHECK (stock_qty >= 0), category TEXT, image_url TEXT,
	  created_at TEXT, updated_at TEXT);
	CREATE TABLE orders(id INTEGER PRIMARY KEY AUTOINCREMENT, employee_id INTEGER,
	  total_amount NUMERIC, tax_amount NUMERIC, discount_amount NUMERIC,
	  payment_method TEXT, status TEXT, created_at TEXT);
	CREATE TABLE order_items(id INTEGER PRIMARY KEY AUTOINCREMENT, order_id INTEGER,
	  product_id INTEGER, product_name_snapshot TEXT, unit_price_snapshot NUMERIC,
	  quantity INTEGER, line_total NUMERIC);
	CREATE TABLE users(id INTEGER PRIMARY KEY AUTOINCREMENT, username TEXT,
	  password_hash TEXT, role TEXT, created_at TEXT);

	INSERT INTO users(username,password_hash,role) VALUES ('john_doe','x','employee');
	INSERT INTO products(id,name,price,stock_qty,category,created_at)
	  VALUES (1,'Apple (Red)',2.50,100,'fruits','now'),
	         (3,'Milk (1L)',4.99,0,'dairy','now');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func newServices(db *sqlx.DB) (*cart.Store, *services.CartService, *services.CheckoutService, *repos.OrderRepo, *repos.ProductRepo) {
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	carts := cart.NewStore()
	calc := pricing.NewCalculator(decimal.RequireFromString("8.5"))
	cartSvc := services.NewCartService(carts, prodRepo, calc)
	checkoutSvc := services.NewCheckoutService(db, carts, prodRepo, orderRepo, calc)
	return carts, cartSvc, checkoutSvc, orderRepo, prodRepo
}

func TestCheckoutSuccessFlow(t *testing.T) {
	db := memdb(t)
	_, cartSvc, checkoutSvc, orderRepo, prodRepo := newServices(db)

	sid := "test-session"
	if _, err := cartSvc.Add(sid, 1, 3); err != nil {
		t.Fatal(err)
	}

	oid, err := checkoutSvc.Place(sid, 1, "cash")
	if err != nil {
		t.Fatal(err)
	}
	if oid == 0 {
		t.Fatal("no order id")
	}

	o, items, err := orderRepo.Get(oid)
	if err != nil {
		t.Fatal(err)
	}
	// subtotal 7.50, tax 0.64 (0.6375 half-up), total 8.14
	if o.TaxAmount.StringFixed(2) != "0.64" {
		t.Fatalf("tax = %s, want 0.64", o.TaxAmount.StringFixed(2))
	}
	if o.TotalAmount.StringFixed(2) != "8.14" {
		t.Fatalf("total = %s, want 8.14", o.TotalAmount.StringFixed(2))
	}
	if o.Status != "completed" || o.PaymentMethod != "cash" {
		t.Fatalf("bad order header: %+v", o)
	}
	if !o.DiscountAmount.IsZero() {
		t.Fatalf("discount should be zero, got %s", o.DiscountAmount)
	}

	// round-trip invariant: sum(line_total) + tax == total exactly
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal)
	}
	if !sum.Add(o.TaxAmount).Equal(o.TotalAmount) {
		t.Fatalf("sum(line_total)+tax = %s, total = %s", sum.Add(o.TaxAmount), o.TotalAmount)
	}

	// stock decremented 100 -> 97
	p, err := prodRepo.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if p.StockQty != 97 {
		t.Fatalf("want stock 97, got %d", p.StockQty)
	}

	// cart cleared only after commit
	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Lines) != 0 || cv.ItemCount != 0 {
		t.Fatalf("cart should be empty after checkout: %+v", cv)
	}
}

func TestCheckoutBlockedByShortageLeavesEverythingUntouched(t *testing.T) {
	db := memdb(t)
	carts, cartSvc, checkoutSvc, orderRepo, prodRepo := newServices(db)

	sid := "test-session"
	if _, err := cartSvc.Add(sid, 1, 2); err != nil {
		t.Fatal(err)
	}
	// product 3 is sold out; seed the entry directly the way a stale cart
	// would hold it
	carts.Get(sid).Add("3", 1)

	_, err := checkoutSvc.Place(sid, 1, "upi")
	var se *services.StockError
	if !errors.As(err, &se) {
		t.Fatalf("want StockError, got %v", err)
	}
	if len(se.Errors) != 1 {
		t.Fatalf("want one itemized error, got %v", se.Errors)
	}

	// zero orders, zero items, zero decrements
	if n, _ := orderRepo.Count(); n != 0 {
		t.Fatalf("no order should exist, got %d", n)
	}
	var itemCount int
	if err := db.Get(&itemCount, `SELECT COUNT(*) FROM order_items`); err != nil {
		t.Fatal(err)
	}
	if itemCount != 0 {
		t.Fatalf("no order items should exist, got %d", itemCount)
	}
	p, _ := prodRepo.Get(1)
	if p.StockQty != 100 {
		t.Fatalf("stock must be untouched, got %d", p.StockQty)
	}

	// cart unchanged
	c := carts.Get(sid)
	if c.Qty("1") != 2 || c.Qty("3") != 1 {
		t.Fatalf("cart changed: %v", c.Items())
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := memdb(t)
	_, _, checkoutSvc, _, _ := newServices(db)

	_, err := checkoutSvc.Place("fresh-session", 1, "cash")
	if err != services.ErrEmptyCart {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestSnapshotsPriceAtCheckoutAndStayImmutable(t *testing.T) {
	db := memdb(t)
	_, cartSvc, checkoutSvc, orderRepo, prodRepo := newServices(db)

	sid := "test-session"
	if _, err := cartSvc.Add(sid, 1, 1); err != nil {
		t.Fatal(err)
	}

	// reprice after add-to-cart: the snapshot must carry the checkout-time
	// price, not the add-time price
	if err := prodRepo.Update(1, "Apple (Red)", decimal.RequireFromString("3.00"), 100, "fruits", ""); err != nil {
		t.Fatal(err)
	}

	oid, err := checkoutSvc.Place(sid, 1, "cash")
	if err != nil {
		t.Fatal(err)
	}
	_, items, err := orderRepo.Get(oid)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].UnitPriceSnapshot.StringFixed(2) != "3.00" {
		t.Fatalf("snapshot should be checkout-time price 3.00: %+v", items)
	}

	// mutate the product again; the historical snapshot must not move
	if err := prodRepo.Update(1, "Apple (Green)", decimal.RequireFromString("9.99"), 50, "fruits", ""); err != nil {
		t.Fatal(err)
	}
	_, items, err = orderRepo.Get(oid)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].ProductNameSnapshot != "Apple (Red)" || items[0].UnitPriceSnapshot.StringFixed(2) != "3.00" {
		t.Fatalf("snapshots must be immutable: %+v", items[0])
	}
}
