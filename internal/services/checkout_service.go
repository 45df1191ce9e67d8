package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"grocerypos/internal/cart"
	"grocerypos/internal/domain"
	"grocerypos/internal/pricing"
	"grocerypos/internal/repos"
)

var ErrEmptyCart = errors.New("cart is empty")

// StockError carries the itemized shortage reasons surfaced to the cashier.
type StockError struct {
	Errors []string
}

func (e *StockError) Error() string { return strings.Join(e.Errors, "; ") }

// StockResult is the advisory verdict of the stock validator. The
// authoritative check is the guarded decrement inside the checkout
// transaction, since stock may change between validation and commit.
type StockResult struct {
	Valid  bool
	Errors []string
}

// ValidateStock checks every cart entry against the resolved products,
// keyed by the cart's string product id.
func ValidateStock(items map[string]int, products map[string]domain.Product) StockResult {
	var errs []string
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		qty := items[key]
		p, ok := products[key]
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("Product %s not found", key))
		case !p.CanFulfill(qty):
			errs = append(errs, outOfStockMsg(p))
		}
	}
	return StockResult{Valid: len(errs) == 0, Errors: errs}
}

func outOfStockMsg(p domain.Product) string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d", p.Name, p.StockQty)
}

type CheckoutService struct {
	DB     *sqlx.DB
	Carts  *cart.Store
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Calc   pricing.Calculator
}

func NewCheckoutService(db *sqlx.DB, carts *cart.Store, prods *repos.ProductRepo, orders *repos.OrderRepo, calc pricing.Calculator) *CheckoutService {
	return &CheckoutService{DB: db, Carts: carts, Prods: prods, Orders: orders, Calc: calc}
}

// Place converts the session cart into a persisted order: resolve products,
// revalidate stock, snapshot name and current price into line items, insert
// the order, decrement stock, all in one transaction. The cart is cleared
// only after commit; any failure leaves stock and cart untouched.
func (s *CheckoutService) Place(sid string, employeeID int64, paymentMethod string) (int64, error) {
	c := s.Carts.Get(sid)
	items := c.Items()
	if len(items) == 0 {
		return 0, ErrEmptyCart
	}

	ids := make([]int64, 0, len(items))
	for key := range items {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			// Unparseable keys cannot exist in the catalog; the validator
			// reports them as not found.
			continue
		}
		ids = append(ids, id)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// Prices read here become the snapshots, not whatever the product cost
	// when it was added to the cart.
	prods, err := s.Prods.GetByIDsTx(tx, ids)
	if err != nil {
		return 0, err
	}
	byKey := make(map[string]domain.Product, len(prods))
	for _, p := range prods {
		byKey[p.Key()] = p
	}

	if res := ValidateStock(items, byKey); !res.Valid {
		return 0, &StockError{Errors: res.Errors}
	}

	type line struct {
		product domain.Product
		qty     int
		total   decimal.Decimal
	}
	lines := make([]line, 0, len(prods))
	subtotal := decimal.Zero
	for _, p := range prods {
		qty := items[p.Key()]
		lt := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		lines = append(lines, line{product: p, qty: qty, total: lt})
		subtotal = subtotal.Add(lt)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].product.Name < lines[j].product.Name })

	tax := s.Calc.Tax(subtotal)
	discount := decimal.Zero
	total := subtotal.Add(tax).Sub(discount)

	orderID, err := s.Orders.CreateTx(tx, &domain.Order{
		EmployeeID:     employeeID,
		TotalAmount:    total,
		TaxAmount:      tax,
		DiscountAmount: discount,
		PaymentMethod:  paymentMethod,
		Status:         domain.StatusCompleted,
	})
	if err != nil {
		return 0, err
	}

	for _, ln := range lines {
		if err := s.Orders.InsertItemTx(tx, &domain.OrderItem{
			OrderID:             orderID,
			ProductID:           ln.product.ID,
			ProductNameSnapshot: ln.product.Name,
			UnitPriceSnapshot:   ln.product.Price,
			Quantity:            ln.qty,
			LineTotal:           ln.total,
		}); err != nil {
			return 0, err
		}
		if err := s.Prods.DecrementStockTx(tx, ln.product.ID, ln.qty); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	c.Clear()
	return orderID, nil
}
