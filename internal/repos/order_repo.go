package repos

import (
	"github.com/jmoiron/sqlx"

	"grocerypos/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts the order header inside the checkout transaction and
// returns the new order id.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o *domain.Order) (int64, error) {
	res, err := tx.Exec(`
	  INSERT INTO orders
	    (employee_id, total_amount, tax_amount, discount_amount, payment_method, status, created_at)
	  VALUES
	    (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, o.EmployeeID, o.TotalAmount, o.TaxAmount, o.DiscountAmount, o.PaymentMethod, o.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertItemTx inserts a single line item with its name/price snapshot.
func (r *OrderRepo) InsertItemTx(tx *sqlx.Tx, it *domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO order_items
	    (order_id, product_id, product_name_snapshot, unit_price_snapshot, quantity, line_total)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, it.OrderID, it.ProductID, it.ProductNameSnapshot, it.UnitPriceSnapshot, it.Quantity, it.LineTotal)
	return err
}

// Get loads an order with its items for the invoice page.
func (r *OrderRepo) Get(orderID int64) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, employee_id, total_amount, tax_amount, discount_amount,
		       payment_method, status, created_at
		FROM orders
		WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []domain.OrderItem
	if err := r.db.Select(&items, `
		SELECT id, order_id, product_id, product_name_snapshot,
		       unit_price_snapshot, quantity, line_total
		FROM order_items
		WHERE order_id = ?
		ORDER BY product_name_snapshot
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

// ListByEmployee returns an employee's own orders, newest first.
func (r *OrderRepo) ListByEmployee(employeeID int64, limit, offset int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, employee_id, total_amount, tax_amount, discount_amount,
		       payment_method, status, created_at
		FROM orders
		WHERE employee_id = ?
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ? OFFSET ?
	`, employeeID, limit, offset)
	return out, err
}

// ListLatest feeds the admin overview.
func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, employee_id, total_amount, tax_amount, discount_amount,
		       payment_method, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
	return n, err
}
