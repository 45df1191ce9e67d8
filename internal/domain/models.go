package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// LowStockThreshold marks products the admin pages flag for restocking.
const LowStockThreshold = 10

// Payment methods accepted at the register.
const (
	PaymentCash = "cash"
	PaymentUPI  = "upi"
)

// Orders have no pending/cancelled lifecycle; every committed order is final.
const StatusCompleted = "completed"

type Product struct {
	ID        int64           `db:"id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	StockQty  int             `db:"stock_qty"`
	Category  string          `db:"category"`
	ImageURL  string          `db:"image_url"`
	CreatedAt string          `db:"created_at"`
	UpdatedAt string          `db:"updated_at"`
}

// Key is the string form used for cart entries.
func (p Product) Key() string { return strconv.FormatInt(p.ID, 10) }

func (p Product) CanFulfill(qty int) bool { return p.StockQty >= qty }

func (p Product) LowStock() bool { return p.StockQty <= LowStockThreshold }

type Order struct {
	ID             int64           `db:"id"`
	EmployeeID     int64           `db:"employee_id"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	PaymentMethod  string          `db:"payment_method"`
	Status         string          `db:"status"`
	CreatedAt      string          `db:"created_at"`
}

func (o Order) Subtotal() decimal.Decimal {
	return o.TotalAmount.Sub(o.TaxAmount).Add(o.DiscountAmount)
}

// OrderItem carries name/price snapshots taken at checkout time so invoices
// stay accurate even after the source product is renamed or repriced.
type OrderItem struct {
	ID                  int64           `db:"id"`
	OrderID             int64           `db:"order_id"`
	ProductID           int64           `db:"product_id"`
	ProductNameSnapshot string          `db:"product_name_snapshot"`
	UnitPriceSnapshot   decimal.Decimal `db:"unit_price_snapshot"`
	Quantity            int             `db:"quantity"`
	LineTotal           decimal.Decimal `db:"line_total"`
}
