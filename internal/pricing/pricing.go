package pricing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// Display-only conversion rate for dual-currency receipts.
	usdToINR = decimal.RequireFromString("83.50")
)

// Calculator computes sales tax at a fixed percentage rate.
type Calculator struct {
	Rate decimal.Decimal // percentage, e.g. 8.5
}

func NewCalculator(rate decimal.Decimal) Calculator { return Calculator{Rate: rate} }

// Tax returns round_half_up(subtotal * rate / 100) at two decimal places.
// Round is half-away-from-zero, which on non-negative amounts is exactly the
// half-up tie-break the invoices depend on (not banker's rounding).
func (c Calculator) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(c.Rate).Div(hundred).Round(2)
}

// USDToINR converts a USD amount for display next to the USD figure.
func USDToINR(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(usdToINR).Round(2)
}

func FormatUSD(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

func FormatINR(amount decimal.Decimal) string { return "₹" + amount.StringFixed(2) }

// FormatBoth renders "$x.xx (₹y.yy)" for receipt lines.
func FormatBoth(amount decimal.Decimal) string {
	return FormatUSD(amount) + " (" + FormatINR(USDToINR(amount)) + ")"
}
