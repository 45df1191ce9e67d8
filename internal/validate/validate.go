package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reQ        = regexp.MustCompile(`^[A-Za-z0-9 _'()./\-]{1,50}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,80}$`)
	rePayment  = regexp.MustCompile(`^(cash|upi)$`)
)

// Categories the product form accepts.
var categories = map[string]bool{
	"fruits": true, "vegetables": true, "dairy": true, "meat": true,
	"bakery": true, "beverages": true, "snacks": true, "grains": true,
	"household": true, "other": true,
}

// ID parses a numeric resource identifier (product/order/employee ids).
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil && n > 0
}

// Qty parses an add-to-cart quantity. Non-positive or unparseable input is
// rejected outright rather than coerced.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	if n > 100 {
		n = 100
	} // clamp to avoid abuse
	return n, true
}

// UpdateQty parses a cart-update quantity; zero and below mean remove.
func UpdateQty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	if n > 100 {
		n = 100
	}
	return n, true
}

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// PaymentMethod validates the checkout payment selection.
func PaymentMethod(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, rePayment.MatchString(s)
}

// Name validates a product display name.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 100 {
		return "", false
	}
	return s, true
}

// Price parses a non-negative fixed-point price with at most two decimals.
func Price(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() || d.Exponent() < -2 {
		return decimal.Zero, false
	}
	return d, d.IsPositive()
}

// Stock parses a non-negative stock quantity.
func Stock(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil && n >= 0
}

// Category validates the fixed category list from the product form.
func Category(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, categories[s]
}

// Username validates a login/employee name.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces the minimum length for new employee accounts.
func Password(s string) bool { return len(s) >= 6 && len(s) <= 80 }
