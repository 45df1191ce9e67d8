package services

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"grocerypos/internal/cart"
	"grocerypos/internal/domain"
	"grocerypos/internal/pricing"
	"grocerypos/internal/repos"
)

type CartService struct {
	Carts *cart.Store
	Prods *repos.ProductRepo
	Calc  pricing.Calculator
}

func NewCartService(carts *cart.Store, prods *repos.ProductRepo, calc pricing.Calculator) *CartService {
	return &CartService{Carts: carts, Prods: prods, Calc: calc}
}

type CartLine struct {
	Product   domain.Product
	Quantity  int
	LineTotal decimal.Decimal
}

type CartView struct {
	Lines     []CartLine
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// Add puts a product in the session cart after confirming it exists and has
// any stock at all; the authoritative per-quantity check happens at checkout.
func (s *CartService) Add(sid string, productID int64, qty int) (domain.Product, error) {
	if qty < 1 {
		qty = 1
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Product{}, err
	}
	if p.StockQty <= 0 {
		return p, &StockError{Errors: []string{outOfStockMsg(p)}}
	}
	s.Carts.Get(sid).Add(p.Key(), qty)
	return p, nil
}

// UpdateQuantity overwrites a line's quantity; zero or below removes it.
func (s *CartService) UpdateQuantity(sid string, productID int64, qty int) {
	s.Carts.Get(sid).Update(strconv.FormatInt(productID, 10), qty)
}

// Remove drops a line. Removing a product that no longer exists is a
// successful no-op since the entry is already logically stale.
func (s *CartService) Remove(sid string, productID int64) {
	s.Carts.Get(sid).Remove(strconv.FormatInt(productID, 10))
}

func (s *CartService) Clear(sid string) {
	s.Carts.Get(sid).Clear()
}

func (s *CartService) ItemCount(sid string) int {
	return s.Carts.Get(sid).TotalItemCount()
}

// View resolves the cart against the catalog and prices every line at the
// product's current price. Entries whose product has vanished are skipped
// in the rendering (checkout reports them itemized).
func (s *CartService) View(sid string) (CartView, error) {
	c := s.Carts.Get(sid)
	items := c.Items()

	lines, err := s.resolveLines(items)
	if err != nil {
		return CartView{}, err
	}

	subtotal := decimal.Zero
	for _, ln := range lines {
		subtotal = subtotal.Add(ln.LineTotal)
	}
	tax := s.Calc.Tax(subtotal)

	return CartView{
		Lines:     lines,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		ItemCount: c.TotalItemCount(),
	}, nil
}

func (s *CartService) resolveLines(items map[string]int) ([]CartLine, error) {
	ids := make([]int64, 0, len(items))
	for key := range items {
		if id, err := strconv.ParseInt(key, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	prods, err := s.Prods.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(prods))
	for _, p := range prods {
		qty := items[p.Key()]
		if qty <= 0 {
			continue
		}
		lines = append(lines, CartLine{
			Product:   p,
			Quantity:  qty,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Product.Name < lines[j].Product.Name })
	return lines, nil
}
