// Package cart holds the session-scoped shopping cart. Carts live in the
// session layer, not the relational store: they are keyed by the sid cookie
// and are gone when the process restarts or the session expires.
package cart

import "sync"

// Cart maps product id (string key) to requested quantity. A cart belongs to
// exactly one session and is mutated by one request at a time, so the methods
// themselves take no lock.
type Cart struct {
	items map[string]int
}

func New() *Cart { return &Cart{items: map[string]int{}} }

// Add increments the existing quantity, or inserts the entry. Quantity
// sanity is the caller's form-validation concern, not enforced here.
func (c *Cart) Add(productID string, qty int) {
	c.items[productID] += qty
}

// Update overwrites the stored quantity. Zero or below removes the entry.
func (c *Cart) Update(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if _, ok := c.items[productID]; ok {
		c.items[productID] = qty
	}
}

// Remove deletes the entry if present; removing an absent or stale entry is
// a successful no-op.
func (c *Cart) Remove(productID string) {
	delete(c.items, productID)
}

func (c *Cart) Clear() {
	c.items = map[string]int{}
}

// TotalItemCount sums all requested quantities.
func (c *Cart) TotalItemCount() int {
	n := 0
	for _, q := range c.items {
		n += q
	}
	return n
}

func (c *Cart) Qty(productID string) int { return c.items[productID] }

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Empty() bool { return len(c.items) == 0 }

// Items returns a copy safe to iterate while handlers mutate the cart.
func (c *Cart) Items() map[string]int {
	out := make(map[string]int, len(c.items))
	for k, v := range c.items {
		out[k] = v
	}
	return out
}

// Store hands out per-session carts. The map itself is shared across
// requests, so access to it is guarded; individual carts are not.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewStore() *Store { return &Store{carts: map[string]*Cart{}} }

// Get returns the session's cart, creating an empty one on first access.
func (s *Store) Get(sid string) *Cart {
	s.mu.RLock()
	c, ok := s.carts[sid]
	s.mu.RUnlock()
	if ok {
		return c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok = s.carts[sid]; ok {
		return c
	}
	c = New()
	s.carts[sid] = c
	return c
}

// Drop discards a session's cart entirely (e.g. on logout).
func (s *Store) Drop(sid string) {
	s.mu.Lock()
	delete(s.carts, sid)
	s.mu.Unlock()
}
