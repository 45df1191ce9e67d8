package cart_test

import (
	"testing"

	"grocerypos/internal/cart"
)

func TestAddIncrementsExistingEntry(t *testing.T) {
	c := cart.New()
	c.Add("1", 2)
	c.Add("1", 3)
	if got := c.Qty("1"); got != 5 {
		t.Fatalf("want qty 5, got %d", got)
	}
	if got := c.TotalItemCount(); got != 5 {
		t.Fatalf("want total 5, got %d", got)
	}
}

func TestUpdateOverwritesDoesNotAdd(t *testing.T) {
	c := cart.New()
	c.Add("1", 2)
	c.Update("1", 7)
	if got := c.Qty("1"); got != 7 {
		t.Fatalf("want qty 7, got %d", got)
	}
}

func TestUpdateZeroOrBelowRemoves(t *testing.T) {
	c := cart.New()
	c.Add("1", 2)
	c.Update("1", 0)
	if c.Qty("1") != 0 || c.Len() != 0 {
		t.Fatalf("entry should be removed, cart: %+v", c.Items())
	}

	c.Add("2", 1)
	c.Update("2", -3)
	if c.Len() != 0 {
		t.Fatal("negative update should remove the entry")
	}
}

func TestUpdateAbsentEntryIsNoop(t *testing.T) {
	c := cart.New()
	c.Update("9", 4)
	if c.Len() != 0 {
		t.Fatal("update must not insert new entries")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := cart.New()
	c.Add("1", 2)
	c.Add("3", 1)
	c.Remove("1")
	once := c.Items()
	c.Remove("1")
	twice := c.Items()
	if len(once) != len(twice) || twice["3"] != 1 {
		t.Fatalf("double remove changed state: %v vs %v", once, twice)
	}
}

func TestClearAndCounts(t *testing.T) {
	c := cart.New()
	c.Add("1", 2)
	c.Add("3", 1)
	if c.TotalItemCount() != 3 || c.Len() != 2 || c.Empty() {
		t.Fatalf("unexpected counts: total=%d len=%d", c.TotalItemCount(), c.Len())
	}
	c.Clear()
	if !c.Empty() || c.TotalItemCount() != 0 {
		t.Fatal("clear should empty the cart")
	}
}

func TestStoreCreatesEmptyCartOnFirstAccess(t *testing.T) {
	s := cart.NewStore()
	c := s.Get("sid-1")
	if !c.Empty() {
		t.Fatal("new cart should be empty")
	}
	c.Add("1", 1)
	if s.Get("sid-1") != c {
		t.Fatal("same session must get the same cart")
	}
	if !s.Get("sid-2").Empty() {
		t.Fatal("carts must not leak across sessions")
	}
	s.Drop("sid-1")
	if !s.Get("sid-1").Empty() {
		t.Fatal("dropped session should start fresh")
	}
}
