package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "grocerypos/internal/log"
	"grocerypos/internal/services"
	"grocerypos/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// View renders the cart with current prices, tax and grand total.
func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// Add handles POST /cart/add/:id.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(400).SendString("invalid product id")
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "quantity"})
		return c.Status(400).SendString("invalid quantity")
	}

	if _, err := h.Cart.Add(sid, id, qty); err != nil {
		if se, ok := err.(*services.StockError); ok {
			applog.Info(c, "cart.add.outofstock", map[string]any{"product_id": id})
			cv, verr := h.Cart.View(sid)
			if verr != nil {
				return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
			}
			return render(c, "cart", fiber.Map{"Cart": cv, "Errors": se.Errors})
		}
		return c.Status(404).Render("notfound", fiber.Map{"Message": "This product is no longer available"})
	}
	return c.Redirect("/products")
}

// Update handles POST /cart/update: one quantity field per line, like the
// register's update-all form. Zero removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.update.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	for _, ln := range cv.Lines {
		field := "quantity_" + ln.Product.Key()
		raw := c.FormValue(field)
		if raw == "" {
			continue
		}
		if qty, ok := validate.UpdateQty(raw); ok {
			h.Cart.UpdateQuantity(sid, ln.Product.ID, qty)
		}
	}
	return c.Redirect("/cart")
}

// Remove handles POST /cart/remove/:id. A stale entry removes cleanly.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid product id")
	}
	h.Cart.Remove(sid, id)
	return c.Redirect("/cart")
}

// Clear handles POST /cart/clear.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	h.Cart.Clear(sid)
	return c.Redirect("/cart")
}
