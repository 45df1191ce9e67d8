package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"grocerypos/internal/config"
	"grocerypos/internal/domain"
	applog "grocerypos/internal/log"
	"grocerypos/internal/repos"
	"grocerypos/internal/services"
	"grocerypos/internal/validate"
)

type OrderHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *repos.OrderRepo
	Cfg      config.Config
}

// CheckoutForm shows the order summary with payment selection. An empty cart
// never reaches the transaction; the cashier is bounced back to browsing.
func (h *OrderHandler) CheckoutForm(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	if len(cv.Lines) == 0 {
		return c.Redirect("/products?msg=empty-cart")
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

// Place handles POST /checkout.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}

	payment, ok := validate.PaymentMethod(c.FormValue("payment_method"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "payment_method"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid payment method")
	}

	orderID, err := h.Checkout.Place(sid, u.ID, payment)
	if err != nil {
		switch e := err.(type) {
		case *services.StockError:
			// Itemized shortages; nothing was written, cart unchanged.
			applog.Audit(c, "checkout.fail", map[string]any{"reason": "stock", "errors": e.Errors})
			cv, verr := h.Cart.View(sid)
			if verr != nil {
				return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
			}
			c.Status(fiber.StatusConflict)
			return render(c, "cart", fiber.Map{"Cart": cv, "Errors": e.Errors})
		default:
			if err == services.ErrEmptyCart {
				return c.Redirect("/products?msg=empty-cart")
			}
			applog.Error(c, "checkout.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "An error occurred while processing your order. Please try again.",
			})
		}
	}

	applog.Audit(c, "checkout.complete", map[string]any{"order_id": orderID, "payment": payment})
	return c.Redirect("/orders/" + strconv.FormatInt(orderID, 10) + "/invoice")
}

// History lists the signed-in employee's own orders.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * h.Cfg.PageSize

	orders, err := h.Orders.ListByEmployee(u.ID, h.Cfg.PageSize, offset)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "orders", fiber.Map{"Orders": orders, "Page": page})
}

// Invoice renders the order receipt. Employees only see their own orders;
// admins see all.
func (h *OrderHandler) Invoice(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Redirect("/login")
	}

	o, items, err := h.Orders.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	if !u.IsAdmin() && o.EmployeeID != u.ID {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": id})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "invoice", fiber.Map{
		"Order":        o,
		"Items":        items,
		"StoreName":    h.Cfg.StoreName,
		"StoreAddress": h.Cfg.StoreAddress,
		"StorePhone":   h.Cfg.StorePhone,
		"StoreEmail":   h.Cfg.StoreEmail,
		"AutoPrint":    c.Query("print") != "",
	})
}
