package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "grocerypos/internal/log"
	"grocerypos/internal/services"
	"grocerypos/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Cart    *services.CartService
}

// Browse is the employee register screen: in-stock products with search,
// category filter and pagination.
func (h *ProductHandler) Browse(c *fiber.Ctx) error {
	q := ""
	if raw := c.Query("search"); raw != "" {
		if s, ok := validate.Q(raw); ok {
			q = s
		} else {
			applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		}
	}
	category := ""
	if s, ok := validate.Category(c.Query("category")); ok {
		category = s
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))

	products, err := h.Catalog.Browse(q, category, page)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	categories, err := h.Catalog.Categories()
	if err != nil {
		applog.Error(c, "products.categories.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}

	sid := ensureSID(c)
	return render(c, "products", fiber.Map{
		"Products":   products,
		"Categories": categories,
		"Search":     q,
		"Category":   category,
		"Page":       page,
		"CartCount":  h.Cart.ItemCount(sid),
	})
}
