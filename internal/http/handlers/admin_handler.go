package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "grocerypos/internal/log"
	"grocerypos/internal/repos"
	"grocerypos/internal/services"
	"grocerypos/internal/validate"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Orders  *repos.OrderRepo
	Users   *repos.UserRepo
	Auth    *services.AuthService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	productCount, _ := h.Catalog.Prods.Count()
	orderCount, _ := h.Orders.Count()
	employeeCount, _ := h.Users.CountEmployees()
	lowStock, _ := h.Catalog.Prods.LowStock(10)
	recent, _ := h.Orders.ListLatest(10)

	return render(c, "admin_dashboard", fiber.Map{
		"ProductCount":  productCount,
		"OrderCount":    orderCount,
		"EmployeeCount": employeeCount,
		"LowStock":      lowStock,
		"RecentOrders":  recent,
	})
}

// GET /admin/products
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	q := ""
	if s, ok := validate.Q(c.Query("search")); ok {
		q = s
	}
	category := ""
	if s, ok := validate.Category(c.Query("category")); ok {
		category = s
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))

	products, err := h.Catalog.ListAll(q, category, page)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	categories, _ := h.Catalog.Categories()
	return render(c, "admin_products", fiber.Map{
		"Products":   products,
		"Categories": categories,
		"Search":     q,
		"Category":   category,
		"Page":       page,
	})
}

// GET /admin/products/new
func (h *AdminHandler) NewProductForm(c *fiber.Ctx) error {
	return render(c, "product_form", fiber.Map{"Title": "New Product"})
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	name, price, stockQty, category, imageURL, ok := productForm(c)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"form": "product"})
		return c.Status(400).Render("product_form", fiber.Map{"Title": "New Product", "Err": "Please check the product fields."})
	}
	id, err := h.Catalog.Create(name, price, stockQty, category, imageURL)
	if err != nil {
		applog.Error(c, "admin.products.create.fail", err, nil)
		return c.Status(400).Render("product_form", fiber.Map{"Title": "New Product", "Err": "Could not save product."})
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": id, "name": name})
	return c.Redirect("/admin/products")
}

// GET /admin/products/:id/edit
func (h *AdminHandler) EditProductForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	return render(c, "product_form", fiber.Map{"Title": "Edit " + p.Name, "P": p})
}

// POST /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	name, price, stockQty, category, imageURL, okForm := productForm(c)
	if !okForm {
		applog.Security(c, "validation.fail", map[string]any{"form": "product", "product_id": id})
		return c.Status(400).SendString("invalid input")
	}
	if err := h.Catalog.Update(id, name, price, stockQty, category, imageURL); err != nil {
		applog.Error(c, "admin.products.update.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("could not update product")
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// GET /admin/employees
func (h *AdminHandler) Employees(c *fiber.Ctx) error {
	employees, err := h.Users.ListEmployees()
	if err != nil {
		applog.Error(c, "admin.employees.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load employees"})
	}
	return render(c, "admin_employees", fiber.Map{"Employees": employees})
}

// POST /admin/employees
func (h *AdminHandler) CreateEmployee(c *fiber.Ctx) error {
	username, ok := validate.Username(c.FormValue("username"))
	if !ok || !validate.Password(c.FormValue("password")) {
		applog.Security(c, "validation.fail", map[string]any{"form": "employee"})
		return c.Status(400).SendString("invalid username or password")
	}
	id, err := h.Auth.CreateEmployee(username, c.FormValue("password"))
	if err != nil {
		applog.Error(c, "admin.employees.create.fail", err, map[string]any{"username": username})
		return c.Status(400).SendString("could not create employee")
	}
	applog.Audit(c, "admin.employees.create", map[string]any{"employee_id": id, "username": username})
	return c.Redirect("/admin/employees")
}

// POST /admin/employees/:id/delete
func (h *AdminHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.DeleteEmployee(id); err != nil {
		applog.Error(c, "admin.employees.delete.fail", err, map[string]any{"employee_id": id})
		return c.Status(400).SendString("could not delete employee")
	}
	applog.Audit(c, "admin.employees.delete", map[string]any{"employee_id": id})
	return c.Redirect("/admin/employees")
}

func productForm(c *fiber.Ctx) (name string, price decimal.Decimal, stockQty int, category, imageURL string, ok bool) {
	name, okName := validate.Name(c.FormValue("name"))
	price, okPrice := validate.Price(c.FormValue("price"))
	stockQty, okStock := validate.Stock(c.FormValue("stock_qty"))
	category, okCat := validate.Category(c.FormValue("category"))
	imageURL = c.FormValue("image_url")
	ok = okName && okPrice && okStock && okCat
	return
}
