package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"grocerypos/internal/cart"
	"grocerypos/internal/domain"
	"grocerypos/internal/log"
	"grocerypos/internal/services"
	"grocerypos/internal/validate"
)

type AuthHandler struct {
	Auth  *services.AuthService
	Carts *cart.Store
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	// Already signed in: send to the role's landing page.
	if sid := c.Cookies("sid"); sid != "" {
		if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
			return c.Redirect(homeFor(u))
		}
	}
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "login", fiber.Map{"Err": "", "CSRFToken": tok})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username, ok := validate.Username(c.FormValue("username"))
	if !ok {
		tok := c.Cookies("csrf_")
		log.Security(c, "auth.login.fail", map[string]any{"username": c.FormValue("username"), "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid username or password", "CSRFToken": tok})
	}

	u, err := h.Auth.Login(sid, username, c.FormValue("password"))
	if err != nil {
		tok := c.Cookies("csrf_")
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid username or password", "CSRFToken": tok})
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect(homeFor(u))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	if h.Carts != nil {
		h.Carts.Drop(sid)
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/login")
}

func homeFor(u *domain.User) string {
	if u.IsAdmin() {
		return "/admin"
	}
	return "/products"
}
