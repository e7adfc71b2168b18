package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/markodapap-sketch/odapap-sub001/internal/log"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
	"github.com/markodapap-sketch/odapap-sub001/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

// nextURL keeps post-login redirects on-site. Anything absolute or
// protocol-relative falls back to the home page.
func nextURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	return raw
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "login", fiber.Map{"Err": "", "Next": nextURL(c.Query("next")), "CSRFToken": tok})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	next := nextURL(c.FormValue("next"))
	if _, ok := validate.Email(email); !ok {
		tok := c.Cookies("csrf_")
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "Next": next, "CSRFToken": tok})
	}
	if !validate.Password(pass) {
		tok := c.Cookies("csrf_")
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "Next": next, "CSRFToken": tok})
	}

	_, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		tok := c.Cookies("csrf_")
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return c.Status(401).Render("login", fiber.Map{"Err": "Invalid email or password", "Next": next, "CSRFToken": tok})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(next)
}

func (h *AuthHandler) SignupForm(c *fiber.Ctx) error {
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return render(c, "signup", fiber.Map{"Err": "", "Next": nextURL(c.Query("next")), "CSRFToken": tok})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	sid := ensureSID(c)
	next := nextURL(c.FormValue("next"))
	tok := c.Cookies("csrf_")

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).Render("signup", fiber.Map{"Err": "Name must be 1-20 characters", "Next": next, "CSRFToken": tok})
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		return c.Status(400).Render("signup", fiber.Map{"Err": "Enter a valid email", "Next": next, "CSRFToken": tok})
	}
	pass := c.FormValue("password")
	if !validate.Password(pass) {
		return c.Status(400).Render("signup", fiber.Map{"Err": "Password must be at least 8 characters", "Next": next, "CSRFToken": tok})
	}

	if _, err := h.Auth.Signup(sid, name, email, pass); err != nil {
		if err == services.ErrEmailInUse {
			return c.Status(409).Render("signup", fiber.Map{"Err": "That email is already registered", "Next": next, "CSRFToken": tok})
		}
		log.Error(c, "auth.signup.fail", err, map[string]any{"email": email})
		return c.Status(500).Render("signup", fiber.Map{"Err": "Could not create your account. Please retry.", "Next": next, "CSRFToken": tok})
	}

	log.Audit(c, "auth.signup.success", map[string]any{"email": email})
	return c.Redirect(next)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
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
	return c.Redirect("/")
}
