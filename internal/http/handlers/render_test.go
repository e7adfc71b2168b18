package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
)

// The CSRF middleware hands the token over via Locals; when a handler
// renders outside that middleware the double-submit cookie still has
// to reach the form.
func TestRenderFallsBackToCSRFCookie(t *testing.T) {
	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Get("/login", func(c *fiber.Ctx) error {
		return render(c, "login", nil)
	})

	req := httptest.NewRequest("GET", "/login", nil)
	req.Header.Set("Cookie", "csrf_=tok-from-cookie")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `value="tok-from-cookie"`) {
		t.Fatalf("cookie token missing from form: %s", b)
	}
}

func TestRenderPrefersLocalsToken(t *testing.T) {
	engine := html.New("../../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Get("/login", func(c *fiber.Ctx) error {
		c.Locals("CSRFToken", "tok-from-locals")
		return render(c, "login", nil)
	})

	req := httptest.NewRequest("GET", "/login", nil)
	req.Header.Set("Cookie", "csrf_=tok-from-cookie")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `value="tok-from-locals"`) {
		t.Fatalf("locals token missing from form: %s", b)
	}
}
