package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"github.com/markodapap-sketch/odapap-sub001/internal/cache"
	"github.com/markodapap-sketch/odapap-sub001/internal/config"
	"github.com/markodapap-sketch/odapap-sub001/internal/geocode"
	"github.com/markodapap-sketch/odapap-sub001/internal/http/handlers"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
	"github.com/markodapap-sketch/odapap-sub001/internal/search"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
)

// newTestApp assembles the app against an in-memory database, a
// temp-dir cache, and whatever search backend the driver supports.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{
		DBDSN:       ":memory:",
		MediaDir:    "../../web/media",
		ListingsTTL: time.Minute,
		UsersTTL:    time.Minute,
		HeroTTL:     time.Minute,
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	disk, err := cache.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	store := cache.NewTiered(64, disk)

	searcher := search.New(db)
	if err := searcher.Reindex(); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	geo := geocode.NewClient("http://127.0.0.1:0")

	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	authSvc := &services.AuthService{Users: userRepo, Carts: cartRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(csrf.New(csrf.Config{
		KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/v1/view-ping")
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg, authSvc, store, searcher, geo)

	app.Get("/", deps.HomeHandler.Home)
	app.Get("/search", deps.SearchHandler.Search)
	app.Get("/category/:id", deps.HomeHandler.Category)
	app.Get("/seller/:id", deps.HomeHandler.Seller)
	app.Get("/listing/:id", deps.ListingHandler.Detail)
	app.Post("/reviews", deps.ListingHandler.Review)

	api := app.Group("/api/v1")
	api.Get("/availability", deps.AvailabilityHandler.Check)
	api.Post("/view-ping", deps.ListingHandler.Ping)
	api.Get("/location", deps.LocationHandler.Current)

	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Post("/cart/update", deps.CartHandler.Update)
	app.Post("/cart/delete", deps.CartHandler.Remove)
	app.Get("/checkout", deps.OrderHandler.Checkout)
	app.Post("/orders", deps.OrderHandler.Place)
	app.Get("/order/:id", deps.OrderHandler.View)
	app.Get("/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)

	app.Get("/wishlist", deps.WishlistHandler.List)
	app.Post("/wishlist", deps.WishlistHandler.Save)
	app.Post("/wishlist/delete", deps.WishlistHandler.Unsave)
	app.Get("/compare", deps.WishlistHandler.Compare)
	app.Post("/compare", deps.WishlistHandler.AddCompare)
	app.Post("/compare/delete", deps.WishlistHandler.RemoveCompare)

	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Get("/signup", authH.SignupForm)
	app.Post("/signup", authH.Signup)
	app.Post("/logout", authH.Logout)

	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/listings", deps.AdminHandler.ListingsPage)
	admin.Post("/listings/stock", deps.AdminHandler.UpdateStock)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	return app, db
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// csrfToken performs a GET against /login to obtain a token cookie.
func csrfToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	if err != nil {
		t.Fatal(err)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

// postForm submits an urlencoded form with the csrf token and session
// cookie attached.
func postForm(t *testing.T, app *fiber.App, path, sid, tok string, form map[string]string) *http.Response {
	t.Helper()
	vals := []string{"csrf=" + tok}
	for k, v := range form {
		vals = append(vals, k+"="+v)
	}
	req := httptest.NewRequest("POST", path, strings.NewReader(strings.Join(vals, "&")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func get(t *testing.T, app *fiber.App, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
