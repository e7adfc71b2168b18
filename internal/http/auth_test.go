package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

// Seeded passwords must be stored hashed, never plaintext.
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessAndFail(t *testing.T) {
	app, _ := newTestApp(t)
	tok := csrfToken(t, app)

	respBad := postForm(t, app, "/login", "", tok, map[string]string{
		"email": "amina@odapap.test", "password": "wrongpass!",
	})
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}

	respGood := postForm(t, app, "/login", "", tok, map[string]string{
		"email": "amina@odapap.test", "password": "Passw0rd!",
	})
	if respGood.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on success, got %d", respGood.StatusCode)
	}
}

// The login route carries its own throttle in front of the handler.
func TestLoginThrottle(t *testing.T) {
	app, _ := newTestApp(t)

	throttled := limiter.New(limiter.Config{Max: 2, Expiration: time.Minute})
	app.Post("/login-throttled", throttled, func(c *fiber.Ctx) error { return c.SendStatus(200) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login-throttled", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("attempt %d: got %d", i, resp.StatusCode)
		}
	}
	resp, err := app.Test(httptest.NewRequest("POST", "/login-throttled", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after throttle, got %d", resp.StatusCode)
	}
}

func TestSignupThenDuplicateEmail(t *testing.T) {
	app, db := newTestApp(t)
	tok := csrfToken(t, app)

	resp := postForm(t, app, "/signup", "sid-new", tok, map[string]string{
		"name": "Njeri", "email": "njeri@odapap.test", "password": "Sup3rSecret",
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected redirect on signup, got %d", resp.StatusCode)
	}
	var role string
	if err := db.Get(&role, `SELECT role FROM users WHERE email='njeri@odapap.test'`); err != nil {
		t.Fatalf("signup did not create user: %v", err)
	}
	if role != "USER" {
		t.Fatalf("new accounts must be USER, got %s", role)
	}

	dup := postForm(t, app, "/signup", "sid-other", tok, map[string]string{
		"name": "Imposter", "email": "njeri@odapap.test", "password": "Sup3rSecret",
	})
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", dup.StatusCode)
	}
}

// Logging in folds the guest cart into the user's cart.
func TestLoginMergesGuestCart(t *testing.T) {
	app, db := newTestApp(t)
	tok := csrfToken(t, app)

	resp := postForm(t, app, "/cart", "sid-guest", tok, map[string]string{
		"listingId": "lst-socks", "qty": "10",
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("cart add: got %d", resp.StatusCode)
	}

	login := postForm(t, app, "/login", "sid-guest", tok, map[string]string{
		"email": "amina@odapap.test", "password": "Passw0rd!",
	})
	if login.StatusCode != http.StatusFound {
		t.Fatalf("login: got %d", login.StatusCode)
	}

	var qty int
	err := db.Get(&qty, `
	  SELECT ci.qty FROM cart_items ci
	  JOIN carts c ON c.id = ci.cart_id
	  WHERE c.user_id = 'u-amina' AND ci.listing_id = 'lst-socks'`)
	if err != nil {
		t.Fatalf("guest line not merged into user cart: %v", err)
	}
	if qty != 10 {
		t.Fatalf("merged qty = %d, want 10", qty)
	}
}
