package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/markodapap-sketch/odapap-sub001/internal/geocode"
	"github.com/markodapap-sketch/odapap-sub001/internal/http/handlers"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
)

func newLocationApp(t *testing.T, geoURL string) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	h := &handlers.LocationHandler{
		Location: services.NewLocationService(geocode.NewClient(geoURL), repos.NewUserRepo(db)),
	}
	app := fiber.New()
	app.Post("/api/v1/location", h.Resolve)
	app.Get("/api/v1/location", h.Current)
	return app
}

func postLocation(t *testing.T, app *fiber.App, lat, lng string) *http.Response {
	t.Helper()
	form := url.Values{"lat": {lat}, "lng": {lng}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/location", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// Each failure mode of the geocoder maps to its own status code, so
// the frontend can tell a user mistake from an outage.
func TestLocationResolveStatuses(t *testing.T) {
	t.Run("valid coordinates resolve", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"display_name":"Moi Ave, Nairobi, Kenya","address":{"city":"Nairobi"}}`))
		}))
		defer srv.Close()

		resp := postLocation(t, newLocationApp(t, srv.URL), "-1.28", "36.82")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got %d", resp.StatusCode)
		}
		var out map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		if out["location"] != "Moi Ave, Nairobi, Kenya" {
			t.Fatalf("bad location %q", out["location"])
		}
	})

	t.Run("out-of-range coordinates are a 400", func(t *testing.T) {
		resp := postLocation(t, newLocationApp(t, "http://unused"), "120", "36.82")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("got %d", resp.StatusCode)
		}
	})

	t.Run("empty geocoder result is a 404", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"display_name":""}`))
		}))
		defer srv.Close()

		resp := postLocation(t, newLocationApp(t, srv.URL), "-1.28", "36.82")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("got %d", resp.StatusCode)
		}
	})

	t.Run("upstream outage is a 502", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		resp := postLocation(t, newLocationApp(t, srv.URL), "-1.28", "36.82")
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("got %d", resp.StatusCode)
		}
	})
}

func TestLocationCurrentEchoesPin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Tom Mboya St, Nairobi"}`))
	}))
	defer srv.Close()

	app := newLocationApp(t, srv.URL)
	resp := postLocation(t, app, "-1.28", "36.82")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve: got %d", resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("no sid cookie set")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/location", nil)
	req.Header.Set("Cookie", "sid="+sid)
	cur, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]string
	if err := json.NewDecoder(cur.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["location"] != "Tom Mboya St, Nairobi" {
		t.Fatalf("pin not retained, got %q", out["location"])
	}
}
