package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markodapap-sketch/odapap-sub001/internal/geocode"
)

func TestReverseParsesAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "" || r.URL.Query().Get("lon") == "" {
			t.Errorf("missing lat/lon: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"display_name":"Moi Ave, Nairobi, Kenya",
		  "address":{"road":"Moi Ave","town":"Nairobi","country":"Kenya"}}`))
	}))
	defer srv.Close()

	c := geocode.NewClient(srv.URL)
	addr, err := c.Reverse(context.Background(), -1.28, 36.82)
	if err != nil {
		t.Fatal(err)
	}
	if addr.City != "Nairobi" || addr.Country != "Kenya" {
		t.Fatalf("bad address: %+v", addr)
	}
}

func TestReverseRejectsBadCoordinates(t *testing.T) {
	c := geocode.NewClient("http://unused")
	if _, err := c.Reverse(context.Background(), 120, 0); err != geocode.ErrBadCoordinates {
		t.Fatalf("want ErrBadCoordinates, got %v", err)
	}
}

func TestReverseSurfacesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := geocode.NewClient(srv.URL)
	if _, err := c.Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("want error on 503")
	}
}
