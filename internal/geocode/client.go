// Package geocode wraps a reverse-geocoding HTTP API. Requests are
// one-shot with a short timeout and no retries; lookups only happen on
// an explicit user action, never in the background.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrBadCoordinates = errors.New("coordinates out of range")
	ErrNoAddress      = errors.New("no address found for location")
)

type Address struct {
	DisplayName string `json:"displayName"`
	Road        string `json:"road,omitempty"`
	Suburb      string `json:"suburb,omitempty"`
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Reverse resolves lat/lng to a human-readable address.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Address{}, ErrBadCoordinates
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	q.Set("format", "jsonv2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Address{}, err
	}
	req.Header.Set("User-Agent", "odapap-storefront/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Address{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("geocoder returned %s", resp.Status)
	}

	var body struct {
		DisplayName string `json:"display_name"`
		Address     struct {
			Road    string `json:"road"`
			Suburb  string `json:"suburb"`
			City    string `json:"city"`
			Town    string `json:"town"`
			Country string `json:"country"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Address{}, err
	}
	if body.DisplayName == "" {
		return Address{}, ErrNoAddress
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	return Address{
		DisplayName: body.DisplayName,
		Road:        body.Address.Road,
		Suburb:      body.Address.Suburb,
		City:        city,
		Country:     body.Address.Country,
	}, nil
}
