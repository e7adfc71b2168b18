package services

import (
	"context"

	"github.com/markodapap-sketch/odapap-sub001/internal/geocode"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

type LocationService struct {
	Geocoder *geocode.Client
	Users    *repos.UserRepo
}

func NewLocationService(g *geocode.Client, users *repos.UserRepo) *LocationService {
	return &LocationService{Geocoder: g, Users: users}
}

// Resolve reverse-geocodes the coordinates and pins the address to the
// session. One shot, no retries: the lookup only runs on an explicit
// user action and failure is reported back to them.
func (s *LocationService) Resolve(ctx context.Context, sessionID string, lat, lng float64) (geocode.Address, error) {
	addr, err := s.Geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		return geocode.Address{}, err
	}
	if err := s.Users.SetSessionLocation(sessionID, addr.DisplayName); err != nil {
		return geocode.Address{}, err
	}
	return addr, nil
}

func (s *LocationService) Current(sessionID string) (string, error) {
	return s.Users.SessionLocation(sessionID)
}
