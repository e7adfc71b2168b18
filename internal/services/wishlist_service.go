package services

import (
	"errors"

	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

const compareLimit = 4

var ErrCompareFull = errors.New("compare tray is full")

type WishlistService struct {
	Repo    *repos.WishlistRepo
	Compare *repos.CompareRepo
}

func NewWishlistService(r *repos.WishlistRepo, c *repos.CompareRepo) *WishlistService {
	return &WishlistService{Repo: r, Compare: c}
}

func (s *WishlistService) Save(sessionID, listingID string) error {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Add(id, listingID)
}

func (s *WishlistService) Unsave(sessionID, listingID string) error {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return err
	}
	return s.Repo.Remove(id, listingID)
}

func (s *WishlistService) List(sessionID string) ([]repos.WishlistRow, error) {
	id, err := s.Repo.Ensure(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(id)
}

func (s *WishlistService) AddCompare(sessionID, listingID string) error {
	n, err := s.Compare.Count(sessionID)
	if err != nil {
		return err
	}
	if n >= compareLimit {
		return ErrCompareFull
	}
	return s.Compare.Add(sessionID, listingID)
}

func (s *WishlistService) RemoveCompare(sessionID, listingID string) error {
	return s.Compare.Remove(sessionID, listingID)
}

func (s *WishlistService) CompareIDs(sessionID string) ([]string, error) {
	return s.Compare.ListingIDs(sessionID)
}
