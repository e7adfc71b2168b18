package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markodapap-sketch/odapap-sub001/internal/cache"
	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
	"github.com/markodapap-sketch/odapap-sub001/internal/pricing"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

// Cache keys for the two cached resource classes plus storefront content.
const (
	listingsCacheKey = "listings"
	heroCacheKey     = "hero"
	userCachePrefix  = "user_"
)

// ListingCard is a listing decorated with its normalized offers and
// resolved quote, ready for rendering.
type ListingCard struct {
	domain.Listing
	Offers     []pricing.Offer
	Quote      pricing.Quote
	SellerName string
}

type CatalogService struct {
	Listings *repos.ListingRepo
	Users    *repos.UserRepo
	Content  *repos.ContentRepo
	Cache    *cache.Tiered

	ListingsTTL time.Duration
	UsersTTL    time.Duration
	HeroTTL     time.Duration
}

func NewCatalogService(listings *repos.ListingRepo, users *repos.UserRepo, content *repos.ContentRepo,
	c *cache.Tiered, listingsTTL, usersTTL, heroTTL time.Duration) *CatalogService {
	return &CatalogService{
		Listings: listings, Users: users, Content: content, Cache: c,
		ListingsTTL: listingsTTL, UsersTTL: usersTTL, HeroTTL: heroTTL,
	}
}

// AllListings serves the full listing set through the tiered cache.
func (s *CatalogService) AllListings(ctx context.Context) ([]domain.Listing, error) {
	b, err := s.Cache.Get(ctx, listingsCacheKey, s.ListingsTTL, func(ctx context.Context) ([]byte, error) {
		ls, err := s.Listings.All()
		if err != nil {
			return nil, err
		}
		return json.Marshal(ls)
	})
	if err != nil {
		return nil, err
	}
	var out []domain.Listing
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogService) ListByCategory(category string, page, pageSize int) ([]domain.Listing, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	return s.Listings.ByCategory(category, pageSize, (page-1)*pageSize)
}

func (s *CatalogService) ListBySeller(sellerID string, page, pageSize int) ([]domain.Listing, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	return s.Listings.BySeller(sellerID, pageSize, (page-1)*pageSize)
}

func (s *CatalogService) Categories() ([]domain.Category, error) {
	return s.Listings.Categories()
}

// Settings exposes storefront key/values (currency, support contact,
// delivery thresholds) for rendering.
func (s *CatalogService) Settings() (map[string]string, error) {
	return s.Content.Settings()
}

func (s *CatalogService) GetListing(id string) (domain.Listing, error) {
	return s.Listings.Get(id)
}

// Decorate normalizes each listing's variation document and resolves
// its quote. Malformed documents degrade to the top-level price; a
// listing never fails to render over bad seller data.
func (s *CatalogService) Decorate(listings []domain.Listing) []ListingCard {
	out := make([]ListingCard, 0, len(listings))
	for _, l := range listings {
		offers := pricing.Normalize(l.VariationsJSON)
		out = append(out, ListingCard{
			Listing: l,
			Offers:  offers,
			Quote:   pricing.Resolve(l.Price, offers),
		})
	}
	return out
}

// SellerProfiles fetches the distinct uploader profiles for a page of
// listings, each through the user cache, concurrently with a join
// barrier: rendering waits for the whole batch. A seller with no
// profile row degrades to the "Seller" placeholder instead of failing
// the page.
func (s *CatalogService) SellerProfiles(ctx context.Context, listings []domain.Listing) (map[string]domain.User, error) {
	distinct := map[string]bool{}
	for _, l := range listings {
		if l.UploaderID != "" {
			distinct[l.UploaderID] = true
		}
	}

	var mu sync.Mutex
	out := make(map[string]domain.User, len(distinct))

	g, ctx := errgroup.WithContext(ctx)
	for id := range distinct {
		id := id
		g.Go(func() error {
			u, err := s.sellerProfile(ctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			out[id] = u
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CatalogService) sellerProfile(ctx context.Context, id string) (domain.User, error) {
	b, err := s.Cache.Get(ctx, userCachePrefix+id, s.UsersTTL, func(ctx context.Context) ([]byte, error) {
		u, err := s.Users.ByID(id)
		if err == sql.ErrNoRows {
			return json.Marshal(domain.User{ID: id, Name: "Seller"})
		}
		if err != nil {
			return nil, err
		}
		u.Hash = "" // never cache credentials
		return json.Marshal(u)
	})
	if err != nil {
		return domain.User{}, err
	}
	var u domain.User
	if err := json.Unmarshal(b, &u); err != nil {
		return domain.User{}, err
	}
	if u.Name == "" {
		u.Name = "Seller"
	}
	return u, nil
}

// HeroSlides is the third cached class, with its own longer TTL.
func (s *CatalogService) HeroSlides(ctx context.Context) ([]domain.HeroSlide, error) {
	b, err := s.Cache.Get(ctx, heroCacheKey, s.HeroTTL, func(ctx context.Context) ([]byte, error) {
		slides, err := s.Content.HeroSlides()
		if err != nil {
			return nil, err
		}
		return json.Marshal(slides)
	})
	if err != nil {
		return nil, err
	}
	var out []domain.HeroSlide
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckAvailability maps effective stock to a coarse status. The
// low-stock threshold scales with the listing's minimum order.
func (s *CatalogService) CheckAvailability(id string) (domain.Availability, error) {
	l, err := s.Listings.Get(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK"}, nil
		}
		return domain.Availability{}, err
	}
	qty := pricing.TotalStock(pricing.Normalize(l.VariationsJSON), l.Stock)

	status := "OUT_OF_STOCK"
	switch {
	case qty >= 5*l.MinOrderQty:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty, MinQty: l.MinOrderQty}, nil
}
