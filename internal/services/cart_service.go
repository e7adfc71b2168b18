package services

import (
	"github.com/markodapap-sketch/odapap-sub001/internal/pricing"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

type CartService struct {
	Carts    *repos.CartRepo
	Listings *repos.ListingRepo
}

func NewCartService(carts *repos.CartRepo, listings *repos.ListingRepo) *CartService {
	return &CartService{Carts: carts, Listings: listings}
}

// Add puts (listing, variation) into the session's cart. Quantity is
// clamped up to the listing's minimum order; the captured price is the
// selected offer's, falling back to the resolved wholesale quote when
// the variation label matches no offer.
func (s *CartService) Add(sessionID, listingID, variation string, qty int) error {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		return err
	}
	if qty < l.MinOrderQty {
		qty = l.MinOrderQty
	}
	if qty < 1 {
		qty = 1
	}

	offers := pricing.Normalize(l.VariationsJSON)
	quote := pricing.Resolve(l.Price, offers)
	price, _ := quote.Wholesale.Float64()
	for _, o := range offers {
		if o.Label == variation && variation != "" {
			price, _ = o.Price.Float64()
			break
		}
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.UpsertItem(cartID, listingID, variation, qty, price)
}

func (s *CartService) SetQty(sessionID, listingID, variation string, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	if qty < 1 {
		return s.Carts.RemoveItem(cartID, listingID, variation)
	}
	return s.Carts.SetQty(cartID, listingID, variation, qty)
}

func (s *CartService) Remove(sessionID, listingID, variation string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, listingID, variation)
}

type CartView struct {
	Items []repos.CartItemRow
	Total float64
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}
