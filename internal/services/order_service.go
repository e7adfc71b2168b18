package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/markodapap-sketch/odapap-sub001/internal/pricing"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

type Contact struct {
	Name  string
	Email string
}

type OrderService struct {
	Carts    *repos.CartRepo
	Listings *repos.ListingRepo
	Orders   *repos.OrderRepo
}

func NewOrderService(carts *repos.CartRepo, listings *repos.ListingRepo, orders *repos.OrderRepo) *OrderService {
	return &OrderService{Carts: carts, Listings: listings, Orders: orders}
}

// Place decrements effective stock for every cart line and writes the
// order with totals from the prices captured at add time. Stock lives
// wherever the seller tracks it: in the variation document when offers
// carry counts, otherwise in the listing-level stock column. Deductions
// are validated in memory first, so a failing line aborts the order
// before anything is persisted.
func (s *OrderService) Place(sessionID, address, fulfillment string, contact Contact) (string, error) {
	if fulfillment == "" {
		fulfillment = "delivery"
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return "", err
	}

	items, err := s.Carts.Items(cartID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", errors.New("cart empty")
	}

	byListing := map[string][]repos.CartItem{}
	for _, it := range items {
		byListing[it.ListingID] = append(byListing[it.ListingID], it)
	}

	type docUpdate struct{ id, doc string }
	var docs []docUpdate
	plain := map[string]int{}

	for id, lines := range byListing {
		l, err := s.Listings.Get(id)
		if err != nil {
			return "", err
		}
		offers := pricing.Normalize(l.VariationsJSON)
		qty := 0
		for _, line := range lines {
			qty += line.Qty
		}

		if !pricing.StockTracked(offers) {
			if l.Stock < qty {
				return "", fmt.Errorf("insufficient stock for %s (need %d, have %d)", id, qty, l.Stock)
			}
			plain[id] = qty
			continue
		}

		doc := l.VariationsJSON
		for _, line := range lines {
			var ok bool
			doc, ok = pricing.DecrementOfferStock(doc, line.Variation, line.Qty)
			if !ok {
				return "", fmt.Errorf("insufficient stock for %s (%s)", id, line.Variation)
			}
		}
		docs = append(docs, docUpdate{id: id, doc: doc})
	}

	for id, qty := range plain {
		if err := s.Listings.DecrementStock(id, qty); err != nil {
			return "", err
		}
	}
	for _, u := range docs {
		if err := s.Listings.UpdateVariations(u.id, u.doc); err != nil {
			return "", err
		}
	}

	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Qty)
	}

	orderID := uuid.NewString()
	if err := s.Orders.Create(orderID, sessionID, address, fulfillment, contact.Name, contact.Email, total); err != nil {
		return "", err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(orderID, it.ListingID, it.Variation, it.Qty, it.Price); err != nil {
			return "", err
		}
	}
	_ = s.Carts.Clear(cartID)
	return orderID, nil
}
