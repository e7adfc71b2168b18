package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `
  id, name, description, category, subcategory, brand, price, variations_json,
  stock, min_order_qty, uploader_id, active, created_at, COALESCE(updated_at,'') AS updated_at`

// All returns the full active listing set, newest first. This is the
// candidate set for the recommendation ranking and the payload cached
// under the listings cache key.
func (r *ListingRepo) All() ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE active = 1
	  ORDER BY created_at DESC`)
	return out, err
}

func (r *ListingRepo) ByCategory(category string, limit, offset int) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE active = 1 AND (category = ? OR subcategory = ?)
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, category, category, limit, offset)
	return out, err
}

func (r *ListingRepo) BySeller(sellerID string, limit, offset int) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE active = 1 AND uploader_id = ?
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, sellerID, limit, offset)
	return out, err
}

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.Get(&l, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE id = ?`, id)
	return l, err
}

func (r *ListingRepo) Categories() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
	  SELECT id, name, parent, created_at, COALESCE(updated_at,'') AS updated_at
	  FROM categories
	  ORDER BY name`)
	return out, err
}

// Counters feeds the popularity sub-score: per-listing order units,
// wishlist saves and accumulated views across all sessions.
type Counters struct {
	ListingID string `db:"listing_id"`
	Orders    int    `db:"orders"`
	Wishlists int    `db:"wishlists"`
	Views     int    `db:"views"`
}

func (r *ListingRepo) AllCounters() (map[string]Counters, error) {
	var rows []Counters
	err := r.db.Select(&rows, `
	  SELECT l.id AS listing_id,
	         COALESCE(o.cnt, 0) AS orders,
	         COALESCE(w.cnt, 0) AS wishlists,
	         COALESCE(v.cnt, 0) AS views
	  FROM listings l
	  LEFT JOIN (SELECT listing_id, SUM(qty)   AS cnt FROM order_items   GROUP BY listing_id) o ON o.listing_id = l.id
	  LEFT JOIN (SELECT listing_id, COUNT(*)   AS cnt FROM wishlist_items GROUP BY listing_id) w ON w.listing_id = l.id
	  LEFT JOIN (SELECT listing_id, SUM(views) AS cnt FROM view_history  GROUP BY listing_id) v ON v.listing_id = l.id
	  WHERE l.active = 1`)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Counters, len(rows))
	for _, c := range rows {
		out[c.ListingID] = c
	}
	return out, nil
}

// DecrementStock atomically subtracts units if enough stock exists.
func (r *ListingRepo) DecrementStock(id string, by int) error {
	res, err := r.db.Exec(`
	  UPDATE listings SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?`, by, id, by)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// UpdateVariations persists a rewritten variations document, e.g.
// after order placement deducted offer-level stock.
func (r *ListingRepo) UpdateVariations(id, raw string) error {
	_, err := r.db.Exec(`
	  UPDATE listings SET variations_json = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, raw, id)
	return err
}

func (r *ListingRepo) UpdateStock(id string, stock int) error {
	_, err := r.db.Exec(`
	  UPDATE listings SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, stock, id)
	return err
}

func (r *ListingRepo) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`
	  UPDATE listings SET active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, active, id)
	return err
}
