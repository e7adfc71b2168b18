package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Ensure(sessionID string) (string, error) {
	var id string
	if err := r.db.Get(&id, `SELECT id FROM wishlists WHERE session_id=?`, sessionID); err == nil {
		return id, nil
	}
	_, err := r.db.Exec(`INSERT INTO wishlists(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r *WishlistRepo) Add(wishlistID, listingID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO wishlist_items(wishlist_id, listing_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(wishlist_id, listing_id) DO NOTHING
	`, wishlistID, listingID)
	return err
}

func (r *WishlistRepo) Remove(wishlistID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM wishlist_items WHERE wishlist_id=? AND listing_id=?`, wishlistID, listingID)
	return err
}

type WishlistRow struct {
	ListingID      string  `db:"listing_id"`
	Name           string  `db:"name"`
	Brand          string  `db:"brand"`
	Price          float64 `db:"price"`
	VariationsJSON string  `db:"variations_json"`
	Active         bool    `db:"active"`
}

func (r *WishlistRepo) List(wishlistID string) ([]WishlistRow, error) {
	var out []WishlistRow
	err := r.db.Select(&out, `
	  SELECT l.id AS listing_id, l.name, l.brand, l.price, l.variations_json, l.active
	  FROM wishlist_items wi
	  JOIN listings l ON l.id = wi.listing_id
	  WHERE wi.wishlist_id = ?
	  ORDER BY l.name
	`, wishlistID)
	return out, err
}
