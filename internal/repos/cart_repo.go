package repos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ListingID  string  `db:"listing_id"`
	Name       string  `db:"name"`
	Variation  string  `db:"variation"`
	MinOrder   int     `db:"min_order_qty"`
	Qty        int     `db:"qty"`
	PriceAtAdd float64 `db:"price_at_add"`
	Subtotal   float64 `db:"subtotal"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// UpsertItem adds quantity to the (listing, variation) line, creating
// it with the price captured at add time.
func (r *CartRepo) UpsertItem(cartID, listingID, variation string, qty int, price float64) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,listing_id,variation,qty,price_at_add,created_at)
		VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,listing_id,variation) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, listingID, variation, qty, price)
	return err
}

func (r *CartRepo) SetQty(cartID, listingID, variation string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND listing_id = ? AND variation = ?
	`, qty, cartID, listingID, variation)
	return err
}

func (r *CartRepo) RemoveItem(cartID, listingID, variation string) error {
	_, err := r.db.Exec(`
		DELETE FROM cart_items WHERE cart_id = ? AND listing_id = ? AND variation = ?
	`, cartID, listingID, variation)
	return err
}

func (r *CartRepo) View(cartID string) ([]CartItemRow, float64, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.listing_id, l.name, ci.variation, l.min_order_qty, ci.qty, ci.price_at_add,
	         (ci.qty*ci.price_at_add) AS subtotal
	  FROM cart_items ci JOIN listings l ON l.id=ci.listing_id
	  WHERE ci.cart_id = ?
	  ORDER BY l.name, ci.variation
	`, cartID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

type CartItem struct {
	ListingID string  `db:"listing_id"`
	Variation string  `db:"variation"`
	Qty       int     `db:"qty"`
	Price     float64 `db:"price"`
	Name      string  `db:"name"`
}

func (r *CartRepo) Items(cartID string) ([]CartItem, error) {
	var out []CartItem
	err := r.db.Select(&out, `
	  SELECT ci.listing_id, ci.variation, ci.qty, ci.price_at_add AS price, l.name
	  FROM cart_items ci JOIN listings l ON l.id=ci.listing_id
	  WHERE ci.cart_id = ?
	`, cartID)
	return out, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// MergeForLogin folds the guest cart accumulated under the session
// into the user's existing cart, summing quantities for identical
// (listing, variation) lines, then links the session to the user.
func (r *CartRepo) MergeForLogin(userID, sid string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var anonID, userCartID sql.NullString

	if err := tx.Get(&anonID, `SELECT id FROM carts WHERE session_id=?`, sid); err != nil && err != sql.ErrNoRows {
		return err
	}
	if err := tx.Get(&userCartID, `SELECT id FROM carts WHERE user_id=? ORDER BY updated_at DESC LIMIT 1`, userID); err != nil && err != sql.ErrNoRows {
		return err
	}

	// No guest cart this session: hand the user's existing cart to the
	// new session so it shows up on the next view.
	if !anonID.Valid {
		if userCartID.Valid {
			if _, err := tx.Exec(`UPDATE carts SET session_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, sid, userCartID.String); err != nil {
				return err
			}
		}
		_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)
		return tx.Commit()
	}

	// No user cart yet: the guest cart becomes the user cart.
	if !userCartID.Valid || userCartID.String == anonID.String {
		if _, err := tx.Exec(`UPDATE carts SET user_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, userID, anonID.String); err != nil {
			return err
		}
		_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)
		return tx.Commit()
	}

	type line struct {
		ListingID  string  `db:"listing_id"`
		Variation  string  `db:"variation"`
		Qty        int     `db:"qty"`
		PriceAtAdd float64 `db:"price_at_add"`
	}
	var lines []line
	if err := tx.Select(&lines, `SELECT listing_id, variation, qty, price_at_add FROM cart_items WHERE cart_id=?`, anonID.String); err != nil {
		return err
	}

	for _, it := range lines {
		_, err := tx.Exec(`
			INSERT INTO cart_items(cart_id, listing_id, variation, qty, price_at_add, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT(cart_id, listing_id, variation) DO UPDATE SET
			  qty = qty + excluded.qty,
			  updated_at = CURRENT_TIMESTAMP
		`, userCartID.String, it.ListingID, it.Variation, it.Qty, it.PriceAtAdd)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`DELETE FROM carts WHERE id=?`, anonID.String); err != nil {
		return err
	}

	// The merged cart must follow the session that just logged in, or
	// the next cart view would mint a fresh empty one for this sid.
	if _, err := tx.Exec(`UPDATE carts SET session_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, sid, userCartID.String); err != nil {
		return err
	}

	_, _ = tx.Exec(`UPDATE sessions SET user_id=?, last_seen=CURRENT_TIMESTAMP WHERE id=?`, userID, sid)

	return tx.Commit()
}
