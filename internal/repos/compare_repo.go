package repos

import "github.com/jmoiron/sqlx"

// CompareRepo holds the per-session compare tray. The size cap lives
// in the service, not here.
type CompareRepo struct{ db *sqlx.DB }

func NewCompareRepo(db *sqlx.DB) *CompareRepo { return &CompareRepo{db: db} }

func (r *CompareRepo) Add(sessionID, listingID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO compare_items(session_id, listing_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(session_id, listing_id) DO NOTHING
	`, sessionID, listingID)
	return err
}

func (r *CompareRepo) Remove(sessionID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM compare_items WHERE session_id=? AND listing_id=?`, sessionID, listingID)
	return err
}

func (r *CompareRepo) Count(sessionID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM compare_items WHERE session_id=?`, sessionID)
	return n, err
}

func (r *CompareRepo) ListingIDs(sessionID string) ([]string, error) {
	var out []string
	err := r.db.Select(&out, `
	  SELECT listing_id FROM compare_items WHERE session_id=? ORDER BY created_at`, sessionID)
	return out, err
}
