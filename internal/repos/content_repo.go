package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
)

// ContentRepo serves the storefront content collections: hero slides,
// reviews and settings.
type ContentRepo struct{ db *sqlx.DB }

func NewContentRepo(db *sqlx.DB) *ContentRepo { return &ContentRepo{db: db} }

func (r *ContentRepo) HeroSlides() ([]domain.HeroSlide, error) {
	var out []domain.HeroSlide
	err := r.db.Select(&out, `
	  SELECT id, title, subtitle, image_url, link_url, position, active
	  FROM hero_slides
	  WHERE active = 1
	  ORDER BY position`)
	return out, err
}

func (r *ContentRepo) ReviewsForListing(listingID string, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []domain.Review
	err := r.db.Select(&out, `
	  SELECT id, listing_id, user_id, rating, comment, created_at
	  FROM reviews
	  WHERE listing_id = ?
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?`, listingID, limit)
	return out, err
}

func (r *ContentRepo) AddReview(rev domain.Review) error {
	_, err := r.db.Exec(`
	  INSERT INTO reviews(id, listing_id, user_id, rating, comment, created_at)
	  VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		rev.ID, rev.ListingID, rev.UserID, rev.Rating, rev.Comment)
	return err
}

func (r *ContentRepo) Settings() (map[string]string, error) {
	var rows []domain.Setting
	if err := r.db.Select(&rows, `SELECT key, value FROM settings`); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}
