package domain

// ViewStats is the per-listing slice of a session's view history.
type ViewStats struct {
	ListingID   string `db:"listing_id"`
	Views       int    `db:"views"`
	TotalTime   int    `db:"total_time"` // seconds on page, accumulated
	FirstViewed int64  `db:"first_viewed"`
	LastViewed  int64  `db:"last_viewed"`
}
