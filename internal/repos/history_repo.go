package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
)

// maxHistoryPerSession bounds per-session view history; the oldest
// rows beyond the bound are pruned on every write.
const maxHistoryPerSession = 100

type HistoryRepo struct{ db *sqlx.DB }

func NewHistoryRepo(db *sqlx.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// RecordView bumps the view counter for (session, listing), creating
// the row on first view, then prunes the session's history.
func (r *HistoryRepo) RecordView(sessionID, listingID string) error {
	now := time.Now().UnixMilli()
	_, err := r.db.Exec(`
	  INSERT INTO view_history(session_id, listing_id, views, total_time, first_viewed, last_viewed)
	  VALUES(?, ?, 1, 0, ?, ?)
	  ON CONFLICT(session_id, listing_id) DO UPDATE
	  SET views = views + 1, last_viewed = excluded.last_viewed
	`, sessionID, listingID, now, now)
	if err != nil {
		return err
	}
	return r.prune(sessionID)
}

// AddDwellTime accumulates seconds spent on the listing page.
func (r *HistoryRepo) AddDwellTime(sessionID, listingID string, seconds int) error {
	_, err := r.db.Exec(`
	  UPDATE view_history SET total_time = total_time + ?, last_viewed = ?
	  WHERE session_id = ? AND listing_id = ?
	`, seconds, time.Now().UnixMilli(), sessionID, listingID)
	return err
}

func (r *HistoryRepo) BySession(sessionID string) ([]domain.ViewStats, error) {
	var out []domain.ViewStats
	err := r.db.Select(&out, `
	  SELECT listing_id, views, total_time, first_viewed, last_viewed
	  FROM view_history
	  WHERE session_id = ?
	  ORDER BY last_viewed DESC, rowid DESC
	`, sessionID)
	return out, err
}

func (r *HistoryRepo) prune(sessionID string) error {
	_, err := r.db.Exec(`
	  DELETE FROM view_history
	  WHERE session_id = ? AND listing_id NOT IN (
	    SELECT listing_id FROM view_history
	    WHERE session_id = ?
	    ORDER BY last_viewed DESC, rowid DESC
	    LIMIT ?
	  )`, sessionID, sessionID, maxHistoryPerSession)
	return err
}
