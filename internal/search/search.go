// Package search picks one of two engines at startup: an FTS5 index
// when the sqlite build supports it, or a plain LIKE scan. The choice
// is made once, not per query.
package search

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
	applog "github.com/markodapap-sketch/odapap-sub001/internal/log"
)

type Searcher interface {
	Search(q string, limit, offset int) ([]domain.Listing, error)
	Reindex() error
}

const listingCols = `
  id, name, description, category, subcategory, brand, price, variations_json,
  stock, min_order_qty, uploader_id, active, created_at, COALESCE(updated_at,'') AS updated_at`

// New tests for FTS5 support by creating the index table. On success
// listings are indexed and the FTS engine is used for the life of the
// process.
func New(db *sqlx.DB) Searcher {
	_, err := db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS listing_search
	  USING fts5(id UNINDEXED, name, description, brand, category)`)
	if err != nil {
		applog.Event("search.engine", map[string]any{"fts5": false, "err": err.Error()})
		return &likeSearcher{db: db}
	}
	s := &ftsSearcher{db: db}
	if err := s.Reindex(); err != nil {
		applog.Event("search.engine", map[string]any{"fts5": false, "err": err.Error()})
		return &likeSearcher{db: db}
	}
	applog.Event("search.engine", map[string]any{"fts5": true})
	return s
}

type ftsSearcher struct{ db *sqlx.DB }

func (s *ftsSearcher) Reindex() error {
	if _, err := s.db.Exec(`DELETE FROM listing_search`); err != nil {
		return err
	}
	_, err := s.db.Exec(`
	  INSERT INTO listing_search(id, name, description, brand, category)
	  SELECT id, name, description, brand, category FROM listings WHERE active = 1`)
	return err
}

func (s *ftsSearcher) Search(q string, limit, offset int) ([]domain.Listing, error) {
	match := ftsQuery(q)
	if match == "" {
		return nil, nil
	}
	var out []domain.Listing
	err := s.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE active = 1 AND id IN (SELECT id FROM listing_search WHERE listing_search MATCH ?)
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, match, limit, offset)
	return out, err
}

// ftsQuery quotes each term so user input cannot inject FTS operators.
func ftsQuery(q string) string {
	var terms []string
	for _, t := range strings.Fields(q) {
		t = strings.ReplaceAll(t, `"`, ``)
		if t == "" {
			continue
		}
		terms = append(terms, `"`+t+`"`)
	}
	return strings.Join(terms, " ")
}

type likeSearcher struct{ db *sqlx.DB }

func (s *likeSearcher) Reindex() error { return nil }

func (s *likeSearcher) Search(q string, limit, offset int) ([]domain.Listing, error) {
	pat := "%" + strings.ToLower(q) + "%"
	var out []domain.Listing
	err := s.db.Select(&out, `
	  SELECT `+listingCols+`
	  FROM listings
	  WHERE active = 1
	    AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?)
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?`, pat, pat, pat, limit, offset)
	return out, err
}
