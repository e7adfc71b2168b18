package search_test

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
	"github.com/markodapap-sketch/odapap-sub001/internal/search"
)

func newSearcher(t *testing.T) search.Searcher {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s := search.New(db)
	if err := s.Reindex(); err != nil {
		t.Fatalf("reindex: %v", err)
	}
	return s
}

func TestSearchMatchesNameAndBrand(t *testing.T) {
	s := newSearcher(t)

	got, err := s.Search("blender", 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) == 0 || got[0].ID != "lst-blender" {
		t.Fatalf("expected lst-blender, got %+v", got)
	}

	// Brand terms hit too.
	got, err = s.Search("oraimo", 10, 0)
	if err != nil {
		t.Fatalf("brand search: %v", err)
	}
	found := false
	for _, l := range got {
		if l.Brand == "Oraimo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("brand query missed Oraimo listings: %+v", got)
	}
}

func TestSearchNoResults(t *testing.T) {
	s := newSearcher(t)
	got, err := s.Search("zzzpq", 10, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

// Queries with embedded quotes or operators must not break the backend.
func TestSearchHostileInputIsSafe(t *testing.T) {
	s := newSearcher(t)
	for _, q := range []string{`"`, `blender"`, `a OR b`, `-socks`, `(x)`} {
		if _, err := s.Search(q, 10, 0); err != nil {
			t.Fatalf("query %q errored: %v", q, err)
		}
	}
}

// Startup announces which engine backs search so an operator can tell
// an FTS5 build from a LIKE fallback without reading query plans.
func TestNewLogsEngineChoice(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	search.New(db)
	if !strings.Contains(buf.String(), "search.engine") {
		t.Fatalf("engine choice not logged: %s", buf.String())
	}
}
