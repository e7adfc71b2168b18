package recommend_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/markodapap-sketch/odapap-sub001/internal/recommend"
)

func noJitter() *recommend.Scorer {
	return &recommend.Scorer{Now: func() time.Time { return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC) }}
}

func TestColdStartFallsBackToMargin(t *testing.T) {
	s := noJitter()
	cands := []recommend.Candidate{
		{ID: "low", Margin: 5},
		{ID: "high", Margin: 40},
		{ID: "mid", Margin: 20},
	}
	history := []recommend.View{
		{ListingID: "low", Views: 1, LastViewed: 1},
		{ListingID: "mid", Views: 1, LastViewed: 2},
	}
	got := s.Rank(history, cands)
	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("pos %d: want %s, got %s (full: %v)", i, id, got[i].ID, ids(got))
		}
	}
}

func TestCategoryInterestOutscoresColdCategory(t *testing.T) {
	s := noJitter()
	// X viewed 5 times in Electronics: engaged, heavy category weight.
	history := []recommend.View{
		{ListingID: "x1", Views: 5, TotalTime: 120, LastViewed: 300},
		{ListingID: "x2", Views: 2, LastViewed: 200},
		{ListingID: "x3", Views: 1, LastViewed: 100},
	}
	viewed := []recommend.Candidate{
		{ID: "x1", Category: "Electronics", Price: 100},
		{ID: "x2", Category: "Electronics", Price: 100},
		{ID: "x3", Category: "Electronics", Price: 100},
	}
	inCat := recommend.Candidate{ID: "cand-elec", Category: "Electronics", Price: 100}
	offCat := recommend.Candidate{ID: "cand-farm", Category: "Farming", Price: 100}

	got := s.Rank(history, append(viewed, inCat, offCat))
	if pos(got, "cand-elec") > pos(got, "cand-farm") {
		t.Fatalf("in-category candidate must rank above cold category: %v", ids(got))
	}
}

func TestUnseenBonus(t *testing.T) {
	s := noJitter()
	history := []recommend.View{
		{ListingID: "a", Views: 1, LastViewed: 3},
		{ListingID: "b", Views: 1, LastViewed: 2},
		{ListingID: "c", Views: 1, LastViewed: 1},
	}
	cands := []recommend.Candidate{
		{ID: "a", Category: "G"}, {ID: "b", Category: "G"}, {ID: "c", Category: "G"},
		{ID: "fresh", Category: "G"},
		{ID: "a-twin", Category: "G"},
	}
	got := s.Rank(history, cands)
	// Both unseen candidates share every signal; the seen ones lack the +30.
	if pos(got, "fresh") > pos(got, "a") || pos(got, "a-twin") > pos(got, "a") {
		t.Fatalf("unseen candidates must outrank seen twins: %v", ids(got))
	}
}

func TestJitterPerturbsButKeepsMembers(t *testing.T) {
	s := &recommend.Scorer{Rand: rand.New(rand.NewSource(1))}
	history := []recommend.View{
		{ListingID: "a", LastViewed: 3}, {ListingID: "b", LastViewed: 2}, {ListingID: "c", LastViewed: 1},
	}
	cands := []recommend.Candidate{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	got := s.Rank(history, cands)
	if len(got) != 4 {
		t.Fatalf("jitter must not drop candidates: %v", ids(got))
	}
}

func TestPopularityRecencyBoost(t *testing.T) {
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	young := recommend.Candidate{Orders: 10, Wishlists: 0, Views: 0, CreatedAt: now.AddDate(0, 0, -1)}
	old := recommend.Candidate{Orders: 10, Wishlists: 0, Views: 0, CreatedAt: now.AddDate(0, 0, -200)}

	py := recommend.Popularity(young, now)
	po := recommend.Popularity(old, now)
	if py <= po {
		t.Fatalf("younger listing must score higher: young=%v old=%v", py, po)
	}
	if po != 50 { // 10 orders * 10 * 0.5 floor
		t.Fatalf("old listing should hit the 0.5 floor, got %v", po)
	}
}

func ids(cs []recommend.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func pos(cs []recommend.Candidate, id string) int {
	for i, c := range cs {
		if c.ID == id {
			return i
		}
	}
	return -1
}
