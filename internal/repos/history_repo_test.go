package repos_test

import (
	"fmt"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

func TestViewHistoryBounded(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	r := repos.NewHistoryRepo(db)

	sid := "heavy-browser"
	for i := 0; i < 130; i++ {
		// History rows do not FK listings; ids can be synthetic here.
		if err := r.RecordView(sid, fmt.Sprintf("lst-%03d", i)); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := r.BySession(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) > 100 {
		t.Fatalf("history must stay bounded at 100, got %d", len(stats))
	}
	// The most recent view survives pruning.
	if stats[0].ListingID != "lst-129" {
		t.Fatalf("want most recent first, got %s", stats[0].ListingID)
	}
}

func TestDwellTimeAccumulates(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	r := repos.NewHistoryRepo(db)

	if err := r.RecordView("s", "lst-socks"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddDwellTime("s", "lst-socks", 30); err != nil {
		t.Fatal(err)
	}
	if err := r.AddDwellTime("s", "lst-socks", 45); err != nil {
		t.Fatal(err)
	}
	stats, err := r.BySession("s")
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].TotalTime != 75 {
		t.Fatalf("want total_time 75, got %+v", stats)
	}
}
