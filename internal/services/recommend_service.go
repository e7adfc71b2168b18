package services

import (
	"context"
	"sort"
	"time"

	"github.com/markodapap-sketch/odapap-sub001/internal/domain"
	"github.com/markodapap-sketch/odapap-sub001/internal/recommend"
	"github.com/markodapap-sketch/odapap-sub001/internal/repos"
)

type RecommendService struct {
	Catalog  *CatalogService
	History  *repos.HistoryRepo
	Listings *repos.ListingRepo
	Scorer   *recommend.Scorer
}

func NewRecommendService(catalog *CatalogService, history *repos.HistoryRepo,
	listings *repos.ListingRepo, scorer *recommend.Scorer) *RecommendService {
	return &RecommendService{Catalog: catalog, History: history, Listings: listings, Scorer: scorer}
}

func (s *RecommendService) RecordView(sessionID, listingID string) error {
	return s.History.RecordView(sessionID, listingID)
}

func (s *RecommendService) AddDwellTime(sessionID, listingID string, seconds int) error {
	return s.History.AddDwellTime(sessionID, listingID, seconds)
}

// Ranked returns the full listing set ordered by the requested sort
// mode, personalized from the session's view history when the mode is
// "recommended".
func (s *RecommendService) Ranked(ctx context.Context, sessionID, mode string) ([]ListingCard, error) {
	listings, err := s.Catalog.AllListings(ctx)
	if err != nil {
		return nil, err
	}
	cards := s.Catalog.Decorate(listings)

	counters, err := s.Listings.AllCounters()
	if err != nil {
		// Ranking still works without popularity counters.
		counters = map[string]repos.Counters{}
	}
	candidates := make([]recommend.Candidate, len(cards))
	byID := make(map[string]ListingCard, len(cards))
	for i, c := range cards {
		candidates[i] = toCandidate(c, counters[c.ID])
		byID[c.ID] = c
	}

	var ordered []recommend.Candidate
	switch mode {
	case "popular":
		ordered = candidates
		now := time.Now()
		sort.SliceStable(ordered, func(i, j int) bool {
			return recommend.Popularity(ordered[i], now) > recommend.Popularity(ordered[j], now)
		})
	case "newest":
		ordered = candidates
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
		})
	case "price_asc":
		ordered = candidates
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Price < ordered[j].Price })
	case "price_desc":
		ordered = candidates
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Price > ordered[j].Price })
	case "margin":
		ordered = candidates
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Margin > ordered[j].Margin })
	default: // recommended
		history, err := s.History.BySession(sessionID)
		if err != nil {
			history = nil
		}
		ordered = s.Scorer.Rank(toViews(history), candidates)
	}

	out := make([]ListingCard, 0, len(ordered))
	for _, c := range ordered {
		out = append(out, byID[c.ID])
	}
	return out, nil
}

func toCandidate(c ListingCard, cnt repos.Counters) recommend.Candidate {
	price, _ := c.Quote.Wholesale.Float64()
	return recommend.Candidate{
		ID:          c.ID,
		Category:    c.Category,
		Subcategory: c.Subcategory,
		Brand:       c.Brand,
		SellerID:    c.UploaderID,
		Price:       price,
		Margin:      c.Quote.Margin,
		CreatedAt:   parseCreated(c.CreatedAt),
		Orders:      cnt.Orders,
		Wishlists:   cnt.Wishlists,
		Views:       cnt.Views,
	}
}

func toViews(stats []domain.ViewStats) []recommend.View {
	out := make([]recommend.View, len(stats))
	for i, v := range stats {
		out[i] = recommend.View{
			ListingID:  v.ListingID,
			Views:      v.Views,
			TotalTime:  v.TotalTime,
			LastViewed: v.LastViewed,
		}
	}
	return out
}

// sqlite CURRENT_TIMESTAMP writes "2006-01-02 15:04:05"; seeds and
// imports occasionally carry RFC3339.
func parseCreated(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
