// Package recommend ranks the listing set for a single browser session
// from locally tracked view history. There is no server-side model;
// the signal is only what this session has looked at.
package recommend

import (
	"math/rand"
	"sort"
	"time"
)

const minViewedForPersonalization = 3

// Candidate carries the listing fields the scorer reads, plus the
// global counters feeding the popularity sub-score.
type Candidate struct {
	ID          string
	Category    string
	Subcategory string
	Brand       string
	SellerID    string
	Price       float64
	Margin      int
	CreatedAt   time.Time
	Orders      int
	Wishlists   int
	Views       int
}

// View is one session's engagement with one listing.
type View struct {
	ListingID  string
	Views      int
	TotalTime  int // seconds
	LastViewed int64
}

// Scorer ranks candidates. Rand drives the final jitter; a nil Rand
// disables it and makes Rank deterministic.
type Scorer struct {
	Rand *rand.Rand
	Now  func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:  time.Now,
	}
}

type interest struct {
	category    map[string]float64
	subcategory map[string]float64
	brand       map[string]float64
	seller      map[string]float64
	avgPrice    float64
	engaged     []Candidate
	seen        map[string]bool
}

// Rank returns candidates ordered by descending score. With fewer than
// three distinct viewed listings there is not enough signal, and the
// order falls back to static margin score.
func (s *Scorer) Rank(history []View, candidates []Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	if len(history) < minViewedForPersonalization {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Margin > out[j].Margin })
		return out
	}

	in := buildInterest(history, candidates)
	scores := make(map[string]float64, len(out))
	for _, c := range out {
		scores[c.ID] = s.score(c, in)
	}
	sort.SliceStable(out, func(i, j int) bool { return scores[out[i].ID] > scores[out[j].ID] })
	return out
}

func buildInterest(history []View, candidates []Candidate) interest {
	byID := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	// Most recent first; rank position drives the linear decay.
	ordered := make([]View, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].LastViewed > ordered[j].LastViewed })

	in := interest{
		category:    map[string]float64{},
		subcategory: map[string]float64{},
		brand:       map[string]float64{},
		seller:      map[string]float64{},
		seen:        map[string]bool{},
	}
	n := len(ordered)
	priceSum, priced := 0.0, 0
	for rank, v := range ordered {
		in.seen[v.ListingID] = true
		c, ok := byID[v.ListingID]
		if !ok {
			continue
		}
		w := float64(n-rank) / float64(n)
		if engaged(v) {
			w *= 2
			in.engaged = append(in.engaged, c)
		}
		in.category[c.Category] += w
		in.subcategory[c.Subcategory] += w
		in.brand[c.Brand] += w
		in.seller[c.SellerID] += w
		if c.Price > 0 {
			priceSum += c.Price
			priced++
		}
	}
	if priced > 0 {
		in.avgPrice = priceSum / float64(priced)
	}
	return in
}

func engaged(v View) bool { return v.Views >= 2 || v.TotalTime >= 60 }

func (s *Scorer) score(c Candidate, in interest) float64 {
	score := in.category[c.Category]*15 +
		in.subcategory[c.Subcategory]*25 +
		in.brand[c.Brand]*20 +
		in.seller[c.SellerID]*8

	if in.avgPrice > 0 && c.Price >= 0.5*in.avgPrice && c.Price <= 2*in.avgPrice {
		score += 10
	}
	if !in.seen[c.ID] {
		score += 30
	}

	pop := Popularity(c, s.now())
	if p := pop * 0.1; p < 5 {
		score += p
	} else {
		score += 5
	}
	if c.Margin >= 20 {
		score += 10
	}

	if len(in.engaged) > 0 {
		simSum := 0.0
		for _, e := range in.engaged {
			simSum += similarity(c, e)
		}
		score += simSum * 40 / float64(len(in.engaged))
	}

	if s.Rand != nil {
		score *= 0.9 + s.Rand.Float64()*0.2
	}
	return score
}

func similarity(a, b Candidate) float64 {
	matches := 0.0
	if a.Category != "" && a.Category == b.Category {
		matches++
	}
	if a.Subcategory != "" && a.Subcategory == b.Subcategory {
		matches++
	}
	if a.Brand != "" && a.Brand == b.Brand {
		matches++
	}
	return matches / 3
}

// Popularity feeds both the scorer and the "popular" sort mode. Newer
// listings get a boost that decays to a 0.5 floor over 60 days.
func Popularity(c Candidate, now time.Time) float64 {
	days := now.Sub(c.CreatedAt).Hours() / 24
	boost := 1 - days/60
	if boost < 0.5 {
		boost = 0.5
	}
	return (float64(c.Orders)*10 + float64(c.Wishlists)*3 + float64(c.Views)*0.1) * boost
}

func (s *Scorer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
