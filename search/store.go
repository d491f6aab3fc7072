// Package search holds the client-side search state: last parameters, the
// current result set, in-place stable sorting, and pure filtered views.
package search

import (
	"sort"
	"sync"
	"time"

	"github.com/andeanfly/flightdesk/domain"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// TimeBucket is a departure-time-of-day filter bucket.
type TimeBucket string

const (
	Morning   TimeBucket = "morning"   // 06:00–11:59
	Afternoon TimeBucket = "afternoon" // 12:00–17:59
	Evening   TimeBucket = "evening"   // 18:00–21:59
	Night     TimeBucket = "night"     // 22:00–05:59
)

// Params are the last search parameters.
type Params struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Passengers    int
}

// Store holds search parameters and results. Like the other state
// containers it is instantiated per app and per test, never ambient.
type Store struct {
	mu      sync.Mutex
	params  Params
	results []domain.Flight
}

// NewStore creates an empty search store.
func NewStore() *Store {
	return &Store{}
}

// SetParams records the parameters of the latest search.
func (s *Store) SetParams(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
}

// Params returns the latest search parameters.
func (s *Store) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetResults replaces the result set wholesale. There is no incremental
// merge.
func (s *Store) SetResults(results []domain.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make([]domain.Flight, len(results))
	copy(s.results, results)
}

// Results returns a copy of the current result set.
func (s *Store) Results() []domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Flight, len(s.results))
	copy(out, s.results)
	return out
}

// SortByPrice stably sorts the stored results in place by current price.
// Ties keep their original relative order.
func (s *Store) SortByPrice(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(s.results, func(i, j int) bool {
		if order == Desc {
			return s.results[i].CurrentPrice > s.results[j].CurrentPrice
		}
		return s.results[i].CurrentPrice < s.results[j].CurrentPrice
	})
}

// SortByDuration stably sorts the stored results in place by duration.
func (s *Store) SortByDuration(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(s.results, func(i, j int) bool {
		if order == Desc {
			return s.results[i].DurationMinutes > s.results[j].DurationMinutes
		}
		return s.results[i].DurationMinutes < s.results[j].DurationMinutes
	})
}

// FilterByMaxPrice returns the flights at or under the ceiling. The
// stored result set is not touched.
func (s *Store) FilterByMaxPrice(ceiling float64) []domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Flight
	for _, f := range s.results {
		if f.CurrentPrice <= ceiling {
			out = append(out, f)
		}
	}
	return out
}

// FilterByDeparture returns the flights departing inside the bucket. The
// stored result set is not touched.
func (s *Store) FilterByDeparture(bucket TimeBucket) []domain.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Flight
	for _, f := range s.results {
		if InBucket(f.DepartureTime, bucket) {
			out = append(out, f)
		}
	}
	return out
}

// InBucket reports whether t's local hour falls in the bucket. Night
// wraps midnight: 22:00–05:59.
func InBucket(t time.Time, bucket TimeBucket) bool {
	hour := t.Hour()
	switch bucket {
	case Morning:
		return hour >= 6 && hour < 12
	case Afternoon:
		return hour >= 12 && hour < 18
	case Evening:
		return hour >= 18 && hour < 22
	case Night:
		return hour >= 22 || hour < 6
	default:
		return true
	}
}
