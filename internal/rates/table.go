package rates

import (
	"sort"
	"sync"
	"time"
)

// Table holds the observation set from one fetch. Tables are immutable once
// published through Live; build a new one instead of mutating in place.
type Table struct {
	Observations []Observation
	FetchedAt    time.Time
}

// NewTable wraps an extraction batch.
func NewTable(obs []Observation, fetchedAt time.Time) *Table {
	return &Table{Observations: obs, FetchedAt: fetchedAt}
}

// Len reports the number of observations.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Observations)
}

// Empty reports whether the table carries no observations.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Lookup finds the first observation for a pair.
func (t *Table) Lookup(pair string) (Observation, bool) {
	if t == nil {
		return Observation{}, false
	}
	for _, o := range t.Observations {
		if o.Pair == pair {
			return o, true
		}
	}
	return Observation{}, false
}

// Groups returns the distinct group labels in document order.
func (t *Table) Groups() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{}, 8)
	var groups []string
	for _, o := range t.Observations {
		if _, ok := seen[o.Group]; ok {
			continue
		}
		seen[o.Group] = struct{}{}
		groups = append(groups, o.Group)
	}
	return groups
}

// Pairs returns the sorted distinct pair names.
func (t *Table) Pairs() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{}, t.Len())
	var pairs []string
	for _, o := range t.Observations {
		if _, ok := seen[o.Pair]; ok {
			continue
		}
		seen[o.Pair] = struct{}{}
		pairs = append(pairs, o.Pair)
	}
	sort.Strings(pairs)
	return pairs
}

// Live is the two-slot holder for the current and immediately preceding
// tables. Depth is exactly one generation: replacing twice discards the table
// from two cycles ago.
type Live struct {
	mu       sync.RWMutex
	current  *Table
	previous *Table
}

// NewLive returns an empty holder.
func NewLive() *Live { return &Live{} }

// Replace installs t as the current table, shifting the old current into the
// previous slot. A nil or empty table is rejected and both slots are left
// untouched: stale data is preferred to no data, and the caller is expected
// to log the condition. Returns whether the swap happened.
func (l *Live) Replace(t *Table) bool {
	if t.Empty() {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.previous = l.current
	l.current = t
	return true
}

// Current returns the live table, or nil before the first successful fetch.
func (l *Live) Current() *Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Previous returns the table one generation back, or nil.
func (l *Live) Previous() *Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.previous
}
