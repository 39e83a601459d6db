package watchlist

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Smital-1903/docview-watchlist-truedata/internal/feed"
	"github.com/Smital-1903/docview-watchlist-truedata/internal/model"
)

// invalidMarker appears in the name position of a snapshot record when
// the upstream could not resolve a subscription request.
const invalidMarker = "Invalid"

// Store holds the latest quote per watched symbol, keyed by name in
// insertion order. All mutations notify the coalescing change channel.
type Store struct {
	mu       sync.RWMutex
	quotes   map[string]*model.Quote
	order    []string
	registry *Registry

	// Coalescing change signal for the display collaborator.
	changes chan struct{}
}

// NewStore creates an empty store backed by the given registry.
func NewStore(registry *Registry) *Store {
	return &Store{
		quotes:   make(map[string]*model.Quote),
		registry: registry,
		changes:  make(chan struct{}, 1),
	}
}

// ApplySnapshot upserts the full quote for one snapshot record and
// registers its id to name mapping. Records whose name carries the
// upstream invalid marker are discarded. Snapshots never color-flash.
func (s *Store) ApplySnapshot(rec feed.Record) bool {
	if rec.Name == "" || strings.Contains(rec.Name, invalidMarker) {
		return false
	}

	s.registry.Register(rec.ID, rec.Name)

	q := &model.Quote{
		Name:   rec.Name,
		ID:     rec.ID,
		Time:   rec.Time,
		LTP:    rec.LTP,
		LTQ:    rec.LTQ,
		ATP:    rec.ATP,
		Volume: rec.Volume,
		Open:   rec.Open,
		High:   rec.High,
		Low:    rec.Low,
		Close:  rec.Close,
		Color:  model.ColorNeutral,
	}

	s.mu.Lock()
	s.upsertLocked(rec.Name, q)
	s.mu.Unlock()

	s.notifyChange()
	return true
}

// ApplyDelta overlays a trade record onto the existing quote for the
// resolved name. Fields absent from the record keep their prior values.
// Color is recomputed from the price move: up when the new last traded
// price is strictly greater than the previous one, down when strictly
// less, otherwise unchanged. A delta for an unseen symbol seeds a fresh
// record with no flash.
func (s *Store) ApplyDelta(rec feed.Record) bool {
	if rec.ID == "" {
		return false
	}

	name := s.registry.Resolve(rec.ID)

	s.mu.Lock()
	prev, exists := s.quotes[name]

	next := model.Quote{Color: model.ColorNeutral}
	if exists {
		next = *prev
	}
	next.Name = name
	next.ID = rec.ID
	overlay(&next, rec)

	if newLTP, err := strconv.ParseFloat(rec.LTP, 64); err == nil {
		oldLTP := newLTP
		if exists {
			if v, err := strconv.ParseFloat(prev.LTP, 64); err == nil {
				oldLTP = v
			}
		}
		switch {
		case newLTP > oldLTP:
			next.Color = model.ColorUp
		case newLTP < oldLTP:
			next.Color = model.ColorDown
		}
		// Equal keeps the previous color; never reset to neutral here.
	}

	s.upsertLocked(name, &next)
	s.mu.Unlock()

	s.notifyChange()
	return true
}

// overlay copies the non-empty fields of rec onto q.
func overlay(q *model.Quote, rec feed.Record) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&q.Time, rec.Time)
	set(&q.LTP, rec.LTP)
	set(&q.LTQ, rec.LTQ)
	set(&q.ATP, rec.ATP)
	set(&q.Volume, rec.Volume)
	set(&q.Open, rec.Open)
	set(&q.High, rec.High)
	set(&q.Low, rec.Low)
	set(&q.Close, rec.Close)
}

// upsertLocked stores q under name, tracking first-seen order.
// Caller must hold the write lock.
func (s *Store) upsertLocked(name string, q *model.Quote) {
	if _, exists := s.quotes[name]; !exists {
		s.order = append(s.order, name)
	}
	s.quotes[name] = q
}

// Remove deletes every quote matching the name or the id. Either
// criterion alone matches; no match is a silent no-op. The registry
// keeps its mapping.
func (s *Store) Remove(name, id string) {
	s.mu.Lock()

	removed := false
	kept := s.order[:0]
	for _, key := range s.order {
		q := s.quotes[key]
		match := (name != "" && q.Name == name) || (id != "" && q.ID == id)
		if match {
			delete(s.quotes, key)
			removed = true
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept

	s.mu.Unlock()

	if removed {
		s.notifyChange()
	}
}

// Snapshot returns a copy of all quotes in first-seen order, reflecting
// every committed mutation at the time of the call.
func (s *Store) Snapshot() []model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Quote, 0, len(s.order))
	for _, key := range s.order {
		if q, ok := s.quotes[key]; ok {
			result = append(result, *q)
		}
	}
	return result
}

// Get returns the quote for a symbol name.
func (s *Store) Get(name string) (model.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[name]
	if !ok {
		return model.Quote{}, false
	}
	return *q, true
}

// Len returns the number of watched symbols.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}

// Clear drops all quotes. Called at session boundaries so no rows leak
// from a previous login.
func (s *Store) Clear() {
	s.mu.Lock()
	s.quotes = make(map[string]*model.Quote)
	s.order = nil
	s.mu.Unlock()

	s.notifyChange()
}

// Changes returns a coalescing signal channel: at least one receive is
// pending after any mutation.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

// notifyChange signals a mutation without blocking.
func (s *Store) notifyChange() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
