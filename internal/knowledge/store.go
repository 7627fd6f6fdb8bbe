package knowledge

import (
	"sync"

	"pm-assistant/internal/confluence"
)

// Store is the in-memory page index: page records by ID plus a map from a parent page
// to the descendants discovered under it. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	pages     map[string]confluence.PageRecord
	order     []string
	hierarchy map[string][]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		pages:     make(map[string]confluence.PageRecord),
		hierarchy: make(map[string][]string),
	}
}

// Put adds a record, replacing any record with the same ID.
func (s *Store) Put(rec confluence.PageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pages[rec.ID]; !exists {
		s.order = append(s.order, rec.ID)
	}
	s.pages[rec.ID] = rec
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (confluence.PageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.pages[id]
	return rec, ok
}

// Size returns the number of indexed pages.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// All returns every record. Callers must not rely on the order.
func (s *Store) All() []confluence.PageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]confluence.PageRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.pages[id])
	}
	return out
}

// LinkChild records childID as a descendant of parentID. Each pair is recorded once.
func (s *Store) LinkChild(parentID, childID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.hierarchy[parentID] {
		if existing == childID {
			return
		}
	}
	s.hierarchy[parentID] = append(s.hierarchy[parentID], childID)
}

// Descendants returns the IDs recorded under parentID.
func (s *Store) Descendants(parentID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.hierarchy[parentID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Clear empties both the page map and the hierarchy map.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[string]confluence.PageRecord)
	s.order = nil
	s.hierarchy = make(map[string][]string)
}

// Replace swaps the contents of other into s in one step. other must not be used afterwards.
func (s *Store) Replace(other *Store) {
	other.mu.Lock()
	pages, order, hierarchy := other.pages, other.order, other.hierarchy
	other.pages, other.order, other.hierarchy = make(map[string]confluence.PageRecord), nil, make(map[string][]string)
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages, s.order, s.hierarchy = pages, order, hierarchy
}
