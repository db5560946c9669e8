package filter

import (
	"slices"
	"strings"
	"sync"

	"github.com/lysyi3m/bill-comb/app/catalog"
)

// Selection is the set of tag values chosen within one category.
type Selection map[string]struct{}

func NewSelection(tags ...string) Selection {
	s := make(Selection, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			s[tag] = struct{}{}
		}
	}
	return s
}

func (s Selection) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Values returns the selected tags sorted.
func (s Selection) Values() []string {
	values := make([]string, 0, len(s))
	for tag := range s {
		values = append(values, tag)
	}
	slices.Sort(values)
	return values
}

// Snapshot maps category ids to their non-empty selections.
type Snapshot map[string]Selection

// Snapshot lets a Snapshot stand in wherever a Selector is accepted.
func (s Snapshot) Snapshot() Snapshot {
	return s
}

func (s Snapshot) IsEmpty() bool {
	return len(s) == 0
}

// Values returns the snapshot as sorted tag lists.
func (s Snapshot) Values() map[string][]string {
	out := make(map[string][]string, len(s))
	for id, selection := range s {
		out[id] = selection.Values()
	}
	return out
}

// State is one viewing session's tag selection. Each mutation replaces the
// selection of exactly one category while holding the write lock, so
// readers never see a half-replaced selection.
type State struct {
	catalog *catalog.Catalog

	mu         sync.RWMutex
	selections map[string]Selection

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSub     int

	done      chan struct{}
	closeOnce sync.Once
}

func NewState(c *catalog.Catalog) *State {
	return &State{
		catalog:     c,
		selections:  make(map[string]Selection),
		subscribers: make(map[int]func()),
		done:        make(chan struct{}),
	}
}

// SetSelection replaces the selection for categoryID. An unknown category
// returns *catalog.NotFoundError and leaves the state untouched. An empty
// tag list clears the category. Subscribers are notified after the lock is
// released.
func (s *State) SetSelection(categoryID string, tags []string) error {
	if !s.catalog.Has(categoryID) {
		return &catalog.NotFoundError{CategoryID: categoryID}
	}

	selection := NewSelection(tags...)

	s.mu.Lock()
	if len(selection) == 0 {
		delete(s.selections, categoryID)
	} else {
		s.selections[categoryID] = selection
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *State) Clear(categoryID string) error {
	return s.SetSelection(categoryID, nil)
}

// IsEmpty reports whether no category constrains the result set.
func (s *State) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selections) == 0
}

// Snapshot returns a deep copy of the current selections.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(Snapshot, len(s.selections))
	for id, selection := range s.selections {
		copied := make(Selection, len(selection))
		for tag := range selection {
			copied[tag] = struct{}{}
		}
		snapshot[id] = copied
	}
	return snapshot
}

// Categories returns the catalog categories with Active set for every
// category that currently has a selection.
func (s *State) Categories() []catalog.Category {
	categories := s.catalog.Categories()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range categories {
		_, categories[i].Active = s.selections[categories[i].ID]
	}
	return categories
}

func (s *State) Catalog() *catalog.Catalog {
	return s.catalog
}

// Subscribe registers fn to be called after every successful mutation. The
// returned function removes the subscription and may be called more than
// once.
func (s *State) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// Done is closed once the state has been closed.
func (s *State) Done() <-chan struct{} {
	return s.done
}

// Close marks the state as retired. It may be called more than once.
func (s *State) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *State) notify() {
	s.subMu.Lock()
	subscribers := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}
