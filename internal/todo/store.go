// Package todo holds the in-memory to-do list: identifier assignment,
// mutations, the derived complete/incomplete views and the JSON document codec.
package todo

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/idilsaglam/todolist/internal/model"
)

// MaxIdentifier is the largest identifier a saved document may carry: the
// largest integer every JSON reader holds exactly. document.schema.json uses
// the same bound.
const MaxIdentifier = 1<<53 - 1

// Store owns the items and the identifier counter.
//
// lastID is the most recently assigned identifier (or the highest one loaded),
// so the next Add always yields lastID+1 and identifiers are never reused while
// the store lives.
type Store struct {
	mu     sync.RWMutex
	items  []model.Item
	lastID int
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{items: []model.Item{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load decodes a persisted document. Any problem with the bytes is reported as
// a *DecodeError; the caller decides whether to fall back to New().
func Load(data []byte, opts ...Option) (*Store, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Err: err}
	}

	s := New(opts...)
	seen := make(map[int]int, len(doc.List))
	for i, it := range doc.List {
		if prev, dup := seen[it.Identifier]; dup {
			return nil, &DecodeError{
				Path: fmt.Sprintf("list[%d].identifier", i),
				Err:  fmt.Errorf("identifier %d already used by list[%d]", it.Identifier, prev),
			}
		}
		seen[it.Identifier] = i
		if it.Identifier > s.lastID {
			s.lastID = it.Identifier
		}
		s.items = append(s.items, it)
	}
	return s, nil
}

// Serialize encodes the store as {"list": [...]}.
func (s *Store) Serialize() ([]byte, error) {
	s.mu.RLock()
	doc := model.Document{List: append([]model.Item{}, s.items...)}
	s.mu.RUnlock()

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return append(b, '\n'), nil
}

// Add appends a new incomplete item. Empty titles are the caller's to reject.
func (s *Store) Add(title string) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	it := model.Item{
		Identifier:   s.lastID,
		Title:        title,
		ModifiedDate: s.now(),
		Complete:     false,
	}
	s.items = append(s.items, it)
	return it
}

// ToggleComplete flips the completion flag and refreshes modifiedDate.
func (s *Store) ToggleComplete(id int) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Item{}, notFound(id)
	}
	s.items[i].Complete = !s.items[i].Complete
	s.touch(i)
	return s.items[i], nil
}

// Rename replaces the title and refreshes modifiedDate.
func (s *Store) Rename(id int, title string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Item{}, notFound(id)
	}
	s.items[i].Title = title
	s.touch(i)
	return s.items[i], nil
}

// Remove deletes the item with the given identifier and returns it.
func (s *Store) Remove(id int) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Item{}, notFound(id)
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return removed, nil
}

// Get returns the item with the given identifier.
func (s *Store) Get(id int) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Item{}, notFound(id)
	}
	return s.items[i], nil
}

// IncompleteView returns open items, most recently modified first.
func (s *Store) IncompleteView() []model.Item {
	return s.view(false)
}

// CompleteView returns finished items, most recently modified first.
func (s *Store) CompleteView() []model.Item {
	return s.view(true)
}

// Items returns a copy of every item in storage order.
func (s *Store) Items() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Item{}, s.items...)
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// NextIdentifier is the identifier the next Add will assign.
func (s *Store) NextIdentifier() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastID + 1
}

// Stats counts complete and incomplete items.
func (s *Store) Stats() (done, pending int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.Complete {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s *Store) view(complete bool) []model.Item {
	s.mu.RLock()
	out := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		if it.Complete == complete {
			out = append(out, it)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModifiedDate.Equal(out[j].ModifiedDate) {
			return out[i].ModifiedDate.After(out[j].ModifiedDate)
		}
		return out[i].Identifier > out[j].Identifier
	})
	return out
}

func (s *Store) indexOf(id int) int {
	for i, it := range s.items {
		if it.Identifier == id {
			return i
		}
	}
	return -1
}

// touch sets modifiedDate to now, never moving it backwards.
func (s *Store) touch(i int) {
	now := s.now()
	if now.Before(s.items[i].ModifiedDate) {
		now = s.items[i].ModifiedDate
	}
	s.items[i].ModifiedDate = now
}
