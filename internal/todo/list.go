package todo

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/model"
)

// Persister reads and writes the raw document bytes.
type Persister interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// List is a Store that saves itself after every mutation.
type List struct {
	store     *Store
	persister Persister
	log       *logging.Logger
	recovered error
	// readErr is set when the saved document exists but could not be read.
	// Save refuses to replace a document it never saw.
	readErr error
}

// Open loads the list from p. A missing file starts an empty list. An
// unreadable or malformed file also starts an empty list; the cause is logged
// and kept in Recovered so the caller can warn the user. After a read failure
// (including a lock held by another writer) the list works in memory but Save
// returns ErrReadOnly, so the unread document is never overwritten.
func Open(ctx context.Context, p Persister, log *logging.Logger, opts ...Option) (*List, error) {
	if log == nil {
		log = logging.Nop()
	}
	l := &List{persister: p, log: log}

	data, err := p.Read(ctx)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Debugw("no saved list, starting empty")
		l.store = New(opts...)
		return l, nil
	case err != nil:
		log.WithError(err).Warnw("could not read saved list, starting empty and read-only")
		l.store = New(opts...)
		l.recovered = err
		l.readErr = err
		return l, nil
	}

	s, err := Load(data, opts...)
	if err != nil {
		if !errors.Is(err, ErrDecode) {
			return nil, err
		}
		log.WithError(err).Warnw("saved list is malformed, starting empty")
		l.store = New(opts...)
		l.recovered = err
		return l, nil
	}
	log.Debugw("loaded list", "items", s.Len(), "next_identifier", s.NextIdentifier())
	l.store = s
	return l, nil
}

// Recovered returns the read or decode error Open fell back from, or nil.
func (l *List) Recovered() error { return l.recovered }

// Store exposes the underlying store for read-only queries.
func (l *List) Store() *Store { return l.store }

// ReadOnly reports whether Save will refuse to write.
func (l *List) ReadOnly() bool { return l.readErr != nil }

// Save writes the current document.
func (l *List) Save(ctx context.Context) error {
	if l.readErr != nil {
		l.log.WithError(l.readErr).Warnw("not saving over unread list")
		return fmt.Errorf("save list: %w: %w", ErrReadOnly, l.readErr)
	}
	data, err := l.store.Serialize()
	if err != nil {
		l.log.WithError(err).Errorw("encode list")
		return err
	}
	if err := l.persister.Write(ctx, data); err != nil {
		l.log.WithError(err).Errorw("save list")
		return fmt.Errorf("save list: %w", err)
	}
	l.log.Debugw("saved list", "items", l.store.Len(), "bytes", len(data))
	return nil
}

// Add creates an item and saves. The item is returned even when saving fails
// so the caller can report what was kept in memory. Nothing is added once the
// next identifier would not fit in a saved document.
func (l *List) Add(ctx context.Context, title string) (model.Item, error) {
	if next := l.store.NextIdentifier(); next > MaxIdentifier {
		return model.Item{}, fmt.Errorf("add: %w: next would be %d", ErrIdentifiersExhausted, next)
	}
	it := l.store.Add(title)
	l.log.Infow("item added", "identifier", it.Identifier)
	return it, l.Save(ctx)
}

// ToggleComplete flips completion and saves.
func (l *List) ToggleComplete(ctx context.Context, id int) (model.Item, error) {
	it, err := l.store.ToggleComplete(id)
	if err != nil {
		return model.Item{}, err
	}
	l.log.Infow("item toggled", "identifier", id, "complete", it.Complete)
	return it, l.Save(ctx)
}

// Rename changes a title and saves.
func (l *List) Rename(ctx context.Context, id int, title string) (model.Item, error) {
	it, err := l.store.Rename(id, title)
	if err != nil {
		return model.Item{}, err
	}
	l.log.Infow("item renamed", "identifier", id)
	return it, l.Save(ctx)
}

// Remove deletes by identifier and saves.
func (l *List) Remove(ctx context.Context, id int) (model.Item, error) {
	it, err := l.store.Remove(id)
	if err != nil {
		return model.Item{}, err
	}
	l.log.Infow("item removed", "identifier", id)
	return it, l.Save(ctx)
}

// Get returns one item.
func (l *List) Get(id int) (model.Item, error) { return l.store.Get(id) }

// IncompleteView returns open items, most recent first.
func (l *List) IncompleteView() []model.Item { return l.store.IncompleteView() }

// CompleteView returns finished items, most recent first.
func (l *List) CompleteView() []model.Item { return l.store.CompleteView() }

// Stats counts complete and incomplete items.
func (l *List) Stats() (done, pending int) { return l.store.Stats() }
