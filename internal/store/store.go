// Package store keeps the ordered collection of expenses in memory and
// mirrors it into a single kv entry after every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/kv"

	"github.com/google/uuid"
)

// DefaultKey is the kv entry holding the serialized collection.
const DefaultKey = "expenses"

// Observer is told about every successful mutation. Implementations must not
// block for long and must handle their own failures.
type Observer interface {
	ExpenseAdded(ctx context.Context, e core.Expense)
	ExpenseDeleted(ctx context.Context, e core.Expense)
}

type Store struct {
	mu       sync.Mutex
	backend  kv.Store
	key      string
	items    []core.Expense
	now      func() time.Time
	newID    func() string
	observer Observer
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the kv entry name.
func WithKey(key string) Option {
	return func(s *Store) {
		if strings.TrimSpace(key) != "" {
			s.key = key
		}
	}
}

// WithClock overrides the creation-time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the identifier source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithObserver registers the mutation observer.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observer = o }
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the kv entry name the collection is persisted under.
func (s *Store) Key() string { return s.key }

// Load replaces the in-memory collection with the persisted one. A missing,
// unreadable or malformed entry yields an empty collection; it never fails.
func (s *Store) Load(ctx context.Context) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	data, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.logger.InfoContext(ctx, "No persisted expenses, starting empty", "key", s.key)
		return s.snapshot()
	case err != nil:
		s.logger.WarnContext(ctx, "Failed to read persisted expenses, starting empty", "key", s.key, "error", err)
		return s.snapshot()
	}

	items, err := Decode(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Malformed persisted expenses, starting empty", "key", s.key, "error", err)
		return s.snapshot()
	}
	s.items = items
	s.logger.InfoContext(ctx, "Loaded expenses", "key", s.key, "count", len(items))
	return s.snapshot()
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Add validates the draft, assigns identity, timestamp and the USD audit
// amount, appends it and persists the collection.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Expense, error) {
	if err := d.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %w", core.ErrInvalidDraft, err)
	}

	s.mu.Lock()
	e := core.Expense{
		ID:           s.uniqueID(),
		Amount:       d.Amount,
		Currency:     d.Currency,
		AmountInBase: core.Convert(d.Amount, d.Currency, core.Pivot),
		Category:     d.Category,
		Description:  strings.TrimSpace(d.Description),
		Date:         d.Date,
		Timestamp:    s.now(),
	}
	s.items = append(s.items, e)
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expense added",
		"id", e.ID,
		"amount", e.Amount.String(),
		"currency", e.Currency,
		"category", e.Category,
		"date", e.Date.String())

	if s.observer != nil {
		s.observer.ExpenseAdded(ctx, e)
	}
	return e, nil
}

// Delete removes the expense with the given id and persists. An unknown id
// is a no-op and reports false.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := -1
	for i, e := range s.items {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.logger.DebugContext(ctx, "Delete of unknown expense ignored", "id", id)
		return false
	}
	removed := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expense deleted", "id", id)
	if s.observer != nil {
		s.observer.ExpenseDeleted(ctx, removed)
	}
	return true
}

// persist writes the whole collection. Failures are logged, never returned.
// Caller holds s.mu.
func (s *Store) persist(ctx context.Context) {
	data, err := Encode(s.items)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode expenses", "error", err)
		return
	}
	// The change is already visible in memory; a client that went away must
	// not cancel the write behind it.
	if err := s.backend.Put(context.WithoutCancel(ctx), s.key, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist expenses", "key", s.key, "error", err, "count", len(s.items))
	}
}

// uniqueID draws identifiers until one is unused. Caller holds s.mu.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		taken := false
		for _, e := range s.items {
			if e.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

func (s *Store) snapshot() []core.Expense {
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out
}
