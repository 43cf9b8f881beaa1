// Package worker keeps the append-only audit journal of expense events.
package worker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"spendwise/internal/amqp"
	"spendwise/internal/kv"

	"github.com/shopspring/decimal"
)

// DefaultJournalKey is the kv entry holding the journal.
const DefaultJournalKey = "journal"

// Journal appends each consumed event as one JSON line to a kv entry.
// Replayed events (same type and id) are ignored.
type Journal struct {
	store  kv.Store
	key    string
	logger *slog.Logger

	mu sync.Mutex
}

func NewJournal(store kv.Store, key string, logger *slog.Logger) *Journal {
	if key == "" {
		key = DefaultJournalKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{store: store, key: key, logger: logger.With("component", "worker")}
}

// HandleEvent records ev. It has the amqp.Handler signature.
func (j *Journal) HandleEvent(ctx context.Context, ev *amqp.ExpenseEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := j.read(ctx)
	if err != nil {
		return err
	}
	entries, err := decodeLines(data)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	for _, e := range entries {
		if e.Key() == ev.Key() {
			j.logger.DebugContext(ctx, "Duplicate event ignored", "event_type", ev.Type, "expense_id", ev.ID)
			return nil
		}
	}

	line, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	data = append(data, line...)
	data = append(data, '\n')
	if err := j.store.Put(ctx, j.key, data); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}

	j.logger.InfoContext(ctx, "Journaled expense event",
		"event_type", ev.Type,
		"expense_id", ev.ID,
		"amount_usd", ev.AmountInBase.String())
	return nil
}

// Entries returns every journaled event in arrival order.
func (j *Journal) Entries(ctx context.Context) ([]*amqp.ExpenseEvent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	data, err := j.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeLines(data)
}

// NetUSD is the USD value, at creation rates, of expenses added and not
// deleted according to the journal.
func (j *Journal) NetUSD(ctx context.Context) (decimal.Decimal, error) {
	entries, err := j.Entries(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, e := range entries {
		v, err := decimal.NewFromString(e.AmountInBase.String())
		if err != nil {
			continue
		}
		switch e.Type {
		case amqp.EventExpenseAdded:
			sum = sum.Add(v)
		case amqp.EventExpenseDeleted:
			sum = sum.Sub(v)
		}
	}
	return sum, nil
}

func (j *Journal) read(ctx context.Context) ([]byte, error) {
	data, err := j.store.Get(ctx, j.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return data, nil
}

func decodeLines(data []byte) ([]*amqp.ExpenseEvent, error) {
	var out []*amqp.ExpenseEvent
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := amqp.ExpenseEventFromJSON(line)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, sc.Err()
}
