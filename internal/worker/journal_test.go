package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/kv"
	"spendwise/internal/kv/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(t string, id, amount, usd string) *amqp.ExpenseEvent {
	return amqp.NewExpenseEvent(t, core.Expense{
		ID:           id,
		Amount:       decimal.RequireFromString(amount),
		Currency:     core.EUR,
		AmountInBase: decimal.RequireFromString(usd),
		Category:     core.Food,
		Description:  "Lunch",
		Date:         core.NewDate(2025, 6, 1),
		Timestamp:    time.UnixMilli(1),
	})
}

type brokenKV struct{ kv.Store }

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (brokenKV) Put(context.Context, string, []byte) error   { return errors.New("read-only") }

func TestJournalAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	j := NewJournal(memory.New(), "", nil)

	require.NoError(t, j.HandleEvent(ctx, event(amqp.EventExpenseAdded, "a", "9.2", "10")))
	require.NoError(t, j.HandleEvent(ctx, event(amqp.EventExpenseAdded, "b", "18.4", "20")))
	require.NoError(t, j.HandleEvent(ctx, event(amqp.EventExpenseDeleted, "a", "9.2", "10")))

	entries, err := j.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "expense.added:a", entries[0].Key())
	assert.Equal(t, "expense.added:b", entries[1].Key())
	assert.Equal(t, "expense.deleted:a", entries[2].Key())

	net, err := j.NetUSD(ctx)
	require.NoError(t, err)
	assert.True(t, net.Equal(decimal.NewFromInt(20)), "net %s", net)
}

func TestJournalIgnoresReplays(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	j := NewJournal(store, "audit", nil)

	ev := event(amqp.EventExpenseAdded, "a", "1", "1")
	require.NoError(t, j.HandleEvent(ctx, ev))
	require.NoError(t, j.HandleEvent(ctx, ev))

	entries, err := j.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = store.Get(ctx, "audit")
	assert.NoError(t, err)
}

func TestJournalEmpty(t *testing.T) {
	j := NewJournal(memory.New(), "", nil)
	entries, err := j.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournalWriteFailureRequeues(t *testing.T) {
	j := NewJournal(brokenKV{}, "", nil)
	err := j.HandleEvent(context.Background(), event(amqp.EventExpenseAdded, "a", "1", "1"))
	assert.Error(t, err)
}

func TestJournalCorruptBlob(t *testing.T) {
	store := memory.NewWithSeed(map[string][]byte{DefaultJournalKey: []byte("not json\n")})
	j := NewJournal(store, "", nil)
	_, err := j.Entries(context.Background())
	assert.Error(t, err)
}
