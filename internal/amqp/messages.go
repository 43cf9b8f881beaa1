package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"spendwise/internal/core"
)

// Event types published on the exchange.
const (
	EventExpenseAdded   = "expense.added"
	EventExpenseDeleted = "expense.deleted"
)

// ExpenseEvent describes one mutation of the expense collection. Amounts are
// JSON numbers, Timestamp is the expense creation time in Unix milliseconds.
type ExpenseEvent struct {
	Type         string      `json:"type"`
	ID           string      `json:"id"`
	Amount       json.Number `json:"amount"`
	Currency     string      `json:"currency"`
	AmountInBase json.Number `json:"amountInBase"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	Date         string      `json:"date"`
	Timestamp    int64       `json:"timestamp"`
	OccurredAt   time.Time   `json:"occurredAt"`
}

// NewExpenseEvent builds the event for e.
func NewExpenseEvent(eventType string, e core.Expense) *ExpenseEvent {
	return &ExpenseEvent{
		Type:         eventType,
		ID:           e.ID,
		Amount:       json.Number(e.Amount.String()),
		Currency:     string(e.Currency),
		AmountInBase: json.Number(e.AmountInBase.String()),
		Category:     string(e.Category),
		Description:  e.Description,
		Date:         e.Date.String(),
		Timestamp:    e.Timestamp.UnixMilli(),
		OccurredAt:   time.Now().UTC(),
	}
}

// Key identifies an event for de-duplication.
func (m *ExpenseEvent) Key() string {
	return m.Type + ":" + m.ID
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes and validates an event.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case EventExpenseAdded, EventExpenseDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("event %s without id", msg.Type)
	}
	return &msg, nil
}
