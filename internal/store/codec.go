package store

import (
	"encoding/json"
	"fmt"
	"time"

	"spendwise/internal/core"

	"github.com/shopspring/decimal"
)

// record is the persisted shape of an expense. Amounts are JSON numbers and
// the timestamp is Unix milliseconds.
type record struct {
	ID           string      `json:"id"`
	Amount       json.Number `json:"amount"`
	Currency     string      `json:"currency"`
	AmountInBase json.Number `json:"amountInBase"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	Date         core.Date   `json:"date"`
	Timestamp    int64       `json:"timestamp"`
}

func toRecord(e core.Expense) record {
	return record{
		ID:           e.ID,
		Amount:       json.Number(e.Amount.String()),
		Currency:     string(e.Currency),
		AmountInBase: json.Number(e.AmountInBase.String()),
		Category:     string(e.Category),
		Description:  e.Description,
		Date:         e.Date,
		Timestamp:    e.Timestamp.UnixMilli(),
	}
}

func fromRecord(r record) (core.Expense, error) {
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s amount: %w", r.ID, err)
	}
	cur, err := core.ParseCurrency(r.Currency)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: %w", r.ID, err)
	}
	cat, err := core.ParseCategory(r.Category)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %s: %w", r.ID, err)
	}
	inBase := decimal.Zero
	if r.AmountInBase != "" {
		if inBase, err = decimal.NewFromString(r.AmountInBase.String()); err != nil {
			return core.Expense{}, fmt.Errorf("expense %s amountInBase: %w", r.ID, err)
		}
	}
	return core.Expense{
		ID:           r.ID,
		Amount:       amount,
		Currency:     cur,
		AmountInBase: inBase,
		Category:     cat,
		Description:  r.Description,
		Date:         r.Date,
		Timestamp:    time.UnixMilli(r.Timestamp),
	}, nil
}

// Encode serializes the collection as a JSON array.
func Encode(expenses []core.Expense) ([]byte, error) {
	records := make([]record, len(expenses))
	for i, e := range expenses {
		records[i] = toRecord(e)
	}
	return json.Marshal(records)
}

// Decode parses a JSON array produced by Encode. Any malformed record fails
// the whole blob.
func Decode(data []byte) ([]core.Expense, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(records))
	for _, r := range records {
		e, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("decode expenses: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// EncodeExpense serializes a single expense in the persisted layout.
func EncodeExpense(e core.Expense) ([]byte, error) {
	return json.Marshal(toRecord(e))
}
