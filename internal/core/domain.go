package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date layout used by forms and persistence.
const DateLayout = "2006-01-02"

// MaxDescriptionLength bounds the free-text label of an expense, in
// characters.
const MaxDescriptionLength = 200

// MaxAmount is the largest amount a single expense may carry.
var MaxAmount = decimal.New(1, 12)

type (
	// Date is a calendar date without time-of-day semantics.
	Date struct {
		time.Time
	}

	// Expense is a recorded spending. It is immutable once created.
	Expense struct {
		ID           string
		Amount       decimal.Decimal
		Currency     Currency
		AmountInBase decimal.Decimal // USD at creation time, audit only
		Category     Category
		Description  string
		Date         Date
		Timestamp    time.Time
	}

	// Draft holds the user-entered fields of an expense before the store
	// assigns its identity.
	Draft struct {
		Amount      decimal.Decimal
		Currency    Currency
		Category    Category
		Description string
		Date        Date
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidDraft       = errors.New("invalid expense draft")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameMonth reports whether d falls in the calendar month of t.
func (d Date) SameMonth(t time.Time) bool {
	return d.Year() == t.Year() && d.Month() == t.Month()
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps too, keeping only the calendar part.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the draft the same way the add form does: an amount and a
// description are required, the enumerations must be known.
func (dr Draft) Validate() error {
	if !dr.Amount.IsPositive() || dr.Amount.GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}
	desc := strings.TrimSpace(dr.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return fmt.Errorf("%w (max %d characters)", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	if !dr.Currency.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, string(dr.Currency))
	}
	if !dr.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(dr.Category))
	}
	return dr.Date.Validate()
}
