package core

import (
	"errors"
	"fmt"
	"strings"
)

// Category is a spending category. Its value is the display label.
type Category string

const (
	Food          Category = "Food & Drink"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Entertainment Category = "Entertainment"
	Bills         Category = "Bills & Utilities"
	Health        Category = "Health"
	Travel        Category = "Travel"
	Other         Category = "Other"
)

var ErrUnknownCategory = errors.New("unknown category")

var categoryNames = map[string]Category{
	"food":          Food,
	"transport":     Transport,
	"shopping":      Shopping,
	"entertainment": Entertainment,
	"bills":         Bills,
	"health":        Health,
	"travel":        Travel,
	"other":         Other,
}

// Categories returns every category in form order.
func Categories() []Category {
	return []Category{Food, Transport, Shopping, Entertainment, Bills, Health, Travel, Other}
}

// ParseCategory accepts either the label ("Food & Drink") or the short
// name ("food"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categoryNames[key]; ok {
		return c, nil
	}
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) IsValid() bool {
	for _, k := range Categories() {
		if k == c {
			return true
		}
	}
	return false
}

// Initial is the badge letter shown next to an expense.
func (c Category) Initial() string {
	if c == "" {
		return "?"
	}
	return string(c)[:1]
}

func (c Category) String() string { return string(c) }
