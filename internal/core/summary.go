package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TrendMonths is the number of calendar months covered by Trend.
const TrendMonths = 6

// RecentLimit is the number of expenses shown on the dashboard.
const RecentLimit = 5

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// MonthTotal is the rounded spending of one calendar month.
type MonthTotal struct {
	Year   int
	Month  time.Month
	Amount decimal.Decimal
}

// Label is the short month name used on the chart axis.
func (m MonthTotal) Label() string {
	return m.Month.String()[:3]
}

// Total sums every expense converted into base.
func Total(expenses []Expense, base Currency) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(Convert(e.Amount, e.Currency, base))
	}
	return sum
}

// MonthlyTotal sums the expenses dated in the calendar month of now.
func MonthlyTotal(expenses []Expense, base Currency, now time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		if e.Date.SameMonth(now) {
			sum = sum.Add(Convert(e.Amount, e.Currency, base))
		}
	}
	return sum
}

// ByCategory sums converted amounts per category. Only categories present in
// expenses appear, in order of first occurrence.
func ByCategory(expenses []Expense, base Currency) []CategoryAmount {
	var out []CategoryAmount
	index := make(map[Category]int)
	for _, e := range expenses {
		v := Convert(e.Amount, e.Currency, base)
		if i, ok := index[e.Category]; ok {
			out[i].Amount = out[i].Amount.Add(v)
			continue
		}
		index[e.Category] = len(out)
		out = append(out, CategoryAmount{Category: e.Category, Amount: v})
	}
	return out
}

// Trend returns the TrendMonths calendar months ending with the month of now,
// oldest first. Months without expenses report zero.
func Trend(expenses []Expense, base Currency, now time.Time) []MonthTotal {
	out := make([]MonthTotal, 0, TrendMonths)
	for i := TrendMonths - 1; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		sum := decimal.Zero
		for _, e := range expenses {
			if e.Date.SameMonth(first) {
				sum = sum.Add(Convert(e.Amount, e.Currency, base))
			}
		}
		out = append(out, MonthTotal{Year: first.Year(), Month: first.Month(), Amount: sum.Round(0)})
	}
	return out
}

// Recent returns a copy of expenses sorted newest first by creation time,
// truncated to n entries when n > 0.
func Recent(expenses []Expense, n int) []Expense {
	out := make([]Expense, len(expenses))
	copy(out, expenses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
