// Package app holds the session: the single object that owns the expense
// store, the selected base currency, the navigation shell and the assistant
// transcript.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"spendwise/internal/advice"
	"spendwise/internal/core"
	"spendwise/internal/nav"
	"spendwise/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
)

// DefaultBase is the base currency when none is configured.
const DefaultBase = core.EUR

// ErrAdvicePending is returned by Ask while another question is in flight.
var ErrAdvicePending = errors.New("an advice request is already pending")

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the assistant conversation.
type Message struct {
	Role Role
	Text string
}

// Summary backs the dashboard view.
type Summary struct {
	Base    core.Currency
	Total   decimal.Decimal
	Monthly decimal.Decimal
	Count   int
	Recent  []core.Expense
}

// Charts backs the analytics view.
type Charts struct {
	Base       core.Currency
	Categories []core.CategoryAmount
	Trend      []core.MonthTotal
}

type Session struct {
	store   *store.Store
	advisor advice.Advisor
	shell   *nav.Shell
	gate    *semaphore.Weighted
	pending atomic.Bool
	logger  *slog.Logger

	mu         sync.RWMutex
	base       core.Currency
	transcript []Message
}

// New creates a session over an already loaded store. A nil advisor means
// advice is unavailable; an invalid base falls back to DefaultBase.
func New(st *store.Store, adv advice.Advisor, base core.Currency, logger *slog.Logger) *Session {
	if adv == nil {
		adv = advice.Unavailable{}
	}
	if !base.IsValid() {
		base = DefaultBase
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:      st,
		advisor:    adv,
		shell:      nav.NewShell(),
		gate:       semaphore.NewWeighted(1),
		logger:     logger.With("component", "session"),
		base:       base,
		transcript: []Message{{Role: RoleAssistant, Text: Greeting(base)}},
	}
}

// Greeting is the assistant's opening message.
func Greeting(base core.Currency) string {
	return "Hello! I can help you analyze your spending in " + string(base) + ". Ask me anything!"
}

func (s *Session) BaseCurrency() core.Currency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// SetBaseCurrency changes the display currency. It is not persisted.
func (s *Session) SetBaseCurrency(c core.Currency) error {
	if !c.IsValid() {
		return core.ErrUnknownCurrency
	}
	s.mu.Lock()
	s.base = c
	s.mu.Unlock()
	s.logger.Debug("Base currency changed", "currency", c)
	return nil
}

// View returns the current screen.
func (s *Session) View() nav.View { return s.shell.Current() }

// Navigate moves to v from the bottom bar.
func (s *Session) Navigate(v nav.View) nav.View {
	return s.shell.Dispatch(nav.Select(v))
}

// Dashboard computes the summary view at now.
func (s *Session) Dashboard(now time.Time) Summary {
	base := s.BaseCurrency()
	items := s.store.List()
	return Summary{
		Base:    base,
		Total:   core.Total(items, base),
		Monthly: core.MonthlyTotal(items, base, now),
		Count:   len(items),
		Recent:  core.Recent(items, core.RecentLimit),
	}
}

// Analytics computes the category breakdown and the trend ending at now.
func (s *Session) Analytics(now time.Time) Charts {
	base := s.BaseCurrency()
	items := s.store.List()
	return Charts{
		Base:       base,
		Categories: core.ByCategory(items, base),
		Trend:      core.Trend(items, base, now),
	}
}

// History returns every expense, most recent first.
func (s *Session) History() []core.Expense {
	return core.Recent(s.store.List(), 0)
}

// Expenses returns every expense in insertion order.
func (s *Session) Expenses() []core.Expense {
	return s.store.List()
}

// AddExpense stores the draft and returns to the dashboard. An invalid draft
// leaves the add form open.
func (s *Session) AddExpense(ctx context.Context, d core.Draft) (core.Expense, error) {
	e, err := s.store.Add(ctx, d)
	if err != nil {
		s.logger.DebugContext(ctx, "Draft rejected", "error", err)
		return core.Expense{}, err
	}
	s.shell.Dispatch(nav.AddCompleted())
	return e, nil
}

// DeleteExpense removes an expense by id. Unknown ids are ignored.
func (s *Session) DeleteExpense(ctx context.Context, id string) bool {
	return s.store.Delete(ctx, id)
}

// Ask sends a question to the advisor and records both sides in the
// transcript. Blank questions are ignored and return an empty answer. Only
// one question may be outstanding at a time.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil
	}
	if !s.gate.TryAcquire(1) {
		s.logger.InfoContext(ctx, "Advice request refused, one is pending")
		return "", ErrAdvicePending
	}
	s.pending.Store(true)
	defer func() {
		s.pending.Store(false)
		s.gate.Release(1)
	}()

	s.mu.Lock()
	s.transcript = append(s.transcript, Message{Role: RoleUser, Text: question})
	base := s.base
	s.mu.Unlock()

	answer := s.advisor.Advice(ctx, question, s.store.List(), base)

	s.mu.Lock()
	s.transcript = append(s.transcript, Message{Role: RoleAssistant, Text: answer})
	s.mu.Unlock()
	return answer, nil
}

// Pending reports whether a question is waiting for an answer.
func (s *Session) Pending() bool { return s.pending.Load() }

// Transcript returns a copy of the conversation.
func (s *Session) Transcript() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}
