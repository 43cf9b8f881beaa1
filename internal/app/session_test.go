package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"spendwise/internal/advice"
	"spendwise/internal/core"
	"spendwise/internal/kv/memory"
	"spendwise/internal/nav"
	"spendwise/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type stubAdvisor struct {
	mu      sync.Mutex
	answer  string
	calls   int
	lastQ   string
	lastN   int
	lastB   core.Currency
	started chan struct{}
	release chan struct{}
}

func (a *stubAdvisor) Advice(_ context.Context, q string, expenses []core.Expense, base core.Currency) string {
	a.mu.Lock()
	a.calls++
	a.lastQ, a.lastN, a.lastB = q, len(expenses), base
	a.mu.Unlock()
	if a.started != nil {
		a.started <- struct{}{}
	}
	if a.release != nil {
		<-a.release
	}
	return a.answer
}

type SessionSuite struct {
	suite.Suite
	ctx     context.Context
	advisor *stubAdvisor
	session *Session
	now     time.Time
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)
	s.advisor = &stubAdvisor{answer: "Cook at home."}

	tick := s.now
	st := store.New(memory.New(), store.WithClock(func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}))
	st.Load(s.ctx)
	s.session = New(st, s.advisor, core.USD, nil)
}

func (s *SessionSuite) add(amount string, cur core.Currency, cat core.Category, desc string, date core.Date) core.Expense {
	e, err := s.session.AddExpense(s.ctx, core.Draft{
		Amount:      decimal.RequireFromString(amount),
		Currency:    cur,
		Category:    cat,
		Description: desc,
		Date:        date,
	})
	s.Require().NoError(err)
	return e
}

func (s *SessionSuite) TestDefaults() {
	sess := New(store.New(memory.New()), nil, "", nil)
	s.Equal(DefaultBase, sess.BaseCurrency())
	s.Equal(nav.Dashboard, sess.View())

	tr := sess.Transcript()
	s.Require().Len(tr, 1)
	s.Equal(RoleAssistant, tr[0].Role)
	s.Equal("Hello! I can help you analyze your spending in EUR. Ask me anything!", tr[0].Text)

	answer, err := sess.Ask(s.ctx, "anything")
	s.NoError(err)
	s.Equal(advice.Unreachable, answer)
}

func (s *SessionSuite) TestSetBaseCurrency() {
	s.NoError(s.session.SetBaseCurrency(core.INR))
	s.Equal(core.INR, s.session.BaseCurrency())
	s.ErrorIs(s.session.SetBaseCurrency("GBP"), core.ErrUnknownCurrency)
	s.Equal(core.INR, s.session.BaseCurrency())
}

func (s *SessionSuite) TestAddReturnsToDashboard() {
	s.session.Navigate(nav.Add)
	s.Equal(nav.Add, s.session.View())

	s.add("10", core.USD, core.Food, "Lunch", core.NewDate(2025, 3, 1))
	s.Equal(nav.Dashboard, s.session.View())
}

func (s *SessionSuite) TestInvalidDraftKeepsAddOpen() {
	s.session.Navigate(nav.Add)
	_, err := s.session.AddExpense(s.ctx, core.Draft{
		Amount:   decimal.NewFromInt(5),
		Currency: core.USD,
		Category: core.Food,
		Date:     core.NewDate(2025, 3, 1),
	})
	s.ErrorIs(err, core.ErrInvalidDraft)
	s.Equal(nav.Add, s.session.View())
	s.Empty(s.session.Expenses())
}

func (s *SessionSuite) TestDashboard() {
	s.add("92", core.EUR, core.Food, "Groceries", core.NewDate(2025, 3, 2))
	s.add("50", core.USD, core.Travel, "Train", core.NewDate(2025, 2, 27))
	for i := 0; i < 5; i++ {
		s.add("1", core.USD, core.Other, "Snack", core.NewDate(2025, 3, 3))
	}

	sum := s.session.Dashboard(s.now)
	s.Equal(core.USD, sum.Base)
	s.True(sum.Total.Equal(decimal.NewFromInt(155)), "total %s", sum.Total)
	s.True(sum.Monthly.Equal(decimal.NewFromInt(105)), "monthly %s", sum.Monthly)
	s.Equal(7, sum.Count)
	s.Len(sum.Recent, core.RecentLimit)
	s.Equal("Snack", sum.Recent[0].Description)
}

func (s *SessionSuite) TestDashboardFollowsBase() {
	s.add("100", core.USD, core.Food, "Dinner", core.NewDate(2025, 3, 2))
	s.Require().NoError(s.session.SetBaseCurrency(core.NOK))
	sum := s.session.Dashboard(s.now)
	s.Equal(core.NOK, sum.Base)
	s.True(sum.Total.Equal(decimal.NewFromInt(1065)), "total %s", sum.Total)
}

func (s *SessionSuite) TestAnalytics() {
	s.add("10", core.USD, core.Health, "Pharmacy", core.NewDate(2025, 3, 2))
	s.add("20", core.USD, core.Food, "Market", core.NewDate(2025, 1, 10))

	charts := s.session.Analytics(s.now)
	s.Require().Len(charts.Categories, 2)
	s.Equal(core.Health, charts.Categories[0].Category)
	s.Require().Len(charts.Trend, core.TrendMonths)
	s.Equal(time.March, charts.Trend[5].Month)
	s.True(charts.Trend[5].Amount.Equal(decimal.NewFromInt(10)))
	s.True(charts.Trend[3].Amount.Equal(decimal.NewFromInt(20)))
}

func (s *SessionSuite) TestHistoryAndDelete() {
	first := s.add("1", core.USD, core.Food, "First", core.NewDate(2025, 3, 1))
	second := s.add("2", core.USD, core.Food, "Second", core.NewDate(2025, 3, 1))

	h := s.session.History()
	s.Require().Len(h, 2)
	s.Equal(second.ID, h[0].ID)

	s.True(s.session.DeleteExpense(s.ctx, first.ID))
	s.False(s.session.DeleteExpense(s.ctx, first.ID))
	s.Len(s.session.History(), 1)
}

func (s *SessionSuite) TestAskRecordsTranscript() {
	s.add("3", core.DKK, core.Food, "Coffee", core.NewDate(2025, 3, 1))
	answer, err := s.session.Ask(s.ctx, "  How can I save?  ")
	s.Require().NoError(err)
	s.Equal("Cook at home.", answer)
	s.Equal("How can I save?", s.advisor.lastQ)
	s.Equal(1, s.advisor.lastN)
	s.Equal(core.USD, s.advisor.lastB)

	tr := s.session.Transcript()
	s.Require().Len(tr, 3)
	s.Equal(Message{Role: RoleUser, Text: "How can I save?"}, tr[1])
	s.Equal(Message{Role: RoleAssistant, Text: "Cook at home."}, tr[2])
	s.False(s.session.Pending())
}

func (s *SessionSuite) TestAskIgnoresBlank() {
	answer, err := s.session.Ask(s.ctx, "   ")
	s.NoError(err)
	s.Empty(answer)
	s.Equal(0, s.advisor.calls)
	s.Len(s.session.Transcript(), 1)
}

func (s *SessionSuite) TestAskAllowsOneOutstandingRequest() {
	s.advisor.started = make(chan struct{})
	s.advisor.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := s.session.Ask(s.ctx, "first")
		done <- err
	}()
	<-s.advisor.started
	s.True(s.session.Pending())

	_, err := s.session.Ask(s.ctx, "second")
	s.ErrorIs(err, ErrAdvicePending)

	close(s.advisor.release)
	s.NoError(<-done)
	s.False(s.session.Pending())

	s.advisor.mu.Lock()
	s.Equal(1, s.advisor.calls)
	s.advisor.mu.Unlock()

	tr := s.session.Transcript()
	s.Require().Len(tr, 3)
	s.Equal("first", tr[1].Text)
}
