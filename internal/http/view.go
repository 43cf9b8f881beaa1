package http

import (
	"html/template"
	"time"

	"spendwise/internal/app"
	"spendwise/internal/core"
	"spendwise/internal/nav"
)

type navItem struct {
	View   nav.View
	Label  string
	Active bool
}

type categoryBar struct {
	Category core.Category
	Amount   string
	Percent  int
}

type trendBar struct {
	Label   string
	Amount  string
	Percent int
}

type message struct {
	User bool
	HTML template.HTML
}

// pageData is everything the layout template can show. Only the fields of
// the current view are filled.
type pageData struct {
	View       nav.View
	Nav        []navItem
	Base       core.Currency
	Currencies []core.Currency
	Categories []core.Category

	Summary   app.Summary
	Breakdown []categoryBar
	Trend     []trendBar
	History   []core.Expense
	Form      ExpenseForm
	Messages  []message
	Pending   bool
}

var templateFuncs = template.FuncMap{
	"money":  core.Format,
	"symbol": core.Symbol,
	// spent shows an expense in its own currency, as entered.
	"spent": func(e core.Expense) string {
		return core.Symbol(e.Currency) + e.Amount.String()
	},
}

func navItems(current nav.View) []navItem {
	views := nav.Views()
	items := make([]navItem, len(views))
	for i, v := range views {
		items[i] = navItem{View: v, Label: v.Label(), Active: v == current}
	}
	return items
}

// buildPage fills the data for view v at now. form is only used by the add
// view; a nil form means the defaults.
func (s *Server) buildPage(v nav.View, now time.Time, form *ExpenseForm) pageData {
	base := s.session.BaseCurrency()
	data := pageData{
		View:       v,
		Nav:        navItems(v),
		Base:       base,
		Currencies: core.Currencies(),
		Categories: core.Categories(),
	}

	switch v {
	case nav.Dashboard:
		data.Summary = s.session.Dashboard(now)
	case nav.Analytics:
		charts := s.session.Analytics(now)
		max := categoryMax(charts.Categories)
		for _, c := range charts.Categories {
			data.Breakdown = append(data.Breakdown, categoryBar{
				Category: c.Category,
				Amount:   core.Format(c.Amount, charts.Base),
				Percent:  percentOf(c.Amount, max),
			})
		}
		tmax := trendMax(charts.Trend)
		for _, m := range charts.Trend {
			data.Trend = append(data.Trend, trendBar{
				Label:   m.Label(),
				Amount:  core.Format(m.Amount, charts.Base),
				Percent: percentOf(m.Amount, tmax),
			})
		}
	case nav.Add:
		if form != nil {
			data.Form = *form
		} else {
			data.Form = NewExpenseForm(now)
		}
	case nav.History:
		data.History = s.session.History()
	case nav.Assistant:
		for _, m := range s.session.Transcript() {
			msg := message{User: m.Role == app.RoleUser}
			if msg.User {
				msg.HTML = renderMarkdown(m.Text)
			} else {
				msg.HTML = s.answerHTML(m.Text)
			}
			data.Messages = append(data.Messages, msg)
		}
		data.Pending = s.session.Pending()
	}
	return data
}
