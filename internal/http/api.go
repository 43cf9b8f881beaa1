package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/log"
	"spendwise/internal/store"

	"github.com/shopspring/decimal"
)

type categoryJSON struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

type monthJSON struct {
	Year   int         `json:"year"`
	Month  string      `json:"month"`
	Amount json.Number `json:"amount"`
}

type summaryJSON struct {
	Base       string            `json:"base"`
	Total      json.Number       `json:"total"`
	Formatted  string            `json:"formatted"`
	Monthly    json.Number       `json:"monthly"`
	Count      int               `json:"count"`
	Categories []categoryJSON    `json:"categories"`
	Trend      []monthJSON       `json:"trend"`
	Recent     []json.RawMessage `json:"recent"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.Round(2).String())
}

func writeExpenseJSON(w http.ResponseWriter, status int, e core.Expense) {
	data, err := store.EncodeExpense(e)
	if err != nil {
		JSONError(http.StatusInternalServerError, "failed to encode expense").Write(w)
		return
	}
	NewResponse().Status(status).Header("Content-Type", "application/json").Body(data).Write(w)
}

// handleAPIExpenses lists every expense in the persisted layout.
func (s *Server) handleAPIExpenses(w http.ResponseWriter, r *http.Request) {
	data, err := store.Encode(s.session.Expenses())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Encode expenses failed", log.FieldError, err)
		JSONError(http.StatusInternalServerError, "failed to encode expenses").Write(w)
		return
	}
	NewResponse().Header("Content-Type", "application/json").Body(data).Write(w)
}

func (s *Server) handleAPIDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if !s.session.DeleteExpense(r.Context(), r.PathValue("id")) {
		JSONError(http.StatusNotFound, "expense not found").Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// handleAPISummary aggregates in ?base=, defaulting to the session's base
// currency. The session is not changed.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	base := s.session.BaseCurrency()
	if q := strings.TrimSpace(r.URL.Query().Get("base")); q != "" {
		cur, err := core.ParseCurrency(q)
		if err != nil {
			JSONError(http.StatusBadRequest, err.Error()).Write(w)
			return
		}
		base = cur
	}

	now := s.now()
	items := s.session.Expenses()
	total := core.Total(items, base)
	out := summaryJSON{
		Base:       string(base),
		Total:      number(total),
		Formatted:  core.Format(total, base),
		Monthly:    number(core.MonthlyTotal(items, base, now)),
		Count:      len(items),
		Categories: []categoryJSON{},
		Trend:      []monthJSON{},
		Recent:     []json.RawMessage{},
	}
	for _, c := range core.ByCategory(items, base) {
		out.Categories = append(out.Categories, categoryJSON{Category: string(c.Category), Amount: number(c.Amount)})
	}
	for _, m := range core.Trend(items, base, now) {
		out.Trend = append(out.Trend, monthJSON{Year: m.Year, Month: m.Label(), Amount: number(m.Amount)})
	}
	for _, e := range core.Recent(items, core.RecentLimit) {
		raw, err := store.EncodeExpense(e)
		if err != nil {
			continue
		}
		out.Recent = append(out.Recent, raw)
	}
	NewResponse().BodyJSON(out).Write(w)
}
