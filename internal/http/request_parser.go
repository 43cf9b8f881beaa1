// Package http serves the spendwise web interface and its JSON API.
//
// This file implements utilities for parsing and validating request data.
// The add-expense endpoint accepts both form posts from the page and JSON
// from API clients; both go through the same parser.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spendwise/internal/core"
)

// maxBodyBytes bounds request bodies read by the parser.
const maxBodyBytes = 64 << 10

// ExpenseForm holds the raw fields of the add form, as entered. It is
// re-rendered unchanged when the draft is rejected.
type ExpenseForm struct {
	Amount      string
	Currency    string
	Category    string
	Description string
	Date        string
}

// NewExpenseForm returns the add form defaults: USD, Other, dated today.
func NewExpenseForm(now time.Time) ExpenseForm {
	return ExpenseForm{
		Currency: string(core.USD),
		Category: string(core.Other),
		Date:     core.DateOf(now).String(),
	}
}

// Draft converts the form into a draft. Any missing or malformed field is an
// error wrapping core.ErrInvalidDraft.
func (f ExpenseForm) Draft() (core.Draft, error) {
	var errs []error

	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		errs = append(errs, err)
	}
	cur, err := core.ParseCurrency(f.Currency)
	if err != nil {
		errs = append(errs, err)
	}
	cat, err := core.ParseCategory(f.Category)
	if err != nil {
		errs = append(errs, err)
	}
	date, err := core.ParseDate(f.Date)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return core.Draft{}, fmt.Errorf("%w: %w", core.ErrInvalidDraft, errors.Join(errs...))
	}

	d := core.Draft{
		Amount:      amount,
		Currency:    cur,
		Category:    cat,
		Description: f.Description,
		Date:        date,
	}
	if err := d.Validate(); err != nil {
		return core.Draft{}, fmt.Errorf("%w: %w", core.ErrInvalidDraft, err)
	}
	return d, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing. A body over
// maxBodyBytes fails with *http.MaxBytesError instead of being cut short.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	trimmed := bytes.TrimSpace(p.body)
	if strings.HasPrefix(p.contentType, "application/json") || (len(trimmed) > 0 && trimmed[0] == '{') {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// ExpenseForm collects the add-expense fields.
func (p *RequestBodyParser) ExpenseForm() ExpenseForm {
	return ExpenseForm{
		Amount:      p.Get("amount"),
		Currency:    strings.ToUpper(p.Get("currency")),
		Category:    p.Get("category"),
		Description: p.Get("description"),
		Date:        p.Get("date"),
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// wantsJSON reports whether the client asked for a JSON answer.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
