package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"spendwise/internal/app"
	"spendwise/internal/core"
	"spendwise/internal/log"
	"spendwise/internal/nav"
)

// handleHealth performs basic liveness check
func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().BodyString("ok").Write(w)
}

// handleReady checks the templates and the storage backend.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"templates": "ok", "storage": "ok"}
	status := http.StatusOK
	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = http.StatusServiceUnavailable
	}
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err)
			checks["storage"] = "failed: " + err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	NewResponse().Status(status).BodyJSON(map[string]any{"status": state, "checks": checks}).Write(w)
}

// handleIndex renders the session's current view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.buildPage(s.session.View(), s.now(), nil))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	v, err := nav.Parse(r.Form.Get("view"))
	if err != nil {
		BadRequestError("Unknown view").Write(w)
		return
	}
	current := s.session.Navigate(v)
	log.FromContext(r.Context()).DebugContext(r.Context(), "Navigated",
		log.FieldOperation, log.OpNavigate, log.FieldView, current)
	NewResponse().Redirect("/").Write(w)
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	cur, err := core.ParseCurrency(r.Form.Get("currency"))
	if err == nil {
		err = s.session.SetBaseCurrency(cur)
	}
	if err != nil {
		BadRequestError("Unknown currency").Write(w)
		return
	}
	NewResponse().Redirect("/").Write(w)
}

// handleCreateExpense adds an expense from the add form or from JSON. An
// invalid form is shown again with what was entered.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse body error", log.FieldError, err)
		status, msg := http.StatusBadRequest, "invalid request body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status, msg = http.StatusRequestEntityTooLarge, "request body too large"
		}
		if wantsJSON(r) {
			JSONError(status, msg).Write(w)
			return
		}
		ErrorResponse(status, msg).Write(w)
		return
	}
	asJSON := p.IsJSON() || wantsJSON(r)

	form := p.ExpenseForm()
	d, err := form.Draft()
	if err == nil {
		var e core.Expense
		if e, err = s.session.AddExpense(ctx, d); err == nil {
			if asJSON {
				writeExpenseJSON(w, http.StatusCreated, e)
				return
			}
			NewResponse().Redirect("/").Write(w)
			return
		}
	}

	logger.DebugContext(ctx, "Expense rejected", log.FieldError, err)
	if asJSON {
		JSONError(http.StatusUnprocessableEntity, err.Error()).Write(w)
		return
	}
	s.session.Navigate(nav.Add)
	s.render(w, r, http.StatusUnprocessableEntity, s.buildPage(nav.Add, s.now(), &form))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.session.DeleteExpense(r.Context(), r.PathValue("id"))
	NewResponse().Redirect("/").Write(w)
}

// handleAssistant asks the advisor and shows the conversation. Only one
// question may be in flight.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	asJSON := p.IsJSON() || wantsJSON(r)

	answer, err := s.session.Ask(ctx, p.Get("question"))
	if errors.Is(err, app.ErrAdvicePending) {
		if asJSON {
			JSONError(http.StatusConflict, err.Error()).Write(w)
			return
		}
		ConflictError("Still thinking about the previous question").Write(w)
		return
	}
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Ask failed", log.FieldOperation, log.OpAsk, log.FieldError, err)
		InternalServerError("Could not reach the assistant").Write(w)
		return
	}

	if asJSON {
		NewResponse().BodyJSON(map[string]string{"answer": answer}).Write(w)
		return
	}
	s.session.Navigate(nav.Assistant)
	NewResponse().Redirect("/").Write(w)
}

// render executes the layout into a buffer so a template error never sends
// a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	ctx := r.Context()
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Template execution failed",
			log.FieldOperation, log.OpRender, log.FieldView, data.View, log.FieldError, err)
		InternalServerError("Failed to render page").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.String()).Write(w)
}
