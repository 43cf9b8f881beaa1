//go:build e2e

// Package e2e drives the web UI in a headless browser. Run with
//
//	go test -tags e2e ./e2e/...
//
// after installing the browsers with the playwright CLI.
package e2e

import (
	"context"
	"net/http/httptest"
	"testing"

	"spendwise/internal/app"
	"spendwise/internal/core"
	apphttp "spendwise/internal/http"
	"spendwise/internal/kv/memory"
	"spendwise/internal/log"
	"spendwise/internal/store"

	"github.com/stretchr/testify/require"
)

type cannedAdvisor struct{ answer string }

func (a cannedAdvisor) Advice(context.Context, string, []core.Expense, core.Currency) string {
	return a.answer
}

// startApp serves a fresh session over a memory store and returns its URL.
func startApp(t *testing.T) string {
	t.Helper()
	logger := log.Discard()
	st := store.New(memory.New(), store.WithLogger(logger.Slog()))
	st.Load(context.Background())
	session := app.New(st, cannedAdvisor{answer: "**Tip**: cook at home more often"}, core.EUR, logger.Slog())

	srv, err := apphttp.NewServer(":0", session, apphttp.Options{Logger: logger})
	require.NoError(t, err, "could not build server")

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts.URL
}
