package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"spendwise/internal/app"
	"spendwise/internal/cache"
	"spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/middleware/security"
	"spendwise/internal/middleware/trace"
	appweb "spendwise/web"
)

// Options tunes a Server. The zero value is usable.
type Options struct {
	Logger *log.Logger
	// Ready backs /readyz. Nil means always ready.
	Ready func(ctx context.Context) error
	// RateLimit applies per client address; zero fields take the defaults.
	RateLimit ratelimit.Config
	// TrustedProxies are extra CIDRs whose forwarding headers are believed.
	TrustedProxies []string
	// Now is the clock used for month-relative views.
	Now func() time.Time
}

type Server struct {
	http.Server
	session   *app.Session
	templates *template.Template
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	ready     func(ctx context.Context) error
	logger    *log.Logger
	now       func() time.Time

	// rendered memoizes assistant answers converted to HTML.
	rendered *cache.LRU[template.HTML]
	janitor  *cache.Janitor

	shutdownOnce sync.Once
}

// NewServer configures routes, middlewares and templates, returning a
// ready-to-run server bound to session.
func NewServer(addr string, session *app.Session, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RateLimit.RequestsPerMinute == 0 && len(opts.RateLimit.Methods) == 0 {
		opts.RateLimit = ratelimit.DefaultConfig()
	}

	clientIP, err := security.NewClientIP(opts.TrustedProxies...)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		session:   session,
		templates: t,
		limiter:   ratelimit.NewLimiter(opts.RateLimit),
		tracer:    trace.NewMiddleware(clientIP.Extract),
		ready:     opts.Ready,
		logger:    opts.Logger.WithComponent(log.ComponentHTTP),
		now:       opts.Now,
		rendered:  cache.NewLRU[template.HTML](256, time.Hour),
	}

	mux := http.NewServeMux()

	// Static assets (served from embedded FS)
	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		s.limiter.Stop()
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssets(3600)(http.StripPrefix("/static/", http.FileServer(http.FS(sub)))))

	s.janitor = cache.NewJanitor(s.logger.Slog())
	s.janitor.Register(s.rendered)
	s.janitor.Start(10 * time.Minute)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /navigate", s.handleNavigate)
	mux.HandleFunc("POST /currency", s.handleCurrency)
	mux.HandleFunc("POST /expenses", s.handleCreateExpense)
	mux.HandleFunc("POST /expenses/{id}/delete", s.handleDeleteExpense)
	mux.HandleFunc("POST /assistant", s.handleAssistant)

	mux.HandleFunc("GET /api/expenses", s.handleAPIExpenses)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleAPIDeleteExpense)
	mux.HandleFunc("GET /api/summary", s.handleAPISummary)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(clientIP.Extract)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = s.tracer.Handler(handler)
	handler = log.Middleware(s.logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// Shutdown stops the background sweepers and gracefully shuts down the
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.janitor.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics returns the request counters of the tracing middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.Metrics()
}
