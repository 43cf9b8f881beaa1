// Package ratelimit limits state-changing requests per client address with
// a fixed one-minute window.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

const window = time.Minute

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
	// Methods lists the limited HTTP methods. Empty limits every method.
	Methods []string
}

// DefaultConfig limits POST requests to 60 per minute.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
		Methods:           []string{http.MethodPost},
	}
}

type client struct {
	windowStart time.Time
	lastSeen    time.Time
	requests    int
}

// Limiter provides rate limiting functionality
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	methods map[string]bool
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter starts a limiter and its cleanup loop. Call Stop when done.
func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = def.CleanupInterval
	}
	l := &Limiter{
		clients: make(map[string]*client),
		limit:   config.RequestsPerMinute,
		methods: make(map[string]bool),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, m := range config.Methods {
		l.methods[m] = true
	}
	go l.cleanupLoop(config.CleanupInterval)
	return l
}

// Allow records a request from key and reports whether it is within limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok || now.Sub(c.windowStart) >= window {
		l.clients[key] = &client{windowStart: now, lastSeen: now, requests: 1}
		return true
	}
	c.requests++
	c.lastSeen = now
	return c.requests <= l.limit
}

// Retry returns how long key has to wait before the window resets.
func (l *Limiter) Retry(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[key]
	if !ok {
		return 0
	}
	if d := window - l.now().Sub(c.windowStart); d > 0 {
		return d
	}
	return 0
}

func (l *Limiter) limited(method string) bool {
	return len(l.methods) == 0 || l.methods[method]
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup forgets clients idle for more than ten windows.
func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-10 * window)
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// ActiveClients returns the number of currently tracked clients
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Middleware rejects over-limit requests with 429. Methods outside the
// configured set pass through untouched.
func (l *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.limited(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			ip := extractIP(r)
			if !l.Allow(ip) {
				secs := int(l.Retry(ip).Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
