// Package cache holds small in-process caches for derived values.
package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Cache is a keyed store of derived values.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Len() int
}

// Sweeper drops expired entries and reports how many went.
type Sweeper interface {
	Sweep() int
}

// Janitor sweeps registered caches on an interval until stopped.
type Janitor struct {
	logger  *slog.Logger
	caches  []Sweeper
	stop    chan struct{}
	done    chan struct{}
	started bool
	once    sync.Once
}

func NewJanitor(logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{
		logger: logger,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Register adds a cache. Call before Start.
func (j *Janitor) Register(c Sweeper) {
	j.caches = append(j.caches, c)
}

// Start launches the sweep loop.
func (j *Janitor) Start(interval time.Duration) {
	j.started = true
	go j.run(interval)
}

func (j *Janitor) run(interval time.Duration) {
	defer close(j.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := 0
			for _, c := range j.caches {
				removed += c.Sweep()
			}
			if removed > 0 {
				j.logger.Debug("Swept expired cache entries", "removed", removed)
			}
		case <-j.stop:
			return
		}
	}
}

// Stop ends the sweep loop and waits for it. Safe to call more than once.
func (j *Janitor) Stop() {
	j.once.Do(func() {
		close(j.stop)
		if j.started {
			<-j.done
		}
	})
}
