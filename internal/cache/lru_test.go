package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	c := NewLRU[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("old", "x")
	now = now.Add(30 * time.Second)
	c.Set("new", "y")
	now = now.Add(45 * time.Second)

	if _, ok := c.Get("old"); ok {
		t.Error("old should have expired")
	}
	if got := c.Sweep(); got != 0 {
		t.Errorf("Sweep() = %d, want 0 after Get removed the only stale entry", got)
	}
	now = now.Add(time.Minute)
	if got := c.Sweep(); got != 1 {
		t.Errorf("Sweep() = %d, want 1", got)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestLRUOverwriteAndDelete(t *testing.T) {
	c := NewLRU[string](2, 0)
	c.Set("k", "v1")
	c.Set("k", "v2")
	if v, _ := c.Get("k"); v != "v2" {
		t.Errorf("Get(k) = %q, want v2", v)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("k should be gone")
	}
}

type countingSweeper struct{ calls chan struct{} }

func (s countingSweeper) Sweep() int {
	select {
	case s.calls <- struct{}{}:
	default:
	}
	return 1
}

func TestJanitorSweepsUntilStopped(t *testing.T) {
	s := countingSweeper{calls: make(chan struct{}, 1)}
	j := NewJanitor(nil)
	j.Register(s)
	j.Start(5 * time.Millisecond)

	select {
	case <-s.calls:
	case <-time.After(time.Second):
		t.Fatal("janitor never swept")
	}
	j.Stop()
	j.Stop()
}

func TestJanitorStopWithoutStart(t *testing.T) {
	NewJanitor(nil).Stop()
}
