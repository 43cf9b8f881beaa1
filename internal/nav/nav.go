// Package nav models the five screens of the application as a closed set of
// views and the transitions between them.
package nav

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// View is one of the application screens.
type View string

const (
	Dashboard View = "dashboard"
	Analytics View = "analytics"
	Add       View = "add"
	History   View = "history"
	Assistant View = "assistant"
)

// Initial is the view shown when a session starts.
const Initial = Dashboard

var ErrUnknownView = errors.New("unknown view")

// Views returns every view in bottom-bar order.
func Views() []View {
	return []View{Dashboard, Analytics, Add, History, Assistant}
}

// Parse maps a view name to a View.
func Parse(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
	return v, nil
}

func (v View) IsValid() bool {
	switch v {
	case Dashboard, Analytics, Add, History, Assistant:
		return true
	default:
		return false
	}
}

// Label is the bottom-bar caption.
func (v View) Label() string {
	switch v {
	case Dashboard:
		return "Home"
	case Analytics:
		return "Charts"
	case Add:
		return "Add"
	case History:
		return "History"
	case Assistant:
		return "AI Help"
	default:
		return ""
	}
}

func (v View) String() string { return string(v) }

// Event drives a transition.
type Event struct {
	kind   eventKind
	target View
}

type eventKind int

const (
	selectEvent eventKind = iota + 1
	addCompletedEvent
)

// Select is emitted when a bottom-bar item is chosen.
func Select(v View) Event { return Event{kind: selectEvent, target: v} }

// AddCompleted is emitted after an expense was saved from the add form.
func AddCompleted() Event { return Event{kind: addCompletedEvent} }

// Transition returns the view that follows current on e. There are no guards:
// selecting any valid view always goes there. Invalid input leaves current
// unchanged.
func Transition(current View, e Event) View {
	switch e.kind {
	case selectEvent:
		if e.target.IsValid() {
			return e.target
		}
	case addCompletedEvent:
		return Dashboard
	}
	return current
}

// Shell holds the current view of a session.
type Shell struct {
	mu      sync.RWMutex
	current View
}

func NewShell() *Shell {
	return &Shell{current: Initial}
}

// Current returns the view being displayed.
func (s *Shell) Current() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Dispatch applies e and returns the resulting view.
func (s *Shell) Dispatch(e Event) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Transition(s.current, e)
	return s.current
}
