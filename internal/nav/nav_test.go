package nav

import (
	"errors"
	"sync"
	"testing"
)

func TestTransitionSelectAlwaysGoesToTarget(t *testing.T) {
	for _, from := range Views() {
		for _, to := range Views() {
			if got := Transition(from, Select(to)); got != to {
				t.Fatalf("Transition(%s, Select(%s)) = %s", from, to, got)
			}
		}
	}
}

func TestTransitionAddCompleted(t *testing.T) {
	for _, from := range Views() {
		if got := Transition(from, AddCompleted()); got != Dashboard {
			t.Fatalf("Transition(%s, AddCompleted) = %s, want dashboard", from, got)
		}
	}
}

func TestTransitionIgnoresInvalidEvents(t *testing.T) {
	if got := Transition(History, Select("settings")); got != History {
		t.Fatalf("invalid select moved to %s", got)
	}
	if got := Transition(Add, Event{}); got != Add {
		t.Fatalf("zero event moved to %s", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want View
	}{
		{"dashboard", Dashboard},
		{" Analytics ", Analytics},
		{"ADD", Add},
		{"history", History},
		{"assistant", Assistant},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("Parse(%q) = %s, %v", tt.in, got, err)
		}
	}
	if _, err := Parse("home"); !errors.Is(err, ErrUnknownView) {
		t.Fatalf("expected ErrUnknownView, got %v", err)
	}
}

func TestLabels(t *testing.T) {
	want := map[View]string{
		Dashboard: "Home",
		Analytics: "Charts",
		Add:       "Add",
		History:   "History",
		Assistant: "AI Help",
	}
	for v, label := range want {
		if v.Label() != label {
			t.Errorf("%s label = %q, want %q", v, v.Label(), label)
		}
	}
}

func TestShell(t *testing.T) {
	s := NewShell()
	if s.Current() != Dashboard {
		t.Fatalf("initial view = %s", s.Current())
	}
	s.Dispatch(Select(Add))
	if s.Current() != Add {
		t.Fatalf("after select = %s", s.Current())
	}
	if got := s.Dispatch(AddCompleted()); got != Dashboard {
		t.Fatalf("after add completed = %s", got)
	}
}

func TestShellConcurrentDispatch(t *testing.T) {
	s := NewShell()
	var wg sync.WaitGroup
	for _, v := range Views() {
		wg.Add(1)
		go func(v View) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Dispatch(Select(v))
				_ = s.Current()
			}
		}(v)
	}
	wg.Wait()
	if !s.Current().IsValid() {
		t.Fatalf("shell ended in invalid view %q", s.Current())
	}
}
