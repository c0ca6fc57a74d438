package responder

import (
	"testing"

	"github.com/dshills/termkeys/internal/input/key"
	"github.com/dshills/termkeys/internal/input/keymap"
)

// fakeResponder is a configurable responder for chain tests.
type fakeResponder struct {
	name      string
	shortcuts []keymap.Shortcut
	refuse    map[string]bool
	next      Responder
	performed []string
}

func (f *fakeResponder) KeyCommands() []keymap.Shortcut { return f.shortcuts }

func (f *fakeResponder) CanPerform(action string, _ any) bool { return !f.refuse[action] }

func (f *fakeResponder) Perform(action string, _ keymap.Shortcut) {
	f.performed = append(f.performed, action)
}

func (f *fakeResponder) Next() Responder {
	if f.next == nil {
		return nil
	}
	return f.next
}

func sc(spec, action string) keymap.Shortcut {
	return keymap.MustShortcut(spec, action)
}

func TestResolveOutermostWins(t *testing.T) {
	outer := &fakeResponder{name: "outer", shortcuts: []keymap.Shortcut{sc("Cmd+t", "outer.tab")}}
	inner := &fakeResponder{name: "inner", shortcuts: []keymap.Shortcut{sc("Cmd+t", "inner.tab")}, next: outer}

	m, ok := NewResolver().Resolve(inner, "t", key.ModCmd, nil)
	if !ok {
		t.Fatal("Resolve() found nothing")
	}
	if m.Shortcut.Action != "outer.tab" {
		t.Errorf("Action = %q, want outer.tab", m.Shortcut.Action)
	}
	if m.Responder != outer {
		t.Errorf("Responder = %v, want outer", m.Responder)
	}
}

func TestResolveCapabilityRefusal(t *testing.T) {
	outer := &fakeResponder{
		shortcuts: []keymap.Shortcut{sc("Cmd+t", "outer.tab")},
		refuse:    map[string]bool{"outer.tab": true},
	}
	inner := &fakeResponder{shortcuts: []keymap.Shortcut{sc("Cmd+t", "inner.tab")}, next: outer}

	m, ok := NewResolver().Resolve(inner, "t", key.ModCmd, nil)
	if !ok {
		t.Fatal("Resolve() found nothing")
	}
	if m.Shortcut.Action != "inner.tab" {
		t.Errorf("Action = %q, want inner.tab", m.Shortcut.Action)
	}
}

func TestResolveFirstMatchPerResponder(t *testing.T) {
	r := &fakeResponder{shortcuts: []keymap.Shortcut{
		sc("Cmd+k", "first"),
		sc("Cmd+k", "second"),
	}}

	m, ok := NewResolver().Resolve(r, "k", key.ModCmd, nil)
	if !ok || m.Shortcut.Action != "first" {
		t.Errorf("Resolve() = %v, %v; want first", m.Shortcut.Action, ok)
	}
}

func TestResolveFirstMatchRefusedNotRetried(t *testing.T) {
	r := &fakeResponder{
		shortcuts: []keymap.Shortcut{sc("Cmd+k", "first"), sc("Cmd+k", "second")},
		refuse:    map[string]bool{"first": true},
	}

	if m, ok := NewResolver().Resolve(r, "k", key.ModCmd, nil); ok {
		t.Errorf("Resolve() = %q, want no match", m.Shortcut.Action)
	}
}

func TestResolveCasingTieBreak(t *testing.T) {
	r := &fakeResponder{shortcuts: []keymap.Shortcut{
		sc("Cmd+a", "plain"),
		sc("Cmd+Shift+a", "shifted"),
	}}

	tests := []struct {
		name string
		text string
		mods key.Modifier
		want string
	}{
		{"lowercase", "a", key.ModCmd, "plain"},
		{"uppercase adds shift", "A", key.ModCmd, "shifted"},
		{"explicit shift", "a", key.ModCmd | key.ModShift, "shifted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := NewResolver().Resolve(r, tt.text, tt.mods, nil)
			if !ok {
				t.Fatal("Resolve() found nothing")
			}
			if m.Shortcut.Action != tt.want {
				t.Errorf("Action = %q, want %q", m.Shortcut.Action, tt.want)
			}
		})
	}
}

func TestResolveExactModifiers(t *testing.T) {
	r := &fakeResponder{shortcuts: []keymap.Shortcut{sc("Cmd+t", "tab")}}

	if _, ok := NewResolver().Resolve(r, "t", key.ModCmd|key.ModAlt, nil); ok {
		t.Error("Cmd+Alt+t matched a Cmd+t shortcut")
	}
	if _, ok := NewResolver().Resolve(r, "T", key.ModCmd, nil); ok {
		t.Error("Cmd+T matched a Cmd+t shortcut")
	}
}

func TestResolveNilOrigin(t *testing.T) {
	if _, ok := NewResolver().Resolve(nil, "t", key.ModCmd, nil); ok {
		t.Error("Resolve(nil) found a match")
	}
}

func TestResolveCycleTerminates(t *testing.T) {
	a := &fakeResponder{shortcuts: []keymap.Shortcut{sc("Cmd+x", "a")}}
	b := &fakeResponder{shortcuts: []keymap.Shortcut{sc("Cmd+x", "b")}, next: a}
	a.next = b

	m, ok := NewResolver(WithMaxDepth(5)).Resolve(a, "x", key.ModCmd, nil)
	if !ok {
		t.Fatal("Resolve() found nothing")
	}
	// Visits a, b, a, b, a.
	if m.Shortcut.Action != "a" {
		t.Errorf("Action = %q, want a", m.Shortcut.Action)
	}
}

func TestChain(t *testing.T) {
	window := &fakeResponder{shortcuts: []keymap.Shortcut{sc("Cmd+w", "window.close")}}
	tab := &fakeResponder{shortcuts: []keymap.Shortcut{sc("Cmd+w", "tab.close")}}
	stray := &fakeResponder{shortcuts: []keymap.Shortcut{sc("Cmd+w", "stray")}}
	tab.next = stray

	origin := Chain(tab, nil, window)

	var count int
	Walk(origin, DefaultMaxDepth, func(Responder) bool {
		count++
		return true
	})
	if count != 2 {
		t.Errorf("chain length = %d, want 2", count)
	}

	m, ok := NewResolver().Resolve(origin, "w", key.ModCmd, nil)
	if !ok {
		t.Fatal("Resolve() found nothing")
	}
	if m.Responder != window {
		t.Errorf("Responder = %v, want window", m.Responder)
	}

	m.Perform()
	if len(window.performed) != 1 || window.performed[0] != "window.close" {
		t.Errorf("performed = %v", window.performed)
	}
}

func TestChainEmpty(t *testing.T) {
	if Chain() != nil {
		t.Error("Chain() should be nil")
	}
	if Chain(nil, nil) != nil {
		t.Error("Chain(nil, nil) should be nil")
	}
}

func TestWalkStops(t *testing.T) {
	c := &fakeResponder{}
	b := &fakeResponder{next: c}
	a := &fakeResponder{next: b}

	var seen []Responder
	Walk(a, DefaultMaxDepth, func(r Responder) bool {
		seen = append(seen, r)
		return r != b
	})
	if len(seen) != 2 {
		t.Errorf("visited %d responders, want 2", len(seen))
	}
}
