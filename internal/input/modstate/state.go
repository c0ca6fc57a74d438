// Package modstate tracks which modifiers are active for the next keystroke.
//
// Two sources feed the state. Latched modifiers come from on-screen toggles
// and are one-shot: they stay on until a keystroke consumes them. Held
// modifiers mirror the physical keys the keyboard surface reports as down.
// The effective set is the union of both.
//
// A State is owned by the event loop that delivers keystrokes and is not safe
// for concurrent use.
package modstate

import "github.com/dshills/termkeys/internal/input/key"

// Observer is notified with the effective modifiers after every change.
type Observer func(mods key.Modifier)

// State holds latched and physically held modifiers.
type State struct {
	latched   key.Modifier
	held      key.Modifier
	observers []Observer
}

// New creates an empty modifier state.
func New() *State {
	return &State{}
}

// Modifiers returns the effective modifier set.
func (s *State) Modifiers() key.Modifier {
	return s.latched | s.held
}

// Has returns true if every bit of mod is effective.
func (s *State) Has(mod key.Modifier) bool {
	return s.Modifiers().Has(mod)
}

// Latched returns the one-shot modifiers.
func (s *State) Latched() key.Modifier {
	return s.latched
}

// Held returns the physically held modifiers.
func (s *State) Held() key.Modifier {
	return s.held
}

// Latch turns on one-shot modifiers.
func (s *State) Latch(mod key.Modifier) {
	s.set(s.latched.With(mod), s.held)
}

// Unlatch turns off one-shot modifiers.
func (s *State) Unlatch(mod key.Modifier) {
	s.set(s.latched.Without(mod), s.held)
}

// Toggle flips one-shot modifiers, the way an on-screen modifier key does.
func (s *State) Toggle(mod key.Modifier) {
	s.set(s.latched^mod, s.held)
}

// Press records physical modifier keys going down.
func (s *State) Press(mod key.Modifier) {
	s.set(s.latched, s.held.With(mod))
}

// Release records physical modifier keys going up.
func (s *State) Release(mod key.Modifier) {
	s.set(s.latched, s.held.Without(mod))
}

// SetHeld replaces the physically held set with a hardware snapshot.
func (s *State) SetHeld(mod key.Modifier) {
	s.set(s.latched, mod)
}

// CommandLatched reports whether Command is latched on.
func (s *State) CommandLatched() bool {
	return s.latched.HasCmd()
}

// SetCommandLatched latches or unlatches Command.
func (s *State) SetCommandLatched(on bool) {
	if on {
		s.Latch(key.ModCmd)
		return
	}
	s.Unlatch(key.ModCmd)
}

// ClearOneShot removes every modifier that is not physically held.
func (s *State) ClearOneShot() {
	s.set(key.ModNone, s.held)
}

// Reset clears both latched and held modifiers.
func (s *State) Reset() {
	s.set(key.ModNone, key.ModNone)
}

// OnChange registers an observer for effective modifier changes.
func (s *State) OnChange(fn Observer) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

func (s *State) set(latched, held key.Modifier) {
	before := s.Modifiers()
	s.latched, s.held = latched, held
	after := s.Modifiers()
	if before == after {
		return
	}
	for _, fn := range s.observers {
		fn(after)
	}
}
