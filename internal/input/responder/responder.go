package responder

import (
	"github.com/dshills/termkeys/internal/input/keymap"
)

// Responder is one link of a shortcut chain.
type Responder interface {
	// KeyCommands returns the shortcuts this responder registers.
	KeyCommands() []keymap.Shortcut

	// CanPerform reports whether action can run right now.
	CanPerform(action string, sender any) bool

	// Perform runs action, passing the shortcut that triggered it.
	Perform(action string, sc keymap.Shortcut)

	// Next returns the next responder outward, or nil at the end of the chain.
	Next() Responder
}

// Match is a resolved shortcut together with the responder that owns it.
type Match struct {
	Shortcut  keymap.Shortcut
	Responder Responder
}

// Perform runs the matched action on its owning responder.
func (m Match) Perform() {
	if m.Responder != nil {
		m.Responder.Perform(m.Shortcut.Action, m.Shortcut)
	}
}

// wrapper is implemented by responders that decorate another responder.
type wrapper interface {
	Unwrap() Responder
}

// Unwrap returns the innermost responder behind chain links.
func Unwrap(r Responder) Responder {
	for {
		w, ok := r.(wrapper)
		if !ok {
			return r
		}
		inner := w.Unwrap()
		if inner == nil {
			return r
		}
		r = inner
	}
}

// link adapts a responder into an explicit chain position.
type link struct {
	Responder
	next Responder
}

func (l *link) Next() Responder {
	if l.next == nil {
		return nil
	}
	return l.next
}

func (l *link) Unwrap() Responder {
	return l.Responder
}

// Chain links responders innermost first. Each responder's own Next is
// ignored; the chain ends after the last one. Nil entries are skipped.
func Chain(rs ...Responder) Responder {
	var next Responder
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == nil {
			continue
		}
		next = &link{Responder: rs[i], next: next}
	}
	return next
}

// Walk calls fn for each responder from origin outward until fn returns
// false or the chain ends. At most maxDepth responders are visited.
func Walk(origin Responder, maxDepth int, fn func(r Responder) bool) {
	for r, depth := origin, 0; r != nil && depth < maxDepth; r, depth = r.Next(), depth+1 {
		if !fn(r) {
			return
		}
	}
}
