package responder

import (
	"github.com/dshills/termkeys/internal/input/keymap"
)

// ActionFunc performs a registered action.
type ActionFunc func(sc keymap.Shortcut)

// Base is a responder backed by a keymap and named action functions.
// It can be used directly or embedded.
type Base struct {
	name       string
	keymap     *keymap.Keymap
	actions    map[string]ActionFunc
	canPerform func(action string, sender any) bool
	next       Responder
}

// NewBase creates a responder with the given keymap. A nil keymap
// registers no shortcuts.
func NewBase(name string, km *keymap.Keymap) *Base {
	return &Base{
		name:    name,
		keymap:  km,
		actions: make(map[string]ActionFunc),
	}
}

// Name returns the responder name.
func (b *Base) Name() string {
	return b.name
}

// Register registers a function for an action name.
func (b *Base) Register(action string, fn ActionFunc) *Base {
	b.actions[action] = fn
	return b
}

// SetKeymap replaces the registered shortcuts.
func (b *Base) SetKeymap(km *keymap.Keymap) {
	b.keymap = km
}

// Keymap returns the registered shortcuts.
func (b *Base) Keymap() *keymap.Keymap {
	return b.keymap
}

// SetCanPerform installs an extra capability predicate consulted after the
// action is known to be registered.
func (b *Base) SetCanPerform(fn func(action string, sender any) bool) {
	b.canPerform = fn
}

// SetNext sets the next responder outward.
func (b *Base) SetNext(r Responder) {
	b.next = r
}

// KeyCommands implements Responder.
func (b *Base) KeyCommands() []keymap.Shortcut {
	return b.keymap.Shortcuts()
}

// CanPerform implements Responder. Unregistered actions are refused.
func (b *Base) CanPerform(action string, sender any) bool {
	if _, ok := b.actions[action]; !ok {
		return false
	}
	if b.canPerform != nil {
		return b.canPerform(action, sender)
	}
	return true
}

// Perform implements Responder.
func (b *Base) Perform(action string, sc keymap.Shortcut) {
	if fn, ok := b.actions[action]; ok && fn != nil {
		fn(sc)
	}
}

// Next implements Responder.
func (b *Base) Next() Responder {
	if b.next == nil {
		return nil
	}
	return b.next
}
