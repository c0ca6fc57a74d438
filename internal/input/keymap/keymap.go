package keymap

import (
	"errors"
	"fmt"

	"github.com/dshills/termkeys/internal/input/key"
)

// Keymap errors.
var (
	// ErrEmptyAction indicates a binding without an action name.
	ErrEmptyAction = errors.New("keymap: empty action")

	// ErrEmptyKeys indicates a binding without a key specification.
	ErrEmptyKeys = errors.New("keymap: empty keys")

	// ErrUnsupportedFormat indicates a keymap file with an unknown extension.
	ErrUnsupportedFormat = errors.New("keymap: unsupported file format")
)

// Keymap holds an ordered list of shortcuts.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", "plugin:tabs.lua"
	Source string

	shortcuts []Shortcut
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:      name,
		shortcuts: make([]Shortcut, 0),
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add appends shortcuts to this keymap.
func (k *Keymap) Add(shortcuts ...Shortcut) *Keymap {
	k.shortcuts = append(k.shortcuts, shortcuts...)
	return k
}

// Bind parses spec and appends the resulting shortcut.
func (k *Keymap) Bind(spec, action string) error {
	sc, err := NewShortcut(spec, action)
	if err != nil {
		return err
	}
	k.shortcuts = append(k.shortcuts, sc)
	return nil
}

// Shortcuts returns a copy of the shortcuts in registration order.
func (k *Keymap) Shortcuts() []Shortcut {
	if k == nil {
		return nil
	}
	out := make([]Shortcut, len(k.shortcuts))
	copy(out, k.shortcuts)
	return out
}

// Len returns the number of shortcuts.
func (k *Keymap) Len() int {
	if k == nil {
		return 0
	}
	return len(k.shortcuts)
}

// First returns the first shortcut bound to the folded input and modifiers.
func (k *Keymap) First(input string, mods key.Modifier) (Shortcut, bool) {
	if k == nil {
		return Shortcut{}, false
	}
	return First(k.shortcuts, input, mods)
}

// First returns the first shortcut in list matching input and mods exactly.
func First(list []Shortcut, input string, mods key.Modifier) (Shortcut, bool) {
	for _, sc := range list {
		if sc.Matches(input, mods) {
			return sc, true
		}
	}
	return Shortcut{}, false
}

// Clone creates a copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	return &Keymap{
		Name:      k.Name,
		Source:    k.Source,
		shortcuts: k.Shortcuts(),
	}
}

// Merge combines keymaps into one. A later keymap's shortcut replaces an
// earlier shortcut bound to the same chord, keeping the earlier position.
func Merge(name string, keymaps ...*Keymap) *Keymap {
	out := NewKeymap(name)
	index := make(map[key.Chord]int)
	for _, km := range keymaps {
		if km == nil {
			continue
		}
		for _, sc := range km.shortcuts {
			if i, ok := index[sc.Chord]; ok {
				out.shortcuts[i] = sc
				continue
			}
			index[sc.Chord] = len(out.shortcuts)
			out.shortcuts = append(out.shortcuts, sc)
		}
	}
	return out
}

// Binding is the file representation of a shortcut.
type Binding struct {
	Keys     string `toml:"keys" yaml:"keys" json:"keys"`
	Action   string `toml:"action" yaml:"action" json:"action"`
	Title    string `toml:"title,omitempty" yaml:"title,omitempty" json:"title,omitempty"`
	Category string `toml:"category,omitempty" yaml:"category,omitempty" json:"category,omitempty"`
}

// Compile validates the binding and converts it to a Shortcut.
func (b Binding) Compile() (Shortcut, error) {
	if b.Keys == "" {
		return Shortcut{}, ErrEmptyKeys
	}
	sc, err := NewShortcut(b.Keys, b.Action)
	if err != nil {
		return Shortcut{}, err
	}
	return sc.WithTitle(b.Title).WithCategory(b.Category), nil
}

// FromBindings builds a keymap from file bindings. The first invalid
// binding aborts the build.
func FromBindings(name string, bindings []Binding) (*Keymap, error) {
	km := NewKeymap(name)
	for i, b := range bindings {
		sc, err := b.Compile()
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
		km.Add(sc)
	}
	return km, nil
}
