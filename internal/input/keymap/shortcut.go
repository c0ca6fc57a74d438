package keymap

import (
	"fmt"

	"github.com/dshills/termkeys/internal/input/key"
)

// Shortcut binds a chord to an action.
type Shortcut struct {
	key.Chord

	// Action is the name of the action to perform.
	// Examples: "tab.new", "clipboard.paste", "view.zoomIn"
	Action string

	// Title is a human-readable description for help screens.
	Title string

	// Category groups shortcuts for display purposes.
	Category string
}

// NewShortcut parses spec and binds it to action.
func NewShortcut(spec, action string) (Shortcut, error) {
	if action == "" {
		return Shortcut{}, fmt.Errorf("shortcut %q: %w", spec, ErrEmptyAction)
	}
	chord, err := key.ParseChord(spec)
	if err != nil {
		return Shortcut{}, fmt.Errorf("shortcut %q: %w", spec, err)
	}
	return Shortcut{Chord: chord, Action: action}, nil
}

// MustShortcut is like NewShortcut but panics on error.
// Use only for known-valid specs in initialization code.
func MustShortcut(spec, action string) Shortcut {
	sc, err := NewShortcut(spec, action)
	if err != nil {
		panic(err)
	}
	return sc
}

// WithTitle returns a copy with the title set.
func (s Shortcut) WithTitle(title string) Shortcut {
	s.Title = title
	return s
}

// WithCategory returns a copy with the category set.
func (s Shortcut) WithCategory(category string) Shortcut {
	s.Category = category
	return s
}

// Matches reports whether the shortcut is bound to exactly this folded
// input and modifier set.
func (s Shortcut) Matches(input string, mods key.Modifier) bool {
	return s.Input == input && s.Mods == mods
}

// String returns "Cmd+t -> tab.new".
func (s Shortcut) String() string {
	return s.Chord.String() + " -> " + s.Action
}

// ShortcutCategory represents a category of shortcuts for display.
type ShortcutCategory struct {
	Name      string
	Shortcuts []Shortcut
}

// GroupByCategory groups shortcuts by their category, keeping first-seen
// category order.
func GroupByCategory(shortcuts []Shortcut) []ShortcutCategory {
	categoryMap := make(map[string][]Shortcut)
	order := make([]string, 0)

	for _, s := range shortcuts {
		cat := s.Category
		if cat == "" {
			cat = "Other"
		}
		if _, exists := categoryMap[cat]; !exists {
			order = append(order, cat)
		}
		categoryMap[cat] = append(categoryMap[cat], s)
	}

	result := make([]ShortcutCategory, 0, len(order))
	for _, name := range order {
		result = append(result, ShortcutCategory{
			Name:      name,
			Shortcuts: categoryMap[name],
		})
	}
	return result
}
