// Package keymap provides keyboard shortcut definitions for the input layer.
//
// A Shortcut maps one chord (a single character plus required modifiers) to
// a named action. Shortcuts are immutable values; matching is exact on both
// the folded character and the modifier set.
//
// # Key Concepts
//
// Shortcut: A chord bound to an action, with an optional title for display.
//
// Keymap: A named, ordered collection of shortcuts. The first shortcut that
// matches a chord wins within one keymap.
//
// Loader: Reads keymap files in TOML, YAML or JSON and exports JSON.
//
// # Chord Parsing
//
// Chords can be specified in multiple formats:
//
//	"Cmd+t"      - Command+T
//	"Cmd+T"      - Command+Shift+T (uppercase adds Shift)
//	"<D-S-]>"    - Command+Shift+] (Vim notation)
//	"Ctrl+Alt+d" - Control+Alt+D
//
// # Usage
//
//	km := keymap.DefaultTerminalKeymap()
//	if sc, ok := km.First("t", key.ModCmd); ok {
//	    // sc.Action == "tab.new"
//	}
package keymap
