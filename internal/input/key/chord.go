package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Chord is a single character together with the modifiers held with it.
// Input is always stored in folded (lowercase) form.
type Chord struct {
	Input string
	Mods  Modifier
}

// NewChord creates a chord, folding the input the same way lookups do.
func NewChord(input string, mods Modifier) Chord {
	input, mods = Fold(input, mods)
	return Chord{Input: input, Mods: mods}
}

// Equals returns true if both chords name the same key and modifiers.
func (c Chord) Equals(other Chord) bool {
	return c.Input == other.Input && c.Mods == other.Mods
}

// String returns a readable form like "Cmd+Shift+a".
func (c Chord) String() string {
	name := inputName(c.Input)
	if c.Mods == ModNone {
		return name
	}
	return c.Mods.String() + "+" + name
}

// VimString returns a Vim-style form like "<D-S-a>".
func (c Chord) VimString() string {
	if c.Mods == ModNone && c.Input != " " && c.Input != "<" {
		return c.Input
	}
	name := vimInputName(c.Input)
	if c.Mods == ModNone {
		return "<" + name + ">"
	}
	return "<" + c.Mods.ShortString() + "-" + name + ">"
}

// ParseChord parses a chord specification.
//
// Supported formats:
//   - Single character: "a", "A", "]"
//   - With modifiers: "Cmd+S", "Alt+f", "Cmd+Shift+]"
//   - Vim-style: "<D-s>", "<A-f>", "<D-S-]>"
//   - Named characters: "Space", "Plus", "Minus", "<lt>", "<Bar>"
//
// An uppercase character adds Shift, so "Cmd+A" equals "Cmd+Shift+a".
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		return parseModifierStyle(spec)
	}

	return parseKeyWithModifiers(spec, ModNone)
}

// MustParseChord parses a chord specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return c
}

// parseVimStyle parses Vim-style notation like "D-s", "A-S-f", "lt".
func parseVimStyle(inner string) (Chord, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Chord{}, ErrInvalidSpec
	}

	modPart, keyPart := splitLast(inner, "-")
	var mods Modifier
	if modPart != "" {
		for _, p := range strings.Split(modPart, "-") {
			switch strings.ToLower(strings.TrimSpace(p)) {
			case "c":
				mods = mods.With(ModCtrl)
			case "a", "m":
				mods = mods.With(ModAlt)
			case "s":
				mods = mods.With(ModShift)
			case "d":
				mods = mods.With(ModCmd)
			default:
				return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
			}
		}
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Cmd+S" style notation.
func parseModifierStyle(spec string) (Chord, error) {
	modPart, keyPart := splitLast(spec, "+")
	if modPart == "" {
		return Chord{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}

	var mods Modifier
	for _, p := range strings.Split(modPart, "+") {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, strings.TrimSpace(p))
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// splitLast splits s at the last separator. A trailing doubled separator
// ("Cmd++", "D--") names the separator character itself.
func splitLast(s, sep string) (string, string) {
	if strings.HasSuffix(s, sep+sep) {
		return strings.TrimSuffix(s[:len(s)-2*len(sep)], sep), sep
	}
	if s == sep {
		return "", sep
	}
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+len(sep):]
}

// parseKeyWithModifiers resolves a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Chord, error) {
	if keyPart != " " {
		keyPart = strings.TrimSpace(keyPart)
	}
	if keyPart == "" {
		return Chord{}, ErrInvalidSpec
	}

	if r, ok := namedInputs[strings.ToLower(keyPart)]; ok && !IsSingle(keyPart) {
		keyPart = r
	}

	if !IsSingle(keyPart) {
		return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
	}

	return NewChord(keyPart, mods), nil
}

// namedInputs maps key names to the character they produce.
var namedInputs = map[string]string{
	"space":  " ",
	"lt":     "<",
	"gt":     ">",
	"bar":    "|",
	"bslash": "\\",
	"plus":   "+",
	"minus":  "-",
	"tab":    "\t",
	"cr":     "\r",
	"enter":  "\r",
	"return": "\r",
	"esc":    "\x1b",
	"escape": "\x1b",
}

func inputName(input string) string {
	switch input {
	case " ":
		return "Space"
	case "+":
		return "Plus"
	case "\t":
		return "Tab"
	case "\r":
		return "Enter"
	case "\x1b":
		return "Esc"
	default:
		return input
	}
}

func vimInputName(input string) string {
	switch input {
	case " ":
		return "Space"
	case "<":
		return "lt"
	case "-":
		return "minus"
	case "\t":
		return "Tab"
	case "\r":
		return "CR"
	case "\x1b":
		return "Esc"
	default:
		return input
	}
}
