package key

import (
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IsSingle reports whether text is exactly one user-perceived character.
func IsSingle(text string) bool {
	return text != "" && uniseg.GraphemeClusterCount(text) == 1
}

// Fold lowercases text for shortcut lookup. When lowercasing changed the
// text, Shift is added to the returned modifiers.
func Fold(text string, mods Modifier) (string, Modifier) {
	lower := cases.Lower(language.Und).String(text)
	if lower != text {
		mods = mods.With(ModShift)
	}
	return lower, mods
}
