// Package key provides the key vocabulary shared by the input system.
//
// This package defines the fundamental types for representing keystrokes:
//
//   - Modifier: Modifier keys (Shift, Ctrl, Alt, Cmd) as a bit set
//   - Chord: A single character plus the modifiers required with it
//
// # Chord Specifications
//
// Chord specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "]"
//   - With modifiers: "Cmd+S", "Alt+F", "Cmd+Shift+P"
//   - Vim-style: "<D-s>", "<A-f>", "<D-S-p>"
//
// # Characters
//
// A unit of typed text is only a shortcut candidate when it is exactly one
// user-perceived character. IsSingle counts grapheme clusters, so "é" written
// as e + combining accent is one character while "ab" is two.
//
// Fold applies the casing rule used for shortcut lookup: the text is
// lowercased, and when that changed it, Shift is added to the modifiers.
package key
