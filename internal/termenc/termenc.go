// Package termenc encodes modified keystrokes into the bytes a terminal
// session expects.
package termenc

import (
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Encoder produces escape and control sequences for typed text.
type Encoder interface {
	// AltSeq returns the Alt (meta) sequence for text.
	AltSeq(text string) []byte
	// CtrlSeq returns the control-character sequence for text.
	CtrlSeq(text string) []byte
	// EscCtrlSeq returns the combined Alt+Control sequence for text.
	EscCtrlSeq(text string) []byte
}

// XTerm encodes keys the way xterm does with metaSendsEscape enabled.
type XTerm struct{}

// NewXTerm returns the default xterm encoder.
func NewXTerm() XTerm {
	return XTerm{}
}

// AltSeq prefixes text with ESC.
func (XTerm) AltSeq(text string) []byte {
	out := make([]byte, 0, len(text)+1)
	out = append(out, ansi.ESC)
	return append(out, text...)
}

// CtrlSeq maps each character to its C0 control code. Characters without
// a control mapping are sent unchanged.
func (XTerm) CtrlSeq(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if b, ok := ctrlByte(r); ok {
			out = append(out, b)
			continue
		}
		out = utf8.AppendRune(out, r)
	}
	return out
}

// EscCtrlSeq prefixes the control sequence with ESC.
func (x XTerm) EscCtrlSeq(text string) []byte {
	ctrl := x.CtrlSeq(text)
	out := make([]byte, 0, len(ctrl)+1)
	out = append(out, ansi.ESC)
	return append(out, ctrl...)
}

// ctrlByte returns the control code xterm sends for r with Control held.
func ctrlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= '@' && r <= '_':
		// '@' 'A'-'Z' '[' '\' ']' '^' '_'
		return byte(r - '@'), true
	}

	switch r {
	case ' ', '2':
		return ansi.NUL, true
	case '3':
		return ansi.ESC, true
	case '4':
		return ansi.FS, true
	case '5':
		return ansi.GS, true
	case '6', '~':
		return ansi.RS, true
	case '7', '/', '-':
		return ansi.US, true
	case '8', '?':
		return ansi.DEL, true
	default:
		return 0, false
	}
}
