package app

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// DefaultTranscriptSize is the number of entries a transcript keeps.
const DefaultTranscriptSize = 512

// EntryKind distinguishes transcript entries.
type EntryKind int

const (
	// EntryWrite is a byte sequence written to the session.
	EntryWrite EntryKind = iota

	// EntryInsert is literal text inserted as typed.
	EntryInsert

	// EntryNote is a message from the application itself.
	EntryNote
)

// String returns the entry kind's label.
func (k EntryKind) String() string {
	switch k {
	case EntryWrite:
		return "write"
	case EntryInsert:
		return "insert"
	case EntryNote:
		return "note"
	default:
		return "unknown"
	}
}

// Entry is one transcript line.
type Entry struct {
	Kind EntryKind
	Data []byte
}

// Text renders the entry for display with control bytes in caret form.
func (e Entry) Text() string {
	if e.Kind == EntryNote {
		return string(e.Data)
	}
	return Visible(e.Data)
}

// Transcript records what the input layer sent to the session. It stands
// in for a remote session and implements input.Sink.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
	max     int
	bytes   int
}

// NewTranscript creates a transcript keeping at most size entries.
func NewTranscript(size int) *Transcript {
	if size <= 0 {
		size = DefaultTranscriptSize
	}
	return &Transcript{max: size}
}

// InsertText implements input.Sink.
func (t *Transcript) InsertText(text string) {
	t.append(Entry{Kind: EntryInsert, Data: []byte(text)})
}

// Write implements input.Sink.
func (t *Transcript) Write(p []byte) (int, error) {
	t.append(Entry{Kind: EntryWrite, Data: append([]byte(nil), p...)})
	return len(p), nil
}

// Note records an application message.
func (t *Transcript) Note(msg string) {
	t.append(Entry{Kind: EntryNote, Data: []byte(msg)})
}

func (t *Transcript) append(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e.Kind != EntryNote {
		t.bytes += len(e.Data)
	}
	t.entries = append(t.entries, e)
	if over := len(t.entries) - t.max; over > 0 {
		t.entries = append(t.entries[:0], t.entries[over:]...)
	}
}

// Tail returns the last n entries, oldest first.
func (t *Transcript) Tail(n int) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n <= 0 {
		return nil
	}
	start := max(len(t.entries)-n, 0)
	return append([]Entry(nil), t.entries[start:]...)
}

// Len returns the number of entries kept.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Bytes returns the total number of session bytes recorded.
func (t *Transcript) Bytes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}

// Clear removes all entries.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = t.entries[:0]
}

// Visible renders p with C0 controls and DEL in caret notation (ESC is
// "^[") and invalid UTF-8 as hex escapes.
func Visible(p []byte) string {
	var b strings.Builder
	for len(p) > 0 {
		r, size := utf8.DecodeRune(p)
		switch {
		case r == utf8.RuneError && size == 1:
			b.WriteString(`\x`)
			b.WriteString(hex(p[0]))
		case r < 0x20:
			b.WriteByte('^')
			b.WriteByte(byte(r) + '@')
		case r == ansi.DEL:
			b.WriteString("^?")
		default:
			b.Write(p[:size])
		}
		p = p[size:]
	}
	return b.String()
}

func hex(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}
