package surface

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termkeys/internal/input"
	"github.com/dshills/termkeys/internal/input/key"
	"github.com/dshills/termkeys/internal/input/keymap"
	"github.com/dshills/termkeys/internal/input/responder"
)

type session struct {
	text    strings.Builder
	written bytes.Buffer
}

func (s *session) InsertText(text string)      { s.text.WriteString(text) }
func (s *session) Write(p []byte) (int, error) { return s.written.Write(p) }

func newTestKeyboard(t *testing.T) (*Keyboard, *input.Dispatcher, *session) {
	t.Helper()
	s := &session{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := input.New(s, input.DefaultConfig(), input.WithLogger(logger))
	return NewKeyboard(d, WithLogger(logger)), d, s
}

func TestKeyboard_Runes(t *testing.T) {
	kb, _, s := newTestKeyboard(t)

	for _, r := range "hi!" {
		kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}

	if s.text.String() != "hi!" {
		t.Errorf("text = %q, want hi!", s.text.String())
	}
}

func TestKeyboard_ControlKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want []byte
	}{
		{"ctrl+c key code", tcell.KeyCtrlC, 0, tcell.ModCtrl, []byte{0x03}},
		{"ctrl+c rune", tcell.KeyRune, 'c', tcell.ModCtrl, []byte{0x03}},
		{"ctrl+space", tcell.KeyCtrlSpace, 0, tcell.ModCtrl, []byte{0x00}},
		{"ctrl+left bracket", tcell.KeyCtrlLeftSq, 0, tcell.ModCtrl, []byte{0x1b}},
		{"ctrl+backslash", tcell.KeyCtrlBackslash, 0, tcell.ModCtrl, []byte{0x1c}},
		{"ctrl+right bracket", tcell.KeyCtrlRightSq, 0, tcell.ModCtrl, []byte{0x1d}},
		{"ctrl+caret", tcell.KeyCtrlCarat, 0, tcell.ModCtrl, []byte{0x1e}},
		{"ctrl+underscore", tcell.KeyCtrlUnderscore, 0, tcell.ModCtrl, []byte{0x1f}},
		{"raw c0 from parser", tcell.KeyCtrlSpace + tcell.Key(0x1c), 0, tcell.ModCtrl, []byte{0x1c}},
		{"bare c0 code", tcell.Key(0x1d), 0, tcell.ModCtrl, []byte{0x1d}},
		{"ctrl+h with ctrl held", tcell.KeyCtrlH, 0, tcell.ModCtrl, []byte{0x08}},
		{"alt+x", tcell.KeyRune, 'x', tcell.ModAlt, []byte{0x1b, 'x'}},
		{"alt+ctrl+d", tcell.KeyCtrlD, 0, tcell.ModCtrl | tcell.ModAlt, []byte{0x1b, 0x04}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb, d, s := newTestKeyboard(t)

			kb.HandleEvent(tcell.NewEventKey(tt.key, tt.r, tt.mod))

			if !bytes.Equal(s.written.Bytes(), tt.want) {
				t.Errorf("written = %v, want %v", s.written.Bytes(), tt.want)
			}
			if !d.Modifiers().Modifiers().IsEmpty() {
				t.Errorf("held modifiers left set: %v", d.Modifiers().Modifiers())
			}
		})
	}
}

func TestKeyboard_SpecialKeys(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		mod  tcell.ModMask
		want string
	}{
		{tcell.KeyEnter, tcell.ModNone, "\r"},
		{tcell.KeyTab, tcell.ModNone, "\t"},
		{tcell.KeyBackspace2, tcell.ModNone, "\x7f"},
		{tcell.KeyEscape, tcell.ModNone, "\x1b"},
		{tcell.KeyUp, tcell.ModNone, "\x1b[A"},
		{tcell.KeyEnter, tcell.ModAlt, "\x1b\r"},
		{tcell.KeyEnter, tcell.ModCtrl, "\r"},
		{tcell.KeyLeft, tcell.ModAlt, "\x1b[1;3D"},
		{tcell.KeyUp, tcell.ModCtrl, "\x1b[1;5A"},
		{tcell.KeyRight, tcell.ModShift, "\x1b[1;2C"},
		{tcell.KeyHome, tcell.ModCtrl | tcell.ModShift, "\x1b[1;6H"},
		{tcell.KeyDelete, tcell.ModNone, "\x1b[3~"},
		{tcell.KeyDelete, tcell.ModCtrl, "\x1b[3;5~"},
		{tcell.KeyPgDn, tcell.ModNone, "\x1b[6~"},
	}

	for _, tt := range tests {
		kb, _, s := newTestKeyboard(t)
		kb.HandleEvent(tcell.NewEventKey(tt.key, 0, tt.mod))
		if got := s.written.String(); got != tt.want {
			t.Errorf("key %v: written = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestKeyboard_TogglesLatchOneShot(t *testing.T) {
	kb, d, s := newTestKeyboard(t)

	kb.HandleEvent(tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone))
	if !d.Modifiers().Latched().HasCtrl() {
		t.Fatal("F3 did not latch Ctrl")
	}
	if !strings.Contains(kb.StatusLine(), "[*F3 Ctrl]") {
		t.Errorf("StatusLine() = %q", kb.StatusLine())
	}

	kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModNone))

	if !bytes.Equal(s.written.Bytes(), []byte{0x03}) {
		t.Errorf("written = %v, want [3]", s.written.Bytes())
	}
	if s.text.String() != "c" {
		t.Errorf("text = %q, want c", s.text.String())
	}

	kb.HandleEvent(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyF2, 0, tcell.ModNone))
	if d.Modifiers().Latched().HasAlt() {
		t.Error("second F2 did not unlatch Alt")
	}
}

func TestKeyboard_CmdShortcut(t *testing.T) {
	kb, d, s := newTestKeyboard(t)

	app := responder.NewBase("app", keymap.NewKeymap("app").Add(keymap.MustShortcut("Cmd+Shift+a", "select")))
	fired := 0
	app.Register("select", func(keymap.Shortcut) { fired++ })
	d.SetNext(app)

	kb.HandleEvent(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModNone))

	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if s.text.Len() != 0 {
		t.Errorf("text = %q, want nothing", s.text.String())
	}

	// Meta is reported as Cmd.
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModMeta|tcell.ModShift))
	if fired != 2 {
		t.Errorf("fired = %d after Meta+Shift+A, want 2", fired)
	}
}

func TestKeyboard_PasteIgnoresModifiers(t *testing.T) {
	kb, _, s := newTestKeyboard(t)

	kb.HandleEvent(tcell.NewEventPaste(true))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'v', tcell.ModAlt))
	kb.HandleEvent(tcell.NewEventPaste(false))

	if s.text.String() != "v" || s.written.Len() != 0 {
		t.Errorf("text = %q written = %q", s.text.String(), s.written.String())
	}
}

func TestKeyboard_SpecialKeyLatchedCtrl(t *testing.T) {
	kb, d, s := newTestKeyboard(t)

	kb.HandleEvent(tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))

	if got := s.written.String(); got != "\x1b[1;5B" {
		t.Errorf("written = %q, want ESC[1;5B", got)
	}
	if !d.Modifiers().Latched().IsEmpty() {
		t.Errorf("latched = %v after write, want none", d.Modifiers().Latched())
	}
}

func TestKeyboard_PasteIsOneUnit(t *testing.T) {
	tests := []struct {
		name  string
		latch tcell.Key
		text  string
	}{
		{"cmd latched", tcell.KeyF1, "ls -la"},
		{"ctrl latched", tcell.KeyF3, "cat"},
		{"alt latched", tcell.KeyF2, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb, d, s := newTestKeyboard(t)
			inserts := 0
			d.OnOutcome(func(input.Outcome) { inserts++ })

			kb.HandleEvent(tcell.NewEventKey(tt.latch, 0, tcell.ModNone))
			kb.HandleEvent(tcell.NewEventPaste(true))
			for _, r := range tt.text {
				kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
			}
			if s.text.Len() != 0 {
				t.Fatalf("text = %q before paste end", s.text.String())
			}
			kb.HandleEvent(tcell.NewEventPaste(false))

			if s.text.String() != tt.text {
				t.Errorf("text = %q, want %q", s.text.String(), tt.text)
			}
			if s.written.Len() != 0 {
				t.Errorf("written = %v, want nothing", s.written.Bytes())
			}
			if inserts != 1 {
				t.Errorf("inserts = %d, want 1", inserts)
			}
			if !d.Modifiers().Modifiers().IsEmpty() {
				t.Errorf("modifiers = %v after paste", d.Modifiers().Modifiers())
			}
		})
	}
}

func TestKeyboard_PasteControlBytes(t *testing.T) {
	kb, _, s := newTestKeyboard(t)

	kb.HandleEvent(tcell.NewEventPaste(true))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone))
	kb.HandleEvent(tcell.NewEventPaste(false))

	if got := s.text.String(); got != "a\r\tb" {
		t.Errorf("text = %q, want a\\r\\tb", got)
	}

	// A stray end marker inserts nothing.
	kb.HandleEvent(tcell.NewEventPaste(false))
	if got := s.text.String(); got != "a\r\tb" {
		t.Errorf("text = %q after stray paste end", got)
	}
}

func TestKeyboard_IMEAndLanguage(t *testing.T) {
	kb, d, s := newTestKeyboard(t)

	d.SetMarkedText("に")
	if !kb.IMEActive() {
		t.Error("IMEActive() = false while composing")
	}
	kb.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlX, 0, tcell.ModCtrl))
	if s.text.String() != "x" || s.written.Len() != 0 {
		t.Errorf("composing ctrl+x: text = %q written = %v", s.text.String(), s.written.Bytes())
	}

	d.UnmarkText()
	if kb.IMEActive() {
		t.Error("IMEActive() = true after unmark")
	}

	d.SetLanguage("ja-JP")
	if kb.Lang() != "ja-JP" || !strings.Contains(kb.StatusLine(), "ja-JP") {
		t.Errorf("Lang() = %q", kb.Lang())
	}
}

func TestKeyboard_SoftwareKB(t *testing.T) {
	kb, _, _ := newTestKeyboard(t)
	if kb.SoftwareKB() {
		t.Error("SoftwareKB() = true with hardware attached")
	}
	kb.SetHardware(false)
	if !kb.SoftwareKB() || !strings.HasSuffix(kb.StatusLine(), "soft") {
		t.Errorf("SoftwareKB() = %v, StatusLine() = %q", kb.SoftwareKB(), kb.StatusLine())
	}
}

func TestKeyboard_NonKeyEvent(t *testing.T) {
	kb, _, _ := newTestKeyboard(t)
	if kb.HandleEvent(tcell.NewEventResize(80, 24)) {
		t.Error("HandleEvent(resize) = true")
	}
}

func TestKeyboard_SimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer screen.Fini()

	kb, _, s := newTestKeyboard(t)

	screen.InjectKey(tcell.KeyRune, 'o', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'k', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	for handled := 0; handled < 3; {
		ev := screen.PollEvent()
		if ev == nil {
			t.Fatal("screen closed before all keys were read")
		}
		if _, ok := ev.(*tcell.EventKey); ok {
			handled++
		}
		kb.HandleEvent(ev)
	}

	if s.text.String() != "ok" || s.written.String() != "\r" {
		t.Errorf("text = %q written = %q", s.text.String(), s.written.String())
	}
}

func TestConvertMod(t *testing.T) {
	got := convertMod(tcell.ModShift | tcell.ModCtrl | tcell.ModAlt | tcell.ModMeta)
	want := key.ModShift | key.ModCtrl | key.ModAlt | key.ModCmd
	if got != want {
		t.Errorf("convertMod() = %v, want %v", got, want)
	}
}
