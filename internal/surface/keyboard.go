package surface

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termkeys/internal/input"
	"github.com/dshills/termkeys/internal/input/compose"
	"github.com/dshills/termkeys/internal/input/key"
	"github.com/dshills/termkeys/internal/input/modstate"
)

// Dispatcher is the part of input.Dispatcher the keyboard drives.
type Dispatcher interface {
	Insert(text string) input.Outcome
	DeviceWrite(p []byte) (int, error)
	Modifiers() *modstate.State
	Composition() *compose.Tracker
	Language() string
}

// toggles maps function keys to the modifier they latch.
var toggles = map[tcell.Key]key.Modifier{
	tcell.KeyF1: key.ModCmd,
	tcell.KeyF2: key.ModAlt,
	tcell.KeyF3: key.ModCtrl,
	tcell.KeyF4: key.ModShift,
}

// specialSeqs holds the xterm sequences for keys without a modified form.
var specialSeqs = map[tcell.Key]string{
	tcell.KeyEnter:     "\r",
	tcell.KeyTab:       "\t",
	tcell.KeyBacktab:   "\x1b[Z",
	tcell.KeyBackspace: "\x7f",
	tcell.KeyDEL:       "\x7f",
	tcell.KeyEscape:    "\x1b",
}

// csiKey is a cursor or editing key sent as a CSI sequence.
type csiKey struct {
	param string
	final byte
}

// csiKeys holds keys that xterm reports with a modifier parameter.
var csiKeys = map[tcell.Key]csiKey{
	tcell.KeyUp:     {"1", 'A'},
	tcell.KeyDown:   {"1", 'B'},
	tcell.KeyRight:  {"1", 'C'},
	tcell.KeyLeft:   {"1", 'D'},
	tcell.KeyHome:   {"1", 'H'},
	tcell.KeyEnd:    {"1", 'F'},
	tcell.KeyInsert: {"2", '~'},
	tcell.KeyDelete: {"3", '~'},
	tcell.KeyPgUp:   {"5", '~'},
	tcell.KeyPgDn:   {"6", '~'},
}

// seq returns the sequence for modifier parameter m, where 1 means none.
func (c csiKey) seq(m int) string {
	if m > 1 {
		return "\x1b[" + c.param + ";" + strconv.Itoa(m) + string(c.final)
	}
	if c.final == '~' {
		return "\x1b[" + c.param + "~"
	}
	return "\x1b[" + string(c.final)
}

// modifierParam encodes mods as an xterm modifier parameter.
func modifierParam(mods key.Modifier) int {
	m := 1
	if mods.HasShift() {
		m++
	}
	if mods.HasAlt() {
		m += 2
	}
	if mods.HasCtrl() {
		m += 4
	}
	return m
}

// Keyboard feeds tcell key events to a dispatcher.
type Keyboard struct {
	d        Dispatcher
	logger   *slog.Logger
	hardware bool
	ime      bool
	pasting  bool
	paste    strings.Builder
}

// Option configures a Keyboard.
type Option func(*Keyboard)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(k *Keyboard) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithHardware records whether a hardware keyboard is attached.
func WithHardware(attached bool) Option {
	return func(k *Keyboard) {
		k.hardware = attached
	}
}

// NewKeyboard creates a keyboard driving d.
func NewKeyboard(d Dispatcher, opts ...Option) *Keyboard {
	k := &Keyboard{
		d:        d,
		logger:   slog.Default(),
		hardware: true,
	}
	for _, opt := range opts {
		opt(k)
	}
	d.Composition().OnChange(func(s compose.State) {
		k.ime = s == compose.Composing
	})
	return k
}

// HandleEvent processes a tcell event. It reports whether the event was
// a keyboard event.
func (k *Keyboard) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k.handleKey(e)
		return true
	case *tcell.EventPaste:
		if e.Start() {
			k.pasting = true
			k.paste.Reset()
		} else if k.pasting {
			k.pasting = false
			k.flushPaste()
		}
		return true
	default:
		return false
	}
}

func (k *Keyboard) handleKey(e *tcell.EventKey) {
	if k.pasting {
		k.bufferPaste(e)
		return
	}

	mods := k.d.Modifiers()
	held := convertMod(e.Modifiers())
	code := e.Key()

	if mod, ok := toggles[code]; ok && held.IsEmpty() {
		mods.Toggle(mod)
		return
	}

	if ck, ok := csiKeys[code]; ok {
		mods.SetHeld(held)
		defer mods.SetHeld(key.ModNone)
		k.writeSpecial(ck.seq(modifierParam(mods.Modifiers())))
		return
	}

	if seq, ok := specialSeqs[code]; ok {
		mods.SetHeld(held)
		defer mods.SetHeld(key.ModNone)
		if mods.Has(key.ModAlt) {
			seq = "\x1b" + seq
		}
		k.writeSpecial(seq)
		return
	}

	if r, ok := controlRune(code); ok {
		mods.SetHeld(held.With(key.ModCtrl))
		defer mods.SetHeld(key.ModNone)
		k.d.Insert(string(r))
		return
	}

	if code == tcell.KeyRune {
		mods.SetHeld(held)
		defer mods.SetHeld(key.ModNone)
		k.d.Insert(string(e.Rune()))
		return
	}

	k.logger.Debug("unhandled key", slog.String("key", e.Name()))
}

// bufferPaste collects the text of a bracketed paste.
func (k *Keyboard) bufferPaste(e *tcell.EventKey) {
	code := e.Key()
	switch {
	case code == tcell.KeyRune:
		k.paste.WriteRune(e.Rune())
	case code == tcell.KeyEnter:
		k.paste.WriteByte('\r')
	case code == tcell.KeyTab:
		k.paste.WriteByte('\t')
	case code == tcell.KeyBackspace || code == tcell.KeyDEL:
		k.paste.WriteByte(0x7f)
	case code >= tcell.KeyCtrlSpace && code <= tcell.KeyCtrlUnderscore:
		k.paste.WriteByte(byte(code - tcell.KeyCtrlSpace))
	case code < 0x20:
		k.paste.WriteByte(byte(code))
	default:
		k.logger.Debug("key dropped from paste", slog.String("key", e.Name()))
	}
}

// flushPaste inserts the pasted text as one literal unit. Pasted text is
// never a chord, so latched and held modifiers are dropped first.
func (k *Keyboard) flushPaste() {
	text := k.paste.String()
	k.paste.Reset()
	if text == "" {
		return
	}
	mods := k.d.Modifiers()
	mods.SetHeld(key.ModNone)
	mods.Unlatch(mods.Latched())
	k.d.Insert(text)
}

// writeSpecial sends seq to the session.
func (k *Keyboard) writeSpecial(seq string) {
	if _, err := k.d.DeviceWrite([]byte(seq)); err != nil {
		k.logger.Warn("special key write failed", slog.Any("error", err))
	}
}

// controlRune maps tcell's control key codes back to the typed character.
// tcell reports raw C0 bytes as KeyCtrlSpace+byte and some platforms as the
// bare C0 code.
func controlRune(code tcell.Key) (rune, bool) {
	switch {
	case code >= tcell.KeyCtrlA && code <= tcell.KeyCtrlZ:
		return 'a' + rune(code-tcell.KeyCtrlA), true
	case code >= tcell.KeyCtrlSpace && code <= tcell.KeyCtrlUnderscore:
		if code == tcell.KeyCtrlSpace {
			return ' ', true
		}
		return '@' + rune(code-tcell.KeyCtrlSpace), true
	case code >= 1 && code <= 26:
		return 'a' + rune(code-1), true
	case code >= 0 && code < 0x20:
		if code == 0 {
			return ' ', true
		}
		return '@' + rune(code), true
	default:
		return 0, false
	}
}

// convertMod converts tcell modifiers. Meta is treated as Cmd.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModCmd
	}
	return result
}

// SetHardware records whether a hardware keyboard is attached.
func (k *Keyboard) SetHardware(attached bool) {
	k.hardware = attached
}

// SoftwareKB reports whether the on-screen keyboard is in use.
func (k *Keyboard) SoftwareKB() bool {
	return !k.hardware
}

// IMEActive reports whether marked text is being composed.
func (k *Keyboard) IMEActive() bool {
	return k.ime
}

// Lang returns the input-language label for display.
func (k *Keyboard) Lang() string {
	return k.d.Language()
}

// StatusLine describes the toggles, language and IME state for display.
func (k *Keyboard) StatusLine() string {
	latched := k.d.Modifiers().Latched()
	var b strings.Builder
	for _, t := range []struct {
		label string
		mod   key.Modifier
	}{
		{"F1 Cmd", key.ModCmd},
		{"F2 Alt", key.ModAlt},
		{"F3 Ctrl", key.ModCtrl},
		{"F4 Shift", key.ModShift},
	} {
		if latched.Has(t.mod) {
			b.WriteString("[*" + t.label + "] ")
		} else {
			b.WriteString("[ " + t.label + "] ")
		}
	}
	b.WriteString(k.Lang())
	if k.ime {
		b.WriteString(" IME")
	}
	if k.SoftwareKB() {
		b.WriteString(" soft")
	}
	return b.String()
}
