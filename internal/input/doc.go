// Package input interprets typed text units for a terminal session.
//
// A Dispatcher receives one unit of text at a time together with the
// modifier state maintained by the keyboard surface and decides whether the
// unit is a shortcut, a control or escape sequence for the remote session,
// or plain text.
//
// # Routing
//
// Insert evaluates the following rules in order:
//
//   - While composition (marked text) is active, text is inserted verbatim.
//   - With Cmd active and a single character, the chord is resolved against
//     the responder chain starting at the dispatcher. A match is performed on
//     its owning responder. A miss consumes the keystroke.
//   - With Alt and Ctrl active, ESC followed by the control sequence is written.
//   - With Alt active, ESC followed by the text is written.
//   - With Ctrl active, the control sequence is written.
//   - Otherwise the text is inserted verbatim.
//
// One-shot (latched) modifiers are cleared after every Insert, and after
// every successful DeviceWrite.
//
// # Usage
//
//	d := input.New(session, input.DefaultConfig())
//	d.SetNext(windowResponder)
//	d.Modifiers().Latch(key.ModCtrl)
//	out := d.Insert("c") // writes 0x03
//
// # Subpackages
//
//   - key: modifiers, chords, grapheme and casing helpers
//   - modstate: latched and held modifier state
//   - compose: marked-text state machine
//   - keymap: shortcuts, keymaps and keymap files
//   - responder: responder chains and shortcut resolution
package input
