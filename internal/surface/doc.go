// Package surface adapts a tcell terminal keyboard to the input dispatcher.
//
// Keyboard converts tcell key events into dispatcher calls. Physically held
// modifiers reported with each event become the held set of the shared
// modifier state for the duration of that event. Printable runes are routed
// through Insert. Navigation and editing keys are sent as xterm sequences
// through DeviceWrite. Control keys that tcell reports as distinct key codes
// are mapped back to their character with Ctrl held.
//
// Function keys F1 to F4 act as the on-screen modifier toggles: they latch
// Cmd, Alt, Ctrl and Shift respectively for the next keystroke.
package surface
