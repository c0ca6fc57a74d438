package logging

// Mode selects logging defaults for how the binary runs.
type Mode uint8

const (
	// ModeCLI is a one-shot command such as -dump-keymap.
	ModeCLI Mode = iota + 1
	// ModeInteractive is the full-screen keyboard surface.
	ModeInteractive
)

func (m Mode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	default:
		return "cli"
	}
}
