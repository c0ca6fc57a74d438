// Package compose tracks input-method composition (marked text).
//
// While an input method is building a character the platform reports
// provisional "marked" text. Keystrokes delivered during that time belong to
// the input method, so callers must not interpret them as shortcuts or
// control sequences.
package compose

// State is the composition state.
type State uint8

const (
	// Idle means no marked text is pending.
	Idle State = iota
	// Composing means an input method has provisional text.
	Composing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	default:
		return "unknown"
	}
}

// Tracker follows marked-text updates from the platform.
// It is owned by the event loop and not safe for concurrent use.
type Tracker struct {
	state     State
	marked    string
	observers []func(State)
}

// NewTracker creates a tracker in the Idle state.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetMarkedText records the current marked text. Non-empty text enters
// Composing, empty text returns to Idle.
func (t *Tracker) SetMarkedText(text string) {
	t.marked = text
	if text == "" {
		t.transition(Idle)
		return
	}
	t.transition(Composing)
}

// ClearMarkedText handles the platform reporting no marked text at all.
func (t *Tracker) ClearMarkedText() {
	t.SetMarkedText("")
}

// Unmark commits the marked text and returns to Idle.
func (t *Tracker) Unmark() {
	t.marked = ""
	t.transition(Idle)
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Composing returns true while marked text is pending.
func (t *Tracker) Composing() bool {
	return t.state == Composing
}

// Marked returns the pending marked text.
func (t *Tracker) Marked() string {
	return t.marked
}

// OnChange registers an observer called on every state transition.
func (t *Tracker) OnChange(fn func(State)) {
	if fn != nil {
		t.observers = append(t.observers, fn)
	}
}

func (t *Tracker) transition(next State) {
	if t.state == next {
		return
	}
	t.state = next
	for _, fn := range t.observers {
		fn(next)
	}
}
