package input

import (
	"github.com/dshills/termkeys/internal/input/key"
	"github.com/dshills/termkeys/internal/input/responder"
)

// Route identifies which branch of the routing table handled a text unit.
type Route uint8

const (
	// RouteLiteral indicates the text was inserted verbatim.
	RouteLiteral Route = iota
	// RouteComposing indicates literal insertion because composition was active.
	RouteComposing
	// RouteShortcut indicates a shortcut was resolved and performed.
	RouteShortcut
	// RouteShortcutMiss indicates Cmd was active but no responder claimed the key.
	RouteShortcutMiss
	// RouteAltCtrl indicates an escape-prefixed control sequence was written.
	RouteAltCtrl
	// RouteAlt indicates an escape-prefixed sequence was written.
	RouteAlt
	// RouteCtrl indicates a control sequence was written.
	RouteCtrl
	// RouteFiltered indicates a hook consumed the text before routing.
	RouteFiltered

	routeCount
)

// String returns a string representation of the route.
func (r Route) String() string {
	switch r {
	case RouteLiteral:
		return "literal"
	case RouteComposing:
		return "composing"
	case RouteShortcut:
		return "shortcut"
	case RouteShortcutMiss:
		return "shortcut-miss"
	case RouteAltCtrl:
		return "alt-ctrl"
	case RouteAlt:
		return "alt"
	case RouteCtrl:
		return "ctrl"
	case RouteFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// Writes reports whether the route sends bytes to the session.
func (r Route) Writes() bool {
	return r == RouteAltCtrl || r == RouteAlt || r == RouteCtrl
}

// Outcome describes how a single text unit was handled.
type Outcome struct {
	// Route is the branch that handled the text.
	Route Route

	// Text is the text unit as received.
	Text string

	// Mods is the modifier set that was active when the text arrived.
	Mods key.Modifier

	// Data holds the bytes written to the session for write routes.
	Data []byte

	// Match is the performed shortcut for RouteShortcut.
	Match responder.Match

	// Err is a write-out failure, if any. Routing itself never fails.
	Err error
}

// Sink receives the dispatcher's output.
type Sink interface {
	// InsertText inserts text verbatim.
	InsertText(text string)

	// Write sends raw bytes to the remote session.
	Write(p []byte) (int, error)
}
