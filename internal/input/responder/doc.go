// Package responder resolves keyboard shortcuts against a chain of handlers.
//
// A Responder registers shortcuts, answers whether it can perform an action
// right now, and names the next responder outward. Resolution starts at an
// origin (innermost) responder and follows Next until it returns nil.
//
// # Precedence
//
// Every responder in the chain is consulted. Within a responder the first
// shortcut matching the chord exactly is considered; if the responder can
// perform its action, it becomes the current result. The walk continues, so
// when several responders claim the same chord the one farthest from the
// origin wins.
//
// # Chains
//
// Responders can link themselves through Next, or an explicit list can be
// turned into a chain with Chain:
//
//	origin := responder.Chain(pane, tab, window, app)
//	m, ok := responder.NewResolver().Resolve(origin, "T", key.ModCmd, nil)
//	if ok {
//	    m.Perform()
//	}
package responder
