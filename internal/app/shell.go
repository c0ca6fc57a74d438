package app

import (
	"fmt"

	"github.com/dshills/termkeys/internal/input/keymap"
	"github.com/dshills/termkeys/internal/input/responder"
)

// Zoom limits for the view actions.
const (
	minZoom = -5
	maxZoom = 5
)

// Shell is the container responder around the input layer. It owns the
// merged keymap and performs the terminal actions.
type Shell struct {
	*responder.Base
	app *Application
}

// NewShell creates the shell responder with km bound.
func NewShell(app *Application, km *keymap.Keymap) *Shell {
	s := &Shell{
		Base: responder.NewBase("terminal", km),
		app:  app,
	}

	s.Register(keymap.ActionQuit, func(keymap.Shortcut) { app.Quit() })
	s.Register(keymap.ActionClear, func(keymap.Shortcut) { app.transcript.Clear() })
	s.Register(keymap.ActionShowHelp, func(keymap.Shortcut) { app.view.help = !app.view.help })
	s.Register(keymap.ActionZoomIn, func(keymap.Shortcut) { s.zoom(app.view.zoom + 1) })
	s.Register(keymap.ActionZoomOut, func(keymap.Shortcut) { s.zoom(app.view.zoom - 1) })
	s.Register(keymap.ActionZoomReset, func(keymap.Shortcut) { s.zoom(0) })

	// Actions that need a host window are recorded only.
	for _, action := range []string{
		keymap.ActionCopy,
		keymap.ActionPaste,
		keymap.ActionSelectAll,
		keymap.ActionNewTab,
		keymap.ActionCloseTab,
		keymap.ActionNextTab,
		keymap.ActionPrevTab,
		keymap.ActionNewWindow,
		keymap.ActionFindInView,
	} {
		s.Register(action, s.note)
	}

	// Zooming past the limits is refused so the shortcut falls through.
	s.SetCanPerform(func(action string, _ any) bool {
		switch action {
		case keymap.ActionZoomIn:
			return app.view.zoom < maxZoom
		case keymap.ActionZoomOut:
			return app.view.zoom > minZoom
		}
		return true
	})
	return s
}

func (s *Shell) zoom(level int) {
	s.app.view.zoom = level
	s.app.transcript.Note(fmt.Sprintf("zoom %+d", level))
}

func (s *Shell) note(sc keymap.Shortcut) {
	title := sc.Title
	if title == "" {
		title = sc.Action
	}
	s.app.transcript.Note(fmt.Sprintf("%s (%s)", title, sc.Chord))
}
