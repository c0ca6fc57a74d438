package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/termkeys/internal/input"
	"github.com/dshills/termkeys/internal/input/keymap"
)

const header = "termkeys  F1 Cmd  F2 Alt  F3 Ctrl  F4 Shift  Cmd+/ help  Cmd+q quit"

var (
	styleHeader = tcell.StyleDefault.Reverse(true)
	styleWrite  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleInsert = tcell.StyleDefault
	styleNote   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleTitle  = tcell.StyleDefault.Bold(true)
)

// view is display state. It is only touched on the loop.
type view struct {
	zoom    int
	help    bool
	last    input.Outcome
	hasLast bool
}

// recordOutcome keeps the latest routing decision for the status area.
func (app *Application) recordOutcome(out input.Outcome) {
	app.view.last = out
	app.view.hasLast = true
}

// render draws the screen. It runs on the loop.
func (app *Application) render() {
	s := app.screen
	if s == nil {
		return
	}
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	drawBar(s, 0, w, styleHeader, header)

	body := max(h-3, 0)
	if app.view.help {
		app.drawHelp(s, 1, w, body)
	} else {
		app.drawTranscript(s, 1, w, body)
	}

	if h >= 3 {
		drawLine(s, h-2, w, styleInsert, app.outcomeLine())
	}
	if h >= 2 {
		status := app.keyboard.StatusLine()
		if app.view.zoom != 0 {
			status += fmt.Sprintf(" zoom %+d", app.view.zoom)
		}
		drawBar(s, h-1, w, styleStatus, status)
	}
	s.Show()
}

func (app *Application) drawTranscript(s tcell.Screen, top, w, rows int) {
	for i, e := range app.transcript.Tail(rows) {
		style, prefix := styleInsert, "  "
		switch e.Kind {
		case EntryWrite:
			style, prefix = styleWrite, "> "
		case EntryNote:
			style, prefix = styleNote, "# "
		}
		drawLine(s, top+i, w, style, prefix+e.Text())
	}
}

func (app *Application) drawHelp(s tcell.Screen, top, w, rows int) {
	row := 0
	for _, cat := range keymap.GroupByCategory(app.shortcuts()) {
		if row >= rows {
			return
		}
		drawLine(s, top+row, w, styleTitle, cat.Name)
		row++
		for _, sc := range cat.Shortcuts {
			if row >= rows {
				return
			}
			title := sc.Title
			if title == "" {
				title = sc.Action
			}
			drawLine(s, top+row, w, styleInsert, fmt.Sprintf("  %-16s %s", sc.Chord, title))
			row++
		}
	}
}

// shortcuts lists every shortcut in the chain, innermost first.
func (app *Application) shortcuts() []keymap.Shortcut {
	out := append([]keymap.Shortcut(nil), app.dispatcher.KeyCommands()...)
	out = append(out, app.shell.KeyCommands()...)
	for _, s := range app.scripts {
		out = append(out, s.KeyCommands()...)
	}
	return out
}

func (app *Application) outcomeLine() string {
	if !app.view.hasLast {
		return ""
	}
	out := app.view.last
	line := fmt.Sprintf("last: %s", out.Route)
	if !out.Mods.IsEmpty() {
		line += " " + out.Mods.String()
	}
	line += " " + Visible([]byte(out.Text))
	switch {
	case out.Route == input.RouteShortcut:
		line += " -> " + out.Match.Shortcut.Action
	case out.Route.Writes():
		line += " -> " + Visible(out.Data)
	}
	if out.Err != nil {
		line += " error: " + out.Err.Error()
	}
	return line
}

// drawLine draws text on row y, clipped to width w, one grapheme cluster
// per cell group.
func drawLine(s tcell.Screen, y, w int, style tcell.Style, text string) {
	x := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() && x < w {
		runes := g.Runes()
		width := g.Width()
		if width == 0 {
			continue
		}
		if x+width > w {
			break
		}
		var comb []rune
		if len(runes) > 1 {
			comb = runes[1:]
		}
		s.SetContent(x, y, runes[0], comb, style)
		x += width
	}
}

// drawBar draws text like drawLine and pads the row with style.
func drawBar(s tcell.Screen, y, w int, style tcell.Style, text string) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
	drawLine(s, y, w, style, text)
}
