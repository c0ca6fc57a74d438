package app

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termkeys/internal/input/key"
)

func screenRow(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		for _, r := range cells[y*w+x].Runes {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func newRenderApp(t *testing.T) (*Application, tcell.SimulationScreen) {
	t.Helper()
	app := newTestApp(t)
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(80, 10)
	app.screen = s
	return app, s
}

func TestRenderTranscript(t *testing.T) {
	app, s := newRenderApp(t)

	press(app, key.ModCtrl, "c")
	app.Dispatcher().Modifiers().Latch(key.ModAlt)
	app.render()

	if got := screenRow(s, 0); !strings.HasPrefix(got, "termkeys") {
		t.Errorf("header = %q", got)
	}
	if got := screenRow(s, 1); got != "> ^C" {
		t.Errorf("first transcript row = %q, want %q", got, "> ^C")
	}
	if got := screenRow(s, 8); got != "last: ctrl Ctrl c -> ^C" {
		t.Errorf("outcome row = %q", got)
	}
	if got := screenRow(s, 9); !strings.Contains(got, "[*F2 Alt]") || !strings.Contains(got, "de-DE") {
		t.Errorf("status row = %q", got)
	}
}

func TestRenderHelp(t *testing.T) {
	app, s := newRenderApp(t)

	press(app, key.ModCmd, "/")
	app.render()

	if got := screenRow(s, 1); got != "Clipboard" {
		t.Errorf("first help row = %q, want Clipboard", got)
	}
	if got := screenRow(s, 2); !strings.Contains(got, "Copy") {
		t.Errorf("second help row = %q, want the copy shortcut", got)
	}
}

func TestDrawLineClips(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()
	s.SetSize(4, 1)

	drawLine(s, 0, 4, tcell.StyleDefault, "abcdef")
	s.Show()
	if got := screenRow(s, 0); got != "abcd" {
		t.Errorf("row = %q, want abcd", got)
	}
}
