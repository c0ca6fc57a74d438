package lua

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/termkeys/internal/input/keymap"
	"github.com/dshills/termkeys/internal/input/responder"
)

// Script globals.
const (
	globalShortcuts  = "shortcuts"
	globalCanPerform = "can_perform"
	globalPerform    = "perform"
	globalActions    = "actions"
	moduleTerm       = "term"
)

// Responder is a responder whose shortcuts and actions come from a Lua
// script. The script declares
//
//	shortcuts = {
//	    {keys = "Cmd+K", action = "clear", title = "Clear"},
//	}
//
// and handles actions with either a perform(action, input, mods) function
// or an actions table of per-action functions. An optional
// can_perform(action) function gates each action. term.write(s) sends s to
// the session.
type Responder struct {
	name      string
	state     *State
	shortcuts []keymap.Shortcut
	out       io.Writer
	next      responder.Responder
	logger    *slog.Logger
}

// Option configures a Responder.
type Option func(*Responder)

// WithLogger sets the logger used for script errors.
func WithLogger(l *slog.Logger) Option {
	return func(r *Responder) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithStateOptions forwards options to the underlying State.
func WithStateOptions(opts ...StateOption) Option {
	return func(r *Responder) {
		r.state = NewState(opts...)
	}
}

// LoadFile loads a responder script from path. Output written with
// term.write goes to out.
func LoadFile(path string, out io.Writer, opts ...Option) (*Responder, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	r := newResponder(name, out, opts...)
	if err := r.state.DoFile(path); err != nil {
		_ = r.state.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := r.collect(); err != nil {
		_ = r.state.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return r, nil
}

// LoadString loads a responder script from source code.
func LoadString(name, code string, out io.Writer, opts ...Option) (*Responder, error) {
	r := newResponder(name, out, opts...)
	if err := r.state.DoString(code); err != nil {
		_ = r.state.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if err := r.collect(); err != nil {
		_ = r.state.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return r, nil
}

func newResponder(name string, out io.Writer, opts ...Option) *Responder {
	r := &Responder{
		name:   name,
		out:    out,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.state == nil {
		r.state = NewState()
	}
	r.logger = r.logger.With("component", "lua", "script", name)
	r.state.RegisterModule(moduleTerm, map[string]lua.LGFunction{
		"write": r.luaWrite,
	})
	return r
}

// collect reads the shortcuts table declared by the script.
func (r *Responder) collect() error {
	val := r.state.GetGlobal(globalShortcuts)
	if val == lua.LNil {
		return nil
	}
	tbl, ok := val.(*lua.LTable)
	if !ok {
		return fmt.Errorf("%s is a %s: %w", globalShortcuts, val.Type(), ErrInvalidShortcut)
	}

	var err error
	tbl.ForEach(func(_, v lua.LValue) {
		if err != nil {
			return
		}
		entry, ok := v.(*lua.LTable)
		if !ok {
			err = fmt.Errorf("entry is a %s: %w", v.Type(), ErrInvalidShortcut)
			return
		}
		b := keymap.Binding{
			Keys:     getTableString(entry, "keys"),
			Action:   getTableString(entry, "action"),
			Title:    getTableString(entry, "title"),
			Category: getTableString(entry, "category"),
		}
		sc, cerr := b.Compile()
		if cerr != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidShortcut, cerr)
			return
		}
		r.shortcuts = append(r.shortcuts, sc)
	})
	return err
}

// luaWrite implements term.write(s). It returns the number of bytes
// written, or nil and an error message.
func (r *Responder) luaWrite(L *lua.LState) int {
	s := L.CheckString(1)
	if r.out == nil {
		L.Push(lua.LNil)
		L.Push(lua.LString("no output attached"))
		return 2
	}
	n, err := r.out.Write([]byte(s))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(n))
	return 1
}

// Name returns the script name.
func (r *Responder) Name() string {
	return r.name
}

// SetNext sets the next responder outward.
func (r *Responder) SetNext(next responder.Responder) {
	r.next = next
}

// KeyCommands implements responder.Responder.
func (r *Responder) KeyCommands() []keymap.Shortcut {
	return r.shortcuts
}

// CanPerform implements responder.Responder. Without a can_perform
// function, an action is performable when the script can handle it.
func (r *Responder) CanPerform(action string, _ any) bool {
	if r.state.GetGlobal(globalCanPerform).Type() == lua.LTFunction {
		ret, err := r.state.Call(globalCanPerform, lua.LString(action))
		if err != nil {
			r.logger.Warn("can_perform failed", "action", action, "error", err)
			return false
		}
		return len(ret) > 0 && lua.LVAsBool(ret[0])
	}
	return r.handler(action) != lua.LNil
}

// Perform implements responder.Responder.
func (r *Responder) Perform(action string, sc keymap.Shortcut) {
	fn := r.handler(action)
	if fn == lua.LNil {
		r.logger.Debug("no handler", "action", action)
		return
	}
	_, err := r.state.CallValue(fn,
		lua.LString(action),
		lua.LString(sc.Input),
		lua.LString(sc.Mods.String()),
	)
	if err != nil {
		r.logger.Warn("perform failed", "action", action, "error", err)
	}
}

// handler returns the function that handles action, or LNil.
func (r *Responder) handler(action string) lua.LValue {
	if fn := r.state.GetGlobal(globalPerform); fn.Type() == lua.LTFunction {
		return fn
	}
	actions, ok := r.state.GetGlobal(globalActions).(*lua.LTable)
	if !ok {
		return lua.LNil
	}
	if fn := actions.RawGetString(action); fn.Type() == lua.LTFunction {
		return fn
	}
	return lua.LNil
}

// Next implements responder.Responder.
func (r *Responder) Next() responder.Responder {
	if r.next == nil {
		return nil
	}
	return r.next
}

// Close releases the script's Lua state.
func (r *Responder) Close() error {
	return r.state.Close()
}

// getTableString gets a string field from a Lua table.
func getTableString(tbl *lua.LTable, field string) string {
	if str, ok := tbl.RawGetString(field).(lua.LString); ok {
		return string(str)
	}
	return ""
}
