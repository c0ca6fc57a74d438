package input

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/termkeys/internal/input/compose"
	"github.com/dshills/termkeys/internal/input/key"
	"github.com/dshills/termkeys/internal/input/keymap"
	"github.com/dshills/termkeys/internal/input/modstate"
	"github.com/dshills/termkeys/internal/input/responder"
	"github.com/dshills/termkeys/internal/termenc"
)

// Config configures the dispatcher.
type Config struct {
	// Language is the initial input-language label.
	Language string

	// MaxChainDepth bounds how many responders a shortcut lookup visits.
	// Default: responder.DefaultMaxDepth
	MaxChainDepth int

	// EnableMetrics enables routing metrics (default: true).
	EnableMetrics bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Language:      "en-US",
		MaxChainDepth: responder.DefaultMaxDepth,
		EnableMetrics: true,
	}
}

// Option configures optional dispatcher collaborators.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithEncoder sets the escape-sequence encoder.
func WithEncoder(enc termenc.Encoder) Option {
	return func(d *Dispatcher) {
		if enc != nil {
			d.enc = enc
		}
	}
}

// WithModifierState shares a modifier state with the keyboard surface.
func WithModifierState(s *modstate.State) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.mods = s
		}
	}
}

// WithKeymap sets the dispatcher's own shortcuts.
func WithKeymap(km *keymap.Keymap) Option {
	return func(d *Dispatcher) {
		d.SetKeymap(km)
	}
}

// Dispatcher routes typed text units. It is the first link of the
// responder chain used for shortcut resolution.
//
// A Dispatcher is owned by a single event loop and is not safe for
// concurrent use, with the exception of Language and SetLanguage.
type Dispatcher struct {
	*responder.Base

	id       string
	sink     Sink
	enc      termenc.Encoder
	mods     *modstate.State
	compose  *compose.Tracker
	resolver *responder.Resolver
	hooks    *HookManager
	metrics  *Metrics
	logger   *slog.Logger

	container responder.Responder
	language  atomic.Value
}

// New creates a dispatcher writing to sink.
func New(sink Sink, config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		Base:    responder.NewBase("input", keymap.NewKeymap("input")),
		id:      uuid.New().String(),
		sink:    sink,
		enc:     termenc.NewXTerm(),
		mods:    modstate.New(),
		compose: compose.NewTracker(),
		hooks:   NewHookManager(),
		metrics: NewMetrics(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.logger = d.logger.With(slog.String("dispatcher", d.id))
	d.resolver = responder.NewResolver(
		responder.WithMaxDepth(config.MaxChainDepth),
		responder.WithLogger(d.logger),
	)
	d.metrics.SetEnabled(config.EnableMetrics)
	d.language.Store(config.Language)

	return d
}

// ID returns the dispatcher's unique identifier.
func (d *Dispatcher) ID() string {
	return d.id
}

// Modifiers returns the modifier state consulted for routing.
func (d *Dispatcher) Modifiers() *modstate.State {
	return d.mods
}

// Composition returns the composition tracker.
func (d *Dispatcher) Composition() *compose.Tracker {
	return d.compose
}

// Hooks returns the hook manager.
func (d *Dispatcher) Hooks() *HookManager {
	return d.hooks
}

// Metrics returns the routing metrics.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Stats returns a snapshot of the routing metrics.
func (d *Dispatcher) Stats() MetricsSnapshot {
	return d.metrics.Snapshot()
}

// OnOutcome registers fn to be called after every Insert.
func (d *Dispatcher) OnOutcome(fn func(Outcome)) HookID {
	return d.hooks.RegisterWithOptions(FuncHook{PostInsertFunc: fn}, "", HookPriorityLowest)
}

// SetContainer attaches a surrounding container responder. While one is
// attached it replaces the default next responder.
func (d *Dispatcher) SetContainer(r responder.Responder) {
	d.container = r
}

// Next implements responder.Responder.
func (d *Dispatcher) Next() responder.Responder {
	if d.container != nil {
		return d.container
	}
	return d.Base.Next()
}

// Language returns the current input-language label.
func (d *Dispatcher) Language() string {
	s, _ := d.language.Load().(string)
	return s
}

// SetLanguage updates the input-language label. It never affects routing.
func (d *Dispatcher) SetLanguage(lang string) {
	d.language.Store(lang)
}

// SetMarkedText reports the platform's marked (composing) text.
func (d *Dispatcher) SetMarkedText(text string) {
	d.compose.SetMarkedText(text)
}

// UnmarkText commits the marked text and ends composition.
func (d *Dispatcher) UnmarkText() {
	d.compose.Unmark()
}

// Insert routes one text unit and reports how it was handled.
// One-shot modifiers are cleared afterwards on every route.
func (d *Dispatcher) Insert(text string) Outcome {
	start := time.Now()
	mods := d.mods.Modifiers()
	out := Outcome{Text: text, Mods: mods}

	switch {
	case d.hooks.RunPreInsert(text, mods):
		out.Route = RouteFiltered

	case d.compose.Composing():
		out.Route = RouteComposing
		d.sink.InsertText(text)

	case mods.HasCmd() && key.IsSingle(text):
		if m, ok := d.resolver.Resolve(d, text, mods, d); ok {
			out.Route = RouteShortcut
			out.Match = m
			m.Perform()
		} else {
			out.Route = RouteShortcutMiss
		}

	case mods.HasAlt() && mods.HasCtrl():
		out.Route = RouteAltCtrl
		out.Data = d.enc.EscCtrlSeq(text)
		_, out.Err = d.DeviceWrite(out.Data)

	case mods.HasAlt():
		out.Route = RouteAlt
		out.Data = d.enc.AltSeq(text)
		_, out.Err = d.DeviceWrite(out.Data)

	case mods.HasCtrl():
		out.Route = RouteCtrl
		out.Data = d.enc.CtrlSeq(text)
		_, out.Err = d.DeviceWrite(out.Data)

	default:
		out.Route = RouteLiteral
		d.sink.InsertText(text)
	}

	d.mods.ClearOneShot()
	d.metrics.RecordInsert(out.Route, time.Since(start))

	if d.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{
			slog.String("route", out.Route.String()),
			slog.String("mods", mods.String()),
		}
		if out.Route == RouteShortcut {
			attrs = append(attrs, slog.String("action", out.Match.Shortcut.Action))
		}
		d.logger.Debug("insert", attrs...)
	}

	d.hooks.RunPostInsert(out)
	return out
}

// DeviceWrite sends raw bytes to the session. A successful write clears
// one-shot modifiers.
func (d *Dispatcher) DeviceWrite(p []byte) (int, error) {
	n, err := d.sink.Write(p)
	d.metrics.RecordWrite(err)
	if err != nil {
		d.logger.Warn("session write failed",
			slog.Int("bytes", len(p)),
			slog.Any("error", err))
		return n, err
	}
	d.mods.ClearOneShot()
	return n, nil
}
