// Package app wires configuration, logging, the event loop, the input
// dispatcher and the keyboard surface into the termkeys program.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termkeys/internal/config"
	"github.com/dshills/termkeys/internal/config/watcher"
	"github.com/dshills/termkeys/internal/event/loop"
	"github.com/dshills/termkeys/internal/input"
	"github.com/dshills/termkeys/internal/input/keymap"
	"github.com/dshills/termkeys/internal/input/responder"
	"github.com/dshills/termkeys/internal/locale"
	"github.com/dshills/termkeys/internal/logging"
	"github.com/dshills/termkeys/internal/plugin/lua"
	"github.com/dshills/termkeys/internal/surface"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Debug enables debug logging.
	Debug bool

	// Version is reported in log records.
	Version string

	// Logger replaces the configured logger. Used by tests.
	Logger *slog.Logger
}

// Application owns every termkeys component.
type Application struct {
	mu sync.Mutex

	opts     Options
	config   *config.Config
	logger   *slog.Logger
	logOut   *logging.Output
	getenv   func(string) string

	loop       *loop.Loop
	transcript *Transcript
	dispatcher *input.Dispatcher
	shell      *Shell
	scripts    []*lua.Responder
	keyboard   *surface.Keyboard
	locale     *locale.Notifier
	watcher    *watcher.Watcher

	screen tcell.Screen
	view   view

	running  atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once
}

// New loads configuration and builds all components. Nothing runs until
// Run is called.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	app := &Application{
		opts:   opts,
		config: cfg,
		getenv: os.Getenv,
		quit:   make(chan struct{}),
	}
	if err := app.initLogging(); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}
	app.bootstrap()
	return app, nil
}

func (app *Application) initLogging() error {
	if app.opts.Logger != nil {
		app.logger = app.opts.Logger
		return nil
	}

	logCfg := app.config.Log
	if level := app.levelOverride(); level != "" {
		logCfg.Level = level
	}
	out, err := logging.Init(logCfg, logging.InitOptions{
		App:     "termkeys",
		Version: app.opts.Version,
		Mode:    logging.ModeInteractive,
	})
	if err != nil {
		return err
	}
	app.logger = out.Logger
	app.logOut = out
	return nil
}

// levelOverride returns the log level forced by flags, or "".
func (app *Application) levelOverride() string {
	if app.opts.Debug {
		return "debug"
	}
	return app.opts.LogLevel
}

// bootstrap builds components in dependency order.
func (app *Application) bootstrap() {
	cfg := app.config

	// 1. Event loop
	app.loop = loop.New(loop.WithLogger(app.logger))

	// 2. Dispatcher writing to the transcript
	app.transcript = NewTranscript(DefaultTranscriptSize)
	dcfg := input.DefaultConfig()
	dcfg.MaxChainDepth = cfg.Keyboard.MaxChainDepth
	dcfg.Language = initialLanguage(cfg.Keyboard.Language, app.getenv)
	app.dispatcher = input.New(app.transcript, dcfg, input.WithLogger(app.logger))
	app.dispatcher.OnOutcome(app.recordOutcome)

	// 3. Shell responder with the configured keymaps
	km, errs := BuildKeymap(cfg)
	for _, err := range errs {
		app.logger.Warn("keymap not loaded", "error", err)
		app.transcript.Note("keymap: " + err.Error())
	}
	app.shell = NewShell(app, km)

	// 4. Lua responders, outermost last
	app.scripts = app.loadScripts(cfg.Plugins.Lua)
	chain := make([]responder.Responder, 0, 1+len(app.scripts))
	chain = append(chain, app.shell)
	for _, s := range app.scripts {
		chain = append(chain, s)
	}
	app.dispatcher.SetContainer(responder.Chain(chain...))

	// 5. Keyboard surface and language updates
	app.keyboard = surface.NewKeyboard(app.dispatcher,
		surface.WithLogger(app.logger),
		surface.WithHardware(cfg.Keyboard.Hardware),
	)
	app.locale = locale.NewNotifier(app.loop, app.logger, app.dispatcher)

	// 6. Config watcher
	app.watcher = watcher.New(watcher.WithLogger(app.logger))
	for _, path := range cfg.WatchedFiles() {
		if err := app.watcher.Watch(path); err != nil {
			app.logger.Warn("cannot watch file", "path", path, "error", err)
		}
	}
	app.watcher.OnChange(app.onConfigChange)
}

// initialLanguage resolves the configured language label.
func initialLanguage(label string, getenv func(string) string) string {
	if label == "" || label == config.LanguageAuto {
		return locale.Detect(getenv, input.DefaultConfig().Language)
	}
	if tag, err := locale.Normalize(label); err == nil {
		return tag
	}
	return label
}

// BuildKeymap merges the built-in shortcuts with configured keymap files.
// Later keymaps override earlier bindings of the same chord.
func BuildKeymap(cfg *config.Config) (*keymap.Keymap, []error) {
	var (
		keymaps []*keymap.Keymap
		errs    []error
	)
	if cfg.Keymap.Defaults {
		keymaps = append(keymaps, keymap.DefaultTerminalKeymap())
	}

	loader := keymap.NewLoader()
	for _, path := range cfg.Keymap.Files {
		km, err := loader.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		keymaps = append(keymaps, km)
	}
	for _, dir := range cfg.Keymap.Paths {
		loader.AddSearchPath(dir)
	}
	found, loadErrs := loader.LoadAll()
	keymaps = append(keymaps, found...)
	errs = append(errs, loadErrs...)

	return keymap.Merge("termkeys", keymaps...), errs
}

// loadScripts loads Lua responders. A script that fails to load is
// reported and skipped.
func (app *Application) loadScripts(paths []string) []*lua.Responder {
	out := sessionWriter{app.dispatcher}
	scripts := make([]*lua.Responder, 0, len(paths))
	for _, path := range paths {
		r, err := lua.LoadFile(path, out, lua.WithLogger(app.logger))
		if err != nil {
			app.logger.Warn("lua responder not loaded", "path", path, "error", err)
			app.transcript.Note("lua: " + err.Error())
			continue
		}
		app.logger.Info("lua responder loaded", "name", r.Name(), "shortcuts", len(r.KeyCommands()))
		scripts = append(scripts, r)
	}
	return scripts
}

// sessionWriter sends script output through the dispatcher.
type sessionWriter struct {
	d *input.Dispatcher
}

func (w sessionWriter) Write(p []byte) (int, error) {
	return w.d.DeviceWrite(p)
}

// SetScreen attaches the screen. It must be called before Run.
func (app *Application) SetScreen(s tcell.Screen) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.screen = s
	return nil
}

// Run drives the application until Quit, ctx cancellation or a loop
// failure. A requested quit returns ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	screen := app.screen
	app.mu.Unlock()
	if screen == nil {
		return ErrNoScreen
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer screen.Fini()
	screen.EnablePaste()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- app.loop.Run(ctx)
	}()

	if len(app.watcher.WatchedFiles()) > 0 {
		if err := app.watcher.Start(); err != nil {
			app.logger.Warn("config watcher not started", "error", err)
		}
		defer app.watcher.Stop()
	}

	go app.pollEvents(screen)
	_ = app.loop.Post(app.render)
	app.logger.Info("started", "dispatcher", app.dispatcher.ID())

	select {
	case <-app.quit:
		app.loop.Stop()
		<-loopDone
		return ErrQuit
	case err := <-loopDone:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
}

// pollEvents forwards screen events to the loop until the screen is
// finalized.
func (app *Application) pollEvents(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		err := app.loop.Post(func() {
			app.handleEvent(ev)
		})
		if errors.Is(err, loop.ErrStopped) {
			return
		}
		if err != nil {
			app.logger.Warn("event dropped", "error", err)
		}
	}
}

// handleEvent runs on the loop.
func (app *Application) handleEvent(ev tcell.Event) {
	switch ev.(type) {
	case *tcell.EventResize:
		app.screen.Sync()
	default:
		app.keyboard.HandleEvent(ev)
	}
	app.render()
}

// Quit asks Run to return ErrQuit. It is safe to call repeatedly.
func (app *Application) Quit() {
	app.quitOnce.Do(func() {
		close(app.quit)
	})
}

// Shutdown releases resources. Run must have returned.
func (app *Application) Shutdown() {
	app.loop.Stop()
	app.watcher.Stop()
	for _, s := range app.scripts {
		if err := s.Close(); err != nil {
			app.logger.Warn("closing lua responder", "name", s.Name(), "error", err)
		}
	}
	if app.logOut != nil {
		if err := app.logOut.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "termkeys: closing log: %v\n", err)
		}
	}
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.config
}

// Dispatcher returns the input dispatcher.
func (app *Application) Dispatcher() *input.Dispatcher {
	return app.dispatcher
}

// Keyboard returns the keyboard surface.
func (app *Application) Keyboard() *surface.Keyboard {
	return app.keyboard
}

// Transcript returns the session transcript.
func (app *Application) Transcript() *Transcript {
	return app.transcript
}

// Loop returns the event loop.
func (app *Application) Loop() *loop.Loop {
	return app.loop
}

// Keymap returns the merged shortcuts of the shell responder.
func (app *Application) Keymap() *keymap.Keymap {
	return app.shell.Keymap()
}
