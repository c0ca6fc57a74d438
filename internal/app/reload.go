package app

import (
	"github.com/dshills/termkeys/internal/config"
	"github.com/dshills/termkeys/internal/config/watcher"
)

// onConfigChange runs on the watcher goroutine and hands the reload to
// the loop.
func (app *Application) onConfigChange(ev watcher.Event) {
	app.logger.Debug("config file changed", "path", ev.Path, "op", ev.Op.String())
	if err := app.loop.Post(app.Reload); err != nil {
		app.logger.Warn("reload not scheduled", "error", err)
	}
}

// Reload re-reads the configuration and applies the keymap, log level,
// keyboard and language settings. Lua scripts are not reloaded. It must
// run on the loop. A configuration that fails to load leaves the current
// one active.
func (app *Application) Reload() {
	app.mu.Lock()
	path := app.config.Path
	app.mu.Unlock()
	if path == "" {
		path = app.opts.ConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		app.logger.Warn("config reload failed", "error", err)
		app.transcript.Note("config: " + err.Error())
		return
	}

	km, errs := BuildKeymap(cfg)
	for _, err := range errs {
		app.logger.Warn("keymap not loaded", "error", err)
		app.transcript.Note("keymap: " + err.Error())
	}
	app.shell.SetKeymap(km)
	if app.logOut != nil && app.levelOverride() == "" {
		if err := app.logOut.SetLevel(cfg.Log.Level); err != nil {
			app.logger.Warn("log level not changed", "error", err)
		}
	}
	app.keyboard.SetHardware(cfg.Keyboard.Hardware)
	if err := app.locale.Change(initialLanguage(cfg.Keyboard.Language, app.getenv)); err != nil {
		app.logger.Warn("language change not scheduled", "error", err)
	}

	for _, f := range cfg.WatchedFiles() {
		if err := app.watcher.Watch(f); err != nil {
			app.logger.Warn("cannot watch file", "path", f, "error", err)
		}
	}

	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	app.logger.Info("config reloaded", "shortcuts", km.Len())
	app.transcript.Note("config reloaded")
	app.render()
}
