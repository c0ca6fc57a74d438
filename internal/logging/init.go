package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitOptions identifies the process in every record.
type InitOptions struct {
	App     string
	Version string
	Mode    Mode

	// Stderr replaces os.Stderr for the stderr sink.
	Stderr io.Writer
}

// Output is a configured logger together with its level and sink.
type Output struct {
	Logger *slog.Logger

	mode   Mode
	level  *slog.LevelVar
	closer io.Closer
}

// Init builds an Output from cfg and installs its logger as the slog
// default.
func Init(cfg Config, opts InitOptions) (*Output, error) {
	out, err := New(cfg, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(out.Logger)
	return out, nil
}

// New builds an Output without installing it.
func New(cfg Config, opts InitOptions) (*Output, error) {
	if opts.App == "" {
		opts.App = "termkeys"
	}
	if opts.Mode == 0 {
		opts.Mode = ModeCLI
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.resolved(opts.Mode)

	out := &Output{mode: opts.Mode, level: new(slog.LevelVar)}
	if err := out.SetLevel(cfg.Level); err != nil {
		return nil, err
	}

	w, err := out.open(cfg, opts.Stderr)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     out.level,
		AddSource: cfg.AddSource,
	}
	var h slog.Handler
	if Format(strings.ToLower(string(cfg.Format))) == FormatJSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}

	out.Logger = slog.New(h).With(
		slog.Group("process",
			slog.String("app", opts.App),
			slog.String("version", opts.Version),
			slog.String("mode", opts.Mode.String()),
			slog.Int("pid", os.Getpid()),
		),
	)
	return out, nil
}

// open resolves the sink writer and records what Close must release.
func (o *Output) open(cfg Config, stderr io.Writer) (io.Writer, error) {
	switch Sink(strings.ToLower(string(cfg.Sink))) {
	case SinkNone:
		return io.Discard, nil
	case SinkStderr:
		return stderr, nil
	case SinkFile:
		path := cfg.File
		if path == "" {
			p, err := DefaultFile()
			if err != nil {
				return nil, fmt.Errorf("logging: no log file: %w", err)
			}
			path = p
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		rot := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		o.closer = rot
		return rot, nil
	default:
		return nil, fmt.Errorf("logging: unknown sink %q", cfg.Sink)
	}
}

// SetLevel changes the minimum level of records. An empty name restores
// the mode default.
func (o *Output) SetLevel(name string) error {
	if name == "" {
		name = Config{}.resolved(o.mode).Level
	}
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	o.level.Set(level)
	return nil
}

// Level returns the current minimum level.
func (o *Output) Level() slog.Level {
	return o.level.Level()
}

// Close releases the file sink. It is safe to call more than once.
func (o *Output) Close() error {
	if o.closer == nil {
		return nil
	}
	c := o.closer
	o.closer = nil
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

// DefaultFile returns the log file used when none is configured.
func DefaultFile() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "termkeys", "termkeys.log"), nil
}
