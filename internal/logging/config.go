package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// Format selects the record encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Sink selects where records go.
type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

// Config is the [log] section. Empty or zero fields take the defaults of
// the mode the binary runs in. TERMKEYS_LOG_<FIELD> variables reach it
// through the config loader.
type Config struct {
	Level     string `toml:"level"`
	Format    Format `toml:"format"`
	Sink      Sink   `toml:"sink"`
	File      string `toml:"file"`
	AddSource bool   `toml:"add_source"`

	// Rotation of the file sink.
	MaxSizeMB  int  `toml:"max_size_mb"`
	MaxBackups int  `toml:"max_backups"`
	MaxAgeDays int  `toml:"max_age_days"`
	Compress   bool `toml:"compress"`
}

// resolved fills unset fields for mode. The full-screen surface owns the
// terminal, so interactive runs log JSON to a file.
func (c Config) resolved(mode Mode) Config {
	if c.Level == "" {
		c.Level = "warn"
		if mode == ModeInteractive {
			c.Level = "info"
		}
	}
	if c.Sink == "" {
		c.Sink = SinkStderr
		if mode == ModeInteractive {
			c.Sink = SinkFile
		}
	}
	if c.Format == "" {
		c.Format = FormatText
		if c.Sink == SinkFile {
			c.Format = FormatJSON
		}
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 7
	}
	return c
}

// Validate reports the first invalid setting. Unset fields are valid.
func (c Config) Validate() error {
	if c.Level != "" {
		if _, err := ParseLevel(c.Level); err != nil {
			return err
		}
	}
	switch Format(strings.ToLower(string(c.Format))) {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Format)
	}
	switch Sink(strings.ToLower(string(c.Sink))) {
	case "", SinkStderr, SinkFile, SinkNone:
	default:
		return fmt.Errorf("log.sink: unknown sink %q", c.Sink)
	}
	for _, limit := range []struct {
		name  string
		value int
	}{
		{"max_size_mb", c.MaxSizeMB},
		{"max_backups", c.MaxBackups},
		{"max_age_days", c.MaxAgeDays},
	} {
		if limit.value < 0 {
			return fmt.Errorf("log.%s: must not be negative, got %d", limit.name, limit.value)
		}
	}
	return nil
}

// ParseLevel accepts slog level names in any case, "warning", and offsets
// such as "debug-2".
func ParseLevel(name string) (slog.Level, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log.level: unknown level %q", name)
	}
	return level, nil
}
