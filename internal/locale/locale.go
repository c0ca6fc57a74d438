// Package locale tracks the input-language label shown by the keyboard
// surface. Changes are delivered through the event loop so they are
// ordered with keystrokes.
package locale

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// ErrUnknownLocale is returned for labels that name no language.
var ErrUnknownLocale = errors.New("locale: unknown language")

// envVars lists the variables consulted by Detect, highest priority first.
var envVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Normalize converts a POSIX locale ("en_US.UTF-8") or a loosely written
// tag ("de-de") to a canonical BCP 47 tag ("en-US", "de-DE").
func Normalize(label string) (string, error) {
	s := strings.TrimSpace(label)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, label)
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnknownLocale, label, err)
	}
	return tag.String(), nil
}

// Detect returns the language of the first set locale variable, or
// fallback when none names a language.
func Detect(getenv func(string) string, fallback string) string {
	for _, name := range envVars {
		v := getenv(name)
		if v == "" {
			continue
		}
		if tag, err := Normalize(v); err == nil {
			return tag
		}
	}
	return fallback
}

// Poster schedules work on the event loop.
type Poster interface {
	Post(fn func()) error
}

// Target displays the input-language label.
type Target interface {
	SetLanguage(lang string)
}

// Notifier delivers input-language changes to its targets on the loop.
type Notifier struct {
	mu      sync.Mutex
	poster  Poster
	targets []Target
	current string
	logger  *slog.Logger
}

// NewNotifier creates a notifier posting to p.
func NewNotifier(p Poster, logger *slog.Logger, targets ...Target) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		poster:  p,
		targets: targets,
		logger:  logger.With("component", "locale"),
	}
}

// Current returns the last label handed to Change.
func (n *Notifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Change normalizes label and posts the update. An unparsable label is
// passed through unchanged; the label is for display only. Repeating the
// current label posts nothing.
func (n *Notifier) Change(label string) error {
	lang, err := Normalize(label)
	if err != nil {
		n.logger.Debug("unrecognized language label", "label", label)
		lang = label
	}

	n.mu.Lock()
	if lang == n.current {
		n.mu.Unlock()
		return nil
	}
	n.current = lang
	targets := n.targets
	n.mu.Unlock()

	return n.poster.Post(func() {
		for _, t := range targets {
			t.SetLanguage(lang)
		}
		n.logger.Info("input language changed", "language", lang)
	})
}
