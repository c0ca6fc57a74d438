package responder

import (
	"log/slog"

	"github.com/dshills/termkeys/internal/input/key"
	"github.com/dshills/termkeys/internal/input/keymap"
)

// DefaultMaxDepth bounds how many responders a lookup visits.
const DefaultMaxDepth = 64

// Resolver finds the shortcut a chain should perform for a keystroke.
type Resolver struct {
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth limits the number of responders visited per lookup.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// WithLogger sets the logger used for lookup tracing.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve folds text (lowercasing it and adding Shift if that changed it)
// and looks the chord up along the chain starting at origin.
func (r *Resolver) Resolve(origin Responder, text string, mods key.Modifier, sender any) (Match, bool) {
	input, mods := key.Fold(text, mods)
	return r.Lookup(origin, input, mods, sender)
}

// Lookup walks the chain for an already folded chord. The last responder
// holding a matching shortcut it can perform wins.
func (r *Resolver) Lookup(origin Responder, input string, mods key.Modifier, sender any) (Match, bool) {
	var (
		result Match
		found  bool
		depth  int
	)

	Walk(origin, r.maxDepth, func(resp Responder) bool {
		depth++
		sc, ok := keymap.First(resp.KeyCommands(), input, mods)
		if !ok {
			return true
		}
		if !resp.CanPerform(sc.Action, sender) {
			r.logger.Debug("shortcut refused",
				slog.String("chord", sc.Chord.String()),
				slog.String("action", sc.Action),
				slog.Int("depth", depth))
			return true
		}
		result = Match{Shortcut: sc, Responder: Unwrap(resp)}
		found = true
		return true
	})

	if found {
		r.logger.Debug("shortcut resolved",
			slog.String("chord", result.Shortcut.Chord.String()),
			slog.String("action", result.Shortcut.Action),
			slog.Int("visited", depth))
	}
	return result, found
}
