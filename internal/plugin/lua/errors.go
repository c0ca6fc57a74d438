package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a call runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned when a called global is not a function.
	ErrNotFunction = errors.New("lua global is not a function")

	// ErrInvalidShortcut is returned when a script declares a malformed
	// shortcuts entry.
	ErrInvalidShortcut = errors.New("invalid shortcut declaration")
)
