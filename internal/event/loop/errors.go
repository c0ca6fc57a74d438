package loop

import "errors"

// Sentinel errors for the loop package.
var (
	// ErrAlreadyRunning is returned when Run is called on a running loop.
	ErrAlreadyRunning = errors.New("loop is already running")

	// ErrStopped is returned when work is posted to a stopped loop.
	ErrStopped = errors.New("loop is stopped")

	// ErrQueueFull is returned when the queue cannot accept more work.
	ErrQueueFull = errors.New("loop queue is full")
)
