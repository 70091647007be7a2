package engine

import "errors"

var (
	// ErrEmptyTarget rejects session construction without a target text.
	ErrEmptyTarget = errors.New("engine: target text is empty")
	// ErrSessionEnded rejects keystrokes submitted to a completed session.
	ErrSessionEnded = errors.New("engine: session already completed")
)
