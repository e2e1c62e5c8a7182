package tui

import "errors"

var (
	// ErrAborted signals the user cancelled the session (Ctrl+C or the
	// cancel action).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoOptions is returned when a prompt or association has nothing to choose.
	ErrNoOptions = errors.New("tui: no options to select")
)
