package store

import (
	"errors"

	"github.com/ayoisaiah/focusflow/internal/apperr"
)

var (
	errFocusRunning = errors.New(
		"is FocusFlow already running? Only one instance can be active at a time",
	)

	// ErrCorruptState is returned by LoadTimer when the stored state cannot
	// be decoded.
	ErrCorruptState = &apperr.Error{
		Message: "stored timer state is malformed",
	}

	errOpenDB = &apperr.Error{
		Message: "unable to open the FocusFlow database",
	}

	errEncodeRecord = &apperr.Error{
		Message: "unable to encode %s record",
	}
)

// IsLocked reports whether err means another process holds the database.
func IsLocked(err error) bool {
	return errors.Is(err, errFocusRunning)
}
