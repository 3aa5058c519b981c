package timer

import "github.com/ayoisaiah/focusflow/internal/apperr"

var (
	errReadStatus = &apperr.Error{
		Message: "unable to read the timer status file",
	}

	errWriteStatus = &apperr.Error{
		Message: "unable to write the timer status file",
	}
)
