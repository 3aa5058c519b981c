package dispatch

import "github.com/ayoisaiah/focusflow/internal/apperr"

var errParseSessionCmd = &apperr.Error{
	Message: "unable to parse the session command",
}
