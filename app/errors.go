package app

import "github.com/ayoisaiah/focusflow/internal/apperr"

var errInvalidPeriod = &apperr.Error{
	Message: "invalid period %q: must be one of %s",
}
