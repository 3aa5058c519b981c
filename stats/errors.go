package stats

import "github.com/ayoisaiah/focusflow/internal/apperr"

var (
	errInvalidPeriod = &apperr.Error{
		Message: "invalid period %q: expected one of today, week, month, 6months, year, all",
	}

	errRemoteStatus = &apperr.Error{
		Message: "stats endpoint responded with status %d",
	}

	errRemoteRequest = &apperr.Error{
		Message: "unable to send session to the stats endpoint",
	}

	errOpenSQLite = &apperr.Error{
		Message: "unable to open the stats database at %s",
	}

	errInvalidDate = &apperr.Error{
		Message: "invalid date %q: expected YYYY-MM-DD or RFC 3339",
	}
)
