package config

import "github.com/ayoisaiah/focusflow/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errUnknownPreset = &apperr.Error{
		Message: "unknown preset %q: run 'focusflow presets' to see the available ones",
	}

	errUnknownBackend = &apperr.Error{
		Message: "unknown stats backend %q (must be one of %v)",
	}

	errMissingEndpoint = &apperr.Error{
		Message: "the http stats backend requires stats.endpoint to be set",
	}

	errInvalidQuietHours = &apperr.Error{
		Message: "invalid quiet hours",
	}

	errInvalidLogLevel = &apperr.Error{
		Message: "invalid log level %q (must be debug, info, warn or error)",
	}

	errPrompt = &apperr.Error{
		Message: "user prompt failed",
	}
)
