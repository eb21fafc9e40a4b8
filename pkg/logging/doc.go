// Package logging configures the log/slog loggers used across reqmatch.
//
// Components accept a *slog.Logger through an option and fall back to Nop
// when none is given. Matching itself never logs; the router logs
// registrations at Info and routing outcomes at Debug.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//	r := router.New(router.WithLogger(logger))
//
// The CLI derives its configuration from --log-level and --log-format,
// falling back to REQMATCH_LOG_LEVEL and REQMATCH_LOG_FORMAT.
package logging
