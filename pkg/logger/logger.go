package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// serviceName tags every log line so aggregated logs from the API pods can be
// filtered per service.
const serviceName = "home-services-api"

// New creates the process-wide zerolog.Logger. Level is one of debug, info,
// warn, error (anything else falls back to info); pretty switches to the
// human-readable console writer for local development.
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stdout

	if pretty {
		w = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

// NewWithWriter creates a logger writing to a custom writer. Tests use it to
// capture output; the service field and caller annotation are omitted so
// assertions stay simple.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
