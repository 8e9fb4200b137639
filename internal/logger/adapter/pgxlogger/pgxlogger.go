// Package pgxlogger routes pgx query tracing into zerolog.
package pgxlogger

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger implements tracelog.Logger.
type Logger struct{}

// Log implements tracelog.Logger.
func (Logger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	ev := log.WithLevel(Level(level)).Str("component", "pgx")

	for k, v := range data {
		ev = ev.Interface(k, v)
	}

	ev.Msg(msg)
}

// Level maps pgx log levels to zerolog levels.
func Level(level tracelog.LogLevel) zerolog.Level {
	switch level {
	case tracelog.LogLevelTrace:
		return zerolog.TraceLevel
	case tracelog.LogLevelDebug:
		return zerolog.DebugLevel
	case tracelog.LogLevelInfo:
		return zerolog.InfoLevel
	case tracelog.LogLevelWarn:
		return zerolog.WarnLevel
	case tracelog.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

// NewTracer returns a pgx query tracer logging at the named level.
func NewTracer(level string) *tracelog.TraceLog {
	lvl, err := tracelog.LogLevelFromString(strings.ToLower(level))
	if err != nil {
		lvl = tracelog.LogLevelWarn
	}

	return &tracelog.TraceLog{
		Logger:   Logger{},
		LogLevel: lvl,
	}
}
