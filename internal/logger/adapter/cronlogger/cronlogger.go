// Package cronlogger routes robfig/cron scheduler logs into zerolog.
package cronlogger

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger implements cron.Logger. Info lines are written at debug level,
// the scheduler is chatty about every wake up.
type Logger struct {
	log zerolog.Logger
}

var _ cron.Logger = Logger{}

// New returns a cron logger on a child of the global logger.
func New() Logger {
	return Logger{log: log.With().Str("component", "cron").Logger()}
}

// With returns a cron logger writing to l.
func With(l zerolog.Logger) Logger {
	return Logger{log: l}
}

// Info implements cron.Logger.
func (l Logger) Info(msg string, keysAndValues ...any) {
	fields(l.log.Debug(), keysAndValues).Msg(msg)
}

// Error implements cron.Logger.
func (l Logger) Error(err error, msg string, keysAndValues ...any) {
	fields(l.log.Error().Err(err), keysAndValues).Msg(msg)
}

func fields(ev *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])

		if i+1 == len(keysAndValues) {
			ev = ev.Interface(key, nil)
			break
		}

		ev = ev.Interface(key, keysAndValues[i+1])
	}

	return ev
}
