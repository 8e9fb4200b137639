package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("toml config log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("toml config log.ServiceName can not be empty")

	// ErrUnknownLogLevel is returned for a log.LogLevel zerolog does not know.
	ErrUnknownLogLevel = errors.New("toml config log.LogLevel is not supported")
)

// ErrorHandler reports lines zerolog could not write. It must not log itself.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "identity-sync: could not write log line: %v\n", err)
}
