package daemon

import "errors"

var (
	// ErrConfigNil is returned when the daemon is built without a configuration.
	ErrConfigNil = errors.New("config is nil")

	// ErrUnknownPass is returned for a pass name the scheduler does not know.
	ErrUnknownPass = errors.New("unknown sync pass")
)
