package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if the status endpoint is enabled without a port.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmailDomainEmpty error if sync.emailDomain is not set.
	ErrEmailDomainEmpty = errors.New("toml config sync.emailDomain can not be empty")

	// ErrUnknownTimeZone error if a configured time zone can not be loaded.
	ErrUnknownTimeZone = errors.New("toml config time zone is unknown")
)
