package onprem

import "errors"

var (
	// ErrLDAPDisabled is returned when the LDAP snapshot source is disabled via configuration.
	ErrLDAPDisabled = errors.New("ldap directory source is disabled")

	// ErrInvalidGUID is returned for objectGUID values that are not 16 bytes long.
	ErrInvalidGUID = errors.New("objectGUID must be 16 bytes")

	// ErrUnknownQueueBackend is returned for an unsupported directive queue backend.
	ErrUnknownQueueBackend = errors.New("unknown directive queue backend")

	// ErrDirectiveIncomplete is returned for directives without a target or property.
	ErrDirectiveIncomplete = errors.New("directive needs an identity and a property")
)
