package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrTenantIDEmpty is returned when no tenant is configured.
	ErrTenantIDEmpty = errors.New("graph tenant id is empty")

	// ErrClientCredentialsEmpty is returned when client id or secret is missing.
	ErrClientCredentialsEmpty = errors.New("graph client id or secret is empty")

	// ErrSKUNotFound is returned when the tenant has no subscription for a SKU.
	ErrSKUNotFound = errors.New("subscribed sku not found")

	// ErrEmptyID is returned when a create call answers without an object id.
	ErrEmptyID = errors.New("graph returned no object id")
)

// APIError carries the full request and response context of a failed call.
type APIError struct {
	Method      string
	URL         string
	Status      int
	Body        string
	RequestBody string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graph %s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// Temporary reports whether the failure is worth retrying on a later run.
func (e *APIError) Temporary() bool {
	return e.Status >= 500 || e.Status == 429
}
