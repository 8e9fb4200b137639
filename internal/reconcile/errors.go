package reconcile

import "errors"

var (
	// ErrStoreNil is returned by New without a store.
	ErrStoreNil = errors.New("reconcile: store is nil")
	// ErrSourceMissing is returned when a pass runs without its source.
	ErrSourceMissing = errors.New("reconcile: source for pass not configured")
	// ErrEmptyCloudListing aborts the cloud pass when the provider returns no accounts.
	ErrEmptyCloudListing = errors.New("reconcile: cloud provider returned no accounts")
	// ErrLicenceExhausted is returned when a licence has no units left.
	ErrLicenceExhausted = errors.New("no licences available")
	// ErrNoEmail is returned when every email candidate is taken.
	ErrNoEmail = errors.New("no unique email address available")
	// ErrNoCostCentre is returned when a job has no paypoint.
	ErrNoCostCentre = errors.New("HR record has no cost centre")
	// ErrInvalidName is returned when a job lacks the names needed to build an account.
	ErrInvalidName = errors.New("invalid name values")
)
