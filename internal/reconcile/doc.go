// Package reconcile keeps the local identity store, the on-prem directory and the cloud
// identity provider in line with the HR feed.
//
// A pass loads one source, updates the local identities from it and, for the HR pass,
// diffs every identity against the cached snapshot of the directory that owns its account.
// Each mismatch becomes one Change: an on-prem directive for synchronised accounts or a
// cloud API call for cloud-only accounts. Changes are applied independently and a failure
// is logged and reported to the operators; the next run re-detects whatever did not stick.
//
// Employees without an identity may be provisioned in the cloud when the gate allows it.
package reconcile
