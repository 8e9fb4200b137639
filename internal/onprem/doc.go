// Package onprem covers the on-premise Active Directory side of the sync.
//
// The directory itself is read over LDAP into per-account snapshots. Writes never go to
// the directory directly: every change is a Directive placed on a queue that an external
// applier consumes and executes.
package onprem
