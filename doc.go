// Package main provides the entry point of identity-sync.
// It reconciles the HR job feed with the on-premise directory and the cloud
// identity provider. The passes run once from the command line
// (identity-sync sync all) or on a cron schedule (identity-sync start) next to a
// small status endpoint serving /checkalive, /metrics and /status.
package main
