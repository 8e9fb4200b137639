package config

import (
	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/logger"
	"github.com/itassets/identity-sync/internal/notify"
	"github.com/itassets/identity-sync/internal/onprem"
	"github.com/itassets/identity-sync/internal/reconcile"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Ascender  ascender.Config
	Graph     graph.Config
	OnPrem    OnPrem
	Sync      reconcile.Options
	Notify    notify.Config
	Schedule  Schedule
	Webserver Webserver
}

// OnPrem groups the on-premise directory settings.
type OnPrem struct {
	LDAP  onprem.LDAPConfig
	Queue onprem.QueueConfig
}

// Schedule holds the cron expressions for each sync pass.
// An empty expression disables the pass in the daemon.
type Schedule struct {
	TimeZone   string // e.g. Australia/Perth
	Ascender   string // HR import, directory diff and provisioning
	Cloud      string // cloud identity provider accounts
	OnPrem     string // on-premise directory snapshot
	CCManagers string // cost centre managers
}

// Webserver implements the status endpoint settings.
type Webserver struct {
	Enabled      bool   // serve /checkalive and /metrics
	Host         string // listening address
	Port         int    // listening port
	ShutDownTime int    // wait time for shutdown in seconds
}
