package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/config"
	"github.com/itassets/identity-sync/internal/db"
	"github.com/itassets/identity-sync/internal/db/controller/directory"
	"github.com/itassets/identity-sync/internal/db/dsn"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/notify"
	"github.com/itassets/identity-sync/internal/onprem"
	"github.com/itassets/identity-sync/internal/reconcile"
)

// Runtime holds the opened collaborators of the sync service.
type Runtime struct {
	Store   *directory.Store
	Service *reconcile.Service

	closers []func()
}

// Open connects every configured collaborator and builds the sync service.
// Sections left unconfigured leave their pass without a source.
func Open(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	gdb, err := db.Open(&cfg.DB)
	if err != nil {
		return nil, errors.Wrap(err, "local database")
	}

	store, err := directory.New(gdb)
	if err != nil {
		return nil, errors.Wrap(err, "identity store")
	}

	rt := &Runtime{Store: store}
	deps := reconcile.Deps{Store: store}

	if cfg.Ascender.Host != "" {
		feed, errFeed := ascender.Connect(ctx, cfg.Ascender)
		if errFeed != nil {
			rt.Close()
			return nil, errors.Wrap(errFeed, "HR feed")
		}

		rt.closers = append(rt.closers, feed.Close)
		deps.HR = feed

		if cfg.Ascender.CCManagerTable != "" {
			deps.CCManagers = feed
		}
	} else {
		log.Warn().Msg("ascender section not configured, HR passes disabled")
	}

	if cfg.Graph.TenantID != "" {
		client, errGraph := graph.New(ctx, cfg.Graph)
		if errGraph != nil {
			rt.Close()
			return nil, errors.Wrap(errGraph, "graph client")
		}

		deps.Cloud = client
	} else {
		log.Warn().Msg("graph section not configured, cloud pass and provisioning disabled")
	}

	if cfg.OnPrem.LDAP.Enabled {
		dir, errDir := onprem.NewDirectory(&cfg.OnPrem.LDAP)
		if errDir != nil {
			rt.Close()
			return nil, errors.Wrap(errDir, "ldap directory")
		}

		deps.OnPrem = dir
	}

	queue, err := onprem.NewQueue(ctx, queueConfig(cfg))
	if err != nil {
		rt.Close()
		return nil, errors.Wrap(err, "directive queue")
	}

	rt.closers = append(rt.closers, func() {
		if errClose := queue.Close(); errClose != nil {
			log.Error().Err(errClose).Msg("failed to close directive queue")
		}
	})
	deps.Queue = queue

	sink, err := notify.New(cfg.Notify)
	if err != nil {
		rt.Close()
		return nil, errors.Wrap(err, "notifications")
	}

	deps.Notifier = sink

	rt.Service, err = reconcile.New(cfg.Sync, deps)
	if err != nil {
		rt.Close()
		return nil, errors.Wrap(err, "sync service")
	}

	return rt, nil
}

// Close releases the collaborators in reverse order.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}

	rt.closers = nil
}

// queueConfig lets a sql queue backend default to the local database.
func queueConfig(cfg *config.Config) onprem.QueueConfig {
	q := cfg.OnPrem.Queue

	if q.ConnectionURI == "" && q.Backend == cfg.DB.GormEngine &&
		(q.Backend == onprem.BackendMySQL || q.Backend == onprem.BackendPostgres) {
		q.ConnectionURI = dsn.URI(&cfg.DB)
	}

	return q
}
