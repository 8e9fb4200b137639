package daemon

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itassets/identity-sync/internal/config"
	"github.com/itassets/identity-sync/internal/onprem"
	"github.com/itassets/identity-sync/internal/reconcile"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Title: "identity-sync",
		DB: config.DB{
			GormEngine: config.EngineSQLite,
			Name:       filepath.Join(t.TempDir(), "sync.db"),
			LogLevel:   "silent",
		},
		Sync: reconcile.Options{EmailDomain: "example.com"},
	}
}

func TestOpenWithoutSources(t *testing.T) {
	ctx := context.Background()

	rt, err := Open(ctx, sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	require.NotNil(t, rt.Service)
	assert.Equal(t, "example.com", rt.Service.Options().EmailDomain)

	sums, err := rt.Service.RunAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, sums)

	_, err = rt.Service.RunAscender(ctx)
	assert.ErrorIs(t, err, reconcile.ErrSourceMissing)
}

func TestOpenNilConfig(t *testing.T) {
	_, err := Open(context.Background(), nil)
	assert.ErrorIs(t, err, ErrConfigNil)
}

func TestNewDaemon(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Schedule = config.Schedule{Cloud: "@hourly"}
	cfg.Webserver = config.Webserver{Enabled: true, Host: "127.0.0.1", Port: 0}

	d, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(d.rt.Close)

	assert.Len(t, d.cron.Entries(), 1)
	assert.NotNil(t, d.app)
	assert.False(t, d.alive.Load())
}

func TestQueueConfig(t *testing.T) {
	tests := []struct {
		name    string
		engine  string
		queue   onprem.QueueConfig
		wantURI string
	}{
		{
			name:    "postgres queue on the local postgres database",
			engine:  config.EnginePostgres,
			queue:   onprem.QueueConfig{Backend: onprem.BackendPostgres},
			wantURI: "postgres://sync:secret@db:5432/identity",
		},
		{
			name:    "explicit uri wins",
			engine:  config.EnginePostgres,
			queue:   onprem.QueueConfig{Backend: onprem.BackendPostgres, ConnectionURI: "postgres://other/q"},
			wantURI: "postgres://other/q",
		},
		{
			name:   "engine mismatch",
			engine: config.EngineMySQL,
			queue:  onprem.QueueConfig{Backend: onprem.BackendPostgres},
		},
		{
			name:   "redis backend",
			engine: config.EnginePostgres,
			queue:  onprem.QueueConfig{Backend: onprem.BackendRedis},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				DB: config.DB{
					GormEngine: tt.engine, Host: "db", Port: 5432, User: "sync", Password: "secret", Name: "identity",
				},
				OnPrem: config.OnPrem{Queue: tt.queue},
			}

			assert.Equal(t, tt.wantURI, queueConfig(cfg).ConnectionURI)
		})
	}
}
