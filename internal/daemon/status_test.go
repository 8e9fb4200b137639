package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itassets/identity-sync/internal/config"
	"github.com/itassets/identity-sync/internal/db/controller/setting"
	"github.com/itassets/identity-sync/internal/reconcile"
)

type fakeSummaries struct {
	stored map[string]reconcile.Summary
	err    error
}

func (f fakeSummaries) LoadSetting(_ context.Context, name string, v any) error {
	if f.err != nil {
		return f.err
	}

	sum, ok := f.stored[name]
	if !ok {
		return setting.ErrSettingNotFound
	}

	raw, err := json.Marshal(sum)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, v)
}

func newStatusApp(t *testing.T, alive bool, loader SummaryLoader) *fiber.App {
	t.Helper()

	var a atomic.Bool
	a.Store(alive)

	app, err := NewStatusApp(&config.Config{Title: "identity-sync"}, &a, loader)
	require.NoError(t, err)

	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestCheckAlive(t *testing.T) {
	tests := []struct {
		name   string
		alive  bool
		status int
		body   string
	}{
		{name: "alive", alive: true, status: fiber.StatusOK, body: "OK"},
		{name: "shutting down", alive: false, status: fiber.StatusServiceUnavailable, body: "shutting down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, newStatusApp(t, tt.alive, fakeSummaries{}), CheckAliveURI)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestMetrics(t *testing.T) {
	status, body := get(t, newStatusApp(t, true, fakeSummaries{}), MetricsURI)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")
}

func TestStatus(t *testing.T) {
	loader := fakeSummaries{stored: map[string]reconcile.Summary{
		reconcile.SummarySettingPrefix + reconcile.PassCloud: {Pass: reconcile.PassCloud, Records: 12, Linked: 2},
	}}

	status, body := get(t, newStatusApp(t, true, loader), StatusURI)
	require.Equal(t, fiber.StatusOK, status)

	var got map[string]reconcile.Summary
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 12, got[reconcile.PassCloud].Records)
	assert.Equal(t, 2, got[reconcile.PassCloud].Linked)
}

func TestStatusLoadFailure(t *testing.T) {
	status, _ := get(t, newStatusApp(t, true, fakeSummaries{err: errors.New("db gone")}), StatusURI)
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
