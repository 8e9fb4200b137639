package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCostCentreManagers(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	manager := env.seedManager(t)
	env.seedReference(t)

	rows := fakeCCManagers{
		{Paypoint: "123", EmployeeID: "900"},
		{Paypoint: "404", EmployeeID: "900"},
		{Paypoint: "123", EmployeeID: "404"},
	}

	svc := env.service(t, Options{}, func(d *Deps) { d.CCManagers = rows })

	sum, err := svc.RunCostCentreManagers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Records)
	assert.Equal(t, 1, sum.Updated)
	assert.Equal(t, 2, sum.Skipped)

	cc, err := env.store.CostCentreByAscenderCode(ctx, "123")
	require.NoError(t, err)
	require.NotNil(t, cc.ManagerUserID)
	assert.Equal(t, manager.ID, *cc.ManagerUserID)
	require.NotNil(t, cc.Manager)
	assert.Equal(t, "boss@example.com", cc.Manager.Email)

	sum, err = svc.RunCostCentreManagers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Updated)
}

func TestRunCostCentreManagersDryRun(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	env.seedManager(t)
	env.seedReference(t)

	svc := env.service(t, Options{DryRun: true}, func(d *Deps) {
		d.CCManagers = fakeCCManagers{{Paypoint: "123", EmployeeID: "900"}}
	})

	sum, err := svc.RunCostCentreManagers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)

	cc, err := env.store.CostCentreByAscenderCode(ctx, "123")
	require.NoError(t, err)
	assert.Nil(t, cc.ManagerUserID)
}

func TestRunCostCentreManagersWithoutSource(t *testing.T) {
	env := newEnv(t)

	_, err := env.service(t, Options{}).RunCostCentreManagers(context.Background())
	assert.ErrorIs(t, err, ErrSourceMissing)
}
