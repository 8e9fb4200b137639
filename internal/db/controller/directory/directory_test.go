package directory

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/itassets/identity-sync/internal/db"
	"github.com/itassets/identity-sync/internal/db/controller/setting"
	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/onprem"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb), "failed to migrate test database")

	return gdb
}

func setupStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(setupTestDB(t))
	require.NoError(t, err)

	return s
}

func TestNewNilDB(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	cc := &models.CostCentre{Code: "CBS-001", DivisionName: "CBS", AscenderCode: models.Ptr("001"), Active: true}
	require.NoError(t, s.CreateCostCentre(ctx, cc))

	loc := &models.Location{Name: "Kensington", AscenderDesc: models.Ptr("KENSINGTON")}
	require.NoError(t, s.CreateLocation(ctx, loc))

	manager := &models.DepartmentUser{Email: "Boss@Example.com", Name: "The Boss", AzureGUID: models.Ptr("m-guid")}
	require.NoError(t, s.SaveUser(ctx, manager))
	assert.Equal(t, "boss@example.com", manager.Email)

	u := &models.DepartmentUser{
		Email:      "jane.doe@example.com",
		Name:       "Jane Doe",
		EmployeeID: models.Ptr("100"),
		ADGUID:     models.Ptr("ad-guid"),
		AzureGUID:  models.Ptr("az-guid"),
		ADData:     &onprem.User{ObjectGUID: "ad-guid", GivenName: "Jane", Enabled: true},
		AzureADData: &graph.User{
			ObjectID: "az-guid", Mail: "jane.doe@example.com", ProxyAddresses: []string{"jane.doe@example.com"},
		},
	}
	u.SetCostCentre(cc)
	u.SetLocation(loc)
	u.SetManager(manager)
	require.NoError(t, s.SaveUser(ctx, u))

	testCases := []struct {
		name   string
		lookup func() (*models.DepartmentUser, error)
	}{
		{"by id", func() (*models.DepartmentUser, error) { return s.UserByID(ctx, u.ID) }},
		{"by employee id", func() (*models.DepartmentUser, error) { return s.UserByEmployeeID(ctx, "100") }},
		{"by email", func() (*models.DepartmentUser, error) { return s.UserByEmail(ctx, " Jane.Doe@example.com") }},
		{"by cloud guid", func() (*models.DepartmentUser, error) { return s.UserByAzureGUID(ctx, "az-guid") }},
		{"by on-prem guid", func() (*models.DepartmentUser, error) { return s.UserByADGUID(ctx, "ad-guid") }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.lookup()
			require.NoError(t, err)
			assert.Equal(t, u.ID, got.ID)
			require.NotNil(t, got.CostCentre)
			assert.Equal(t, "CBS-001", got.CostCentre.Code)
			require.NotNil(t, got.Location)
			assert.Equal(t, "Kensington", got.Location.Name)
			require.NotNil(t, got.Manager)
			assert.Equal(t, "m-guid", got.Manager.AzureObjectID())
			require.NotNil(t, got.ADData)
			assert.Equal(t, "Jane", got.ADData.GivenName)
			require.NotNil(t, got.AzureADData)
			assert.Equal(t, []string{"jane.doe@example.com"}, got.AzureADData.ProxyAddresses)
		})
	}

	missing := []func() (*models.DepartmentUser, error){
		func() (*models.DepartmentUser, error) { return s.UserByEmployeeID(ctx, "") },
		func() (*models.DepartmentUser, error) { return s.UserByEmployeeID(ctx, "999") },
		func() (*models.DepartmentUser, error) { return s.UserByEmail(ctx, "") },
		func() (*models.DepartmentUser, error) { return s.UserByAzureGUID(ctx, "nope") },
		func() (*models.DepartmentUser, error) { return s.UserByADGUID(ctx, "") },
		func() (*models.DepartmentUser, error) { return s.UserByID(ctx, 4242) },
	}
	for _, fn := range missing {
		_, err := fn()
		assert.ErrorIs(t, err, models.ErrNotFound)
	}

	users, err := s.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, manager.ID, users[0].ID)

	exists, err := s.EmailExists(ctx, "JANE.DOE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.EmailExists(ctx, "john.doe@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveUserClearsLinks(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	cc := &models.CostCentre{Code: "PWS-1", Active: true}
	require.NoError(t, s.CreateCostCentre(ctx, cc))

	u := &models.DepartmentUser{Email: "a@example.com", AzureGUID: models.Ptr("g")}
	u.SetCostCentre(cc)
	require.NoError(t, s.SaveUser(ctx, u))

	u.SetCostCentre(nil)
	u.AzureGUID = nil
	require.NoError(t, s.SaveUser(ctx, u))

	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CostCentre)
	assert.Nil(t, got.AzureGUID)
}

func TestReferenceData(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	manager := &models.DepartmentUser{Email: "m@example.com"}
	require.NoError(t, s.SaveUser(ctx, manager))

	cc := &models.CostCentre{Code: "BCS-9", AscenderCode: models.Ptr("009"), Active: true}
	require.NoError(t, s.CreateCostCentre(ctx, cc))

	cc.ManagerUserID = &manager.ID
	require.NoError(t, s.SaveCostCentre(ctx, cc))

	// A report of the manager has manager_id equal to the cost centre ID.
	require.Equal(t, manager.ID, cc.ID)
	require.NoError(t, s.SaveUser(ctx, &models.DepartmentUser{Email: "report@example.com", ManagerID: &manager.ID}))

	got, err := s.CostCentreByAscenderCode(ctx, "009")
	require.NoError(t, err)
	require.NotNil(t, got.Manager)
	assert.Equal(t, "m@example.com", got.Manager.Email)

	got, err = s.CostCentreByCode(ctx, "BCS-9")
	require.NoError(t, err)
	assert.Equal(t, cc.ID, got.ID)

	_, err = s.CostCentreByCode(ctx, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.CostCentreByAscenderCode(ctx, "123")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, s.CreateLocation(ctx, &models.Location{Name: "Bunbury", AscenderDesc: models.Ptr("BUNBURY")}))

	loc, err := s.LocationByAscenderDesc(ctx, "BUNBURY")
	require.NoError(t, err)
	assert.Equal(t, "Bunbury", loc.Name)

	loc, err = s.LocationByName(ctx, "Bunbury")
	require.NoError(t, err)
	assert.Equal(t, "BUNBURY", *loc.AscenderDesc)

	_, err = s.LocationByName(ctx, "Albany")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, s.db.Create(&models.OrgUnit{Name: "Fire Management", Active: true}).Error)
	require.NoError(t, s.db.Create(&models.OrgUnit{Name: "Old Branch"}).Error)

	ou, err := s.OrgUnitByName(ctx, "Fire Management")
	require.NoError(t, err)
	assert.True(t, ou.Active)

	_, err = s.OrgUnitByName(ctx, "Old Branch")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAppendLog(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	u := &models.DepartmentUser{Email: "a@example.com"}
	require.NoError(t, s.SaveUser(ctx, u))

	require.NoError(t, s.AppendLog(ctx, u.ID, models.LogEntry{
		Field: "given_name", OldValue: "Jon", NewValue: "Jonathan", Description: "Set given_name value from Ascender",
	}))
	require.NoError(t, s.AppendLog(ctx, u.ID, models.LogEntry{Field: "active", OldValue: true, NewValue: false}))

	logs, err := s.Logs(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "given_name", logs[0].Log.Field)
	assert.Equal(t, "Jonathan", logs[0].Log.NewValue)
	assert.Equal(t, false, logs[1].Log.NewValue)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	type summary struct {
		Pass    string `json:"pass"`
		Updated int    `json:"updated"`
	}

	require.NoError(t, s.SaveSetting(ctx, "sync.summary.cloud", summary{Pass: "cloud", Updated: 3}))
	require.NoError(t, s.SaveSetting(ctx, "sync.summary.cloud", summary{Pass: "cloud", Updated: 4}))

	var got summary
	require.NoError(t, s.LoadSetting(ctx, "sync.summary.cloud", &got))
	assert.Equal(t, summary{Pass: "cloud", Updated: 4}, got)

	err := s.LoadSetting(ctx, "sync.summary.onprem", &got)
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
}
