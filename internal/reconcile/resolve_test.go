package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/onprem"
)

var resolveToday = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func onPremIdentity() *models.DepartmentUser {
	dirSync := true

	return &models.DepartmentUser{
		ID:             1,
		Active:         true,
		Email:          "john.smith@example.com",
		Name:           "John Smith",
		GivenName:      "John",
		Surname:        "Smith",
		Title:          "Ranger",
		EmployeeID:     models.Ptr("100"),
		ADGUID:         models.Ptr("ad-1"),
		DirSyncEnabled: &dirSync,
		ADData: &onprem.User{
			ObjectGUID:  "ad-1",
			DisplayName: "John Smith",
			GivenName:   "John",
			Surname:     "Smith",
			Title:       "Ranger",
			EmployeeID:  "100",
			Enabled:     true,
		},
		AscenderData: &ascender.Job{EmployeeID: "100"},
	}
}

func cloudIdentity() *models.DepartmentUser {
	dirSync := false

	return &models.DepartmentUser{
		ID:             2,
		Active:         true,
		Email:          "jane.doe@example.com",
		Name:           "Jane Doe",
		GivenName:      "Jane",
		Surname:        "Doe",
		Title:          "Ranger",
		EmployeeID:     models.Ptr("200"),
		AzureGUID:      models.Ptr("az-2"),
		DirSyncEnabled: &dirSync,
		AzureADData: &graph.User{
			ObjectID:       "az-2",
			Mail:           "jane.doe@example.com",
			DisplayName:    "Jane Doe",
			GivenName:      "Jane",
			Surname:        "Doe",
			JobTitle:       "Ranger",
			EmployeeID:     "200",
			AccountEnabled: true,
		},
		AscenderData: &ascender.Job{EmployeeID: "200"},
	}
}

func resolve(u *models.DepartmentUser, deactivate bool) []Change {
	return Resolve(Input{User: u, Today: resolveToday, Location: time.UTC, DeactivateExpired: deactivate})
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

type directive struct {
	Field    string
	Property string
	Value    any
}

func directives(changes []Change) []directive {
	out := make([]directive, 0, len(changes))
	for _, c := range changes {
		out = append(out, directive{Field: c.Field, Property: c.Property, Value: c.Value})
	}

	return out
}

func TestTargetOf(t *testing.T) {
	testCases := []struct {
		name   string
		user   func() *models.DepartmentUser
		expect Target
	}{
		{name: "dir synced", user: onPremIdentity, expect: TargetOnPrem},
		{name: "cloud only", user: cloudIdentity, expect: TargetCloud},
		{
			name: "dir synced without snapshot",
			user: func() *models.DepartmentUser {
				u := onPremIdentity()
				u.ADData = nil

				return u
			},
			expect: TargetNone,
		},
		{
			name: "cloud without link",
			user: func() *models.DepartmentUser {
				u := cloudIdentity()
				u.AzureGUID = nil

				return u
			},
			expect: TargetNone,
		},
		{
			name: "unknown sync state",
			user: func() *models.DepartmentUser {
				u := cloudIdentity()
				u.DirSyncEnabled = nil

				return u
			},
			expect: TargetCloud,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, TargetOf(tc.user()))
		})
	}
}

func TestResolveOnPrem(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(u *models.DepartmentUser)
		deactivate bool
		expect     []directive
	}{
		{
			name:   "in sync",
			mutate: func(*models.DepartmentUser) {},
			expect: []directive{},
		},
		{
			name: "preferred name replaces given name",
			mutate: func(u *models.DepartmentUser) {
				u.GivenName = "Jonathan"
				u.Name = "Jonathan Smith"
			},
			expect: []directive{
				{Field: "name", Property: "DisplayName", Value: "Jonathan Smith"},
				{Field: "given_name", Property: "GivenName", Value: "Jonathan"},
			},
		},
		{
			name:   "empty HR value is not pushed",
			mutate: func(u *models.DepartmentUser) { u.Title = "" },
			expect: []directive{},
		},
		{
			name: "cost centre and division",
			mutate: func(u *models.DepartmentUser) {
				u.SetCostCentre(&models.CostCentre{ID: 5, Code: "CBS-123", DivisionName: "CBS"})
			},
			expect: []directive{
				{Field: "cost_centre", Property: "Company", Value: "CBS-123"},
				{Field: "division", Property: "Department", Value: "DBCA Corporate and Business Services"},
			},
		},
		{
			name:   "local telephone pushed",
			mutate: func(u *models.DepartmentUser) { u.Telephone = "08 9219 9000" },
			expect: []directive{{Field: "telephone", Property: "telephoneNumber", Value: "08 9219 9000"}},
		},
		{
			name:   "local telephone cleared",
			mutate: func(u *models.DepartmentUser) { u.ADData.TelephoneNumber = "08 9219 9000" },
			expect: []directive{{Field: "telephone", Property: "telephoneNumber", Value: ""}},
		},
		{
			name:   "blank directory value equals empty",
			mutate: func(u *models.DepartmentUser) { u.ADData.Mobile = " " },
			expect: []directive{},
		},
		{
			name: "expiry already a day after the end date",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.JobEndDate = "2024-03-15"
				u.ADData.AccountExpirationDate = ptrTime(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
			},
			expect: []directive{},
		},
		{
			name:   "expiry set from end date",
			mutate: func(u *models.DepartmentUser) { u.AscenderData.JobEndDate = "2024-03-15" },
			expect: []directive{{Field: "expiry", Property: "AccountExpirationDate", Value: "03/16/2024"}},
		},
		{
			name: "expiry crosses month end",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.JobEndDate = "2024-04-30"
				u.ADData.AccountExpirationDate = ptrTime(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
			},
			expect: []directive{{Field: "expiry", Property: "AccountExpirationDate", Value: "05/01/2024"}},
		},
		{
			name: "expiry cleared without end date",
			mutate: func(u *models.DepartmentUser) {
				u.ADData.AccountExpirationDate = ptrTime(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC))
			},
			expect: []directive{{Field: "expiry", Property: "AccountExpirationDate", Value: nil}},
		},
		{
			name: "manager set by guid",
			mutate: func(u *models.DepartmentUser) {
				u.SetManager(&models.DepartmentUser{
					ID: 9, ADGUID: models.Ptr("ad-9"),
					ADData: &onprem.User{DistinguishedName: "CN=Big Boss,OU=Users"},
				})
			},
			expect: []directive{{Field: "manager", Property: "Manager", Value: "ad-9"}},
		},
		{
			name: "manager matched by dn",
			mutate: func(u *models.DepartmentUser) {
				u.SetManager(&models.DepartmentUser{
					ID: 9, ADGUID: models.Ptr("ad-9"),
					ADData: &onprem.User{DistinguishedName: "CN=Big Boss,OU=Users"},
				})
				u.ADData.Manager = "cn=big boss,ou=users"
			},
			expect: []directive{},
		},
		{
			name: "manager without on-prem account",
			mutate: func(u *models.DepartmentUser) {
				u.SetManager(&models.DepartmentUser{ID: 9, AzureGUID: models.Ptr("az-9")})
			},
			expect: []directive{},
		},
		{
			name:   "manager cleared",
			mutate: func(u *models.DepartmentUser) { u.ADData.Manager = "CN=Old Boss,OU=Users" },
			expect: []directive{{Field: "manager", Property: "Manager", Value: nil}},
		},
		{
			name: "location from HR",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.GeoLocationDesc = "KENSINGTON"
				u.SetLocation(&models.Location{ID: 3, Name: "Kensington", Address: "17 Dick Perry Avenue"})
			},
			expect: []directive{
				{Field: "location", Property: "physicalDeliveryOfficeName", Value: "Kensington"},
				{Field: "location", Property: "streetAddress", Value: "17 Dick Perry Avenue"},
			},
		},
		{
			name: "location address moved",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.GeoLocationDesc = "KENSINGTON"
				u.SetLocation(&models.Location{ID: 3, Name: "Kensington", Address: "1 Australia II Drive"})
				u.ADData.PhysicalDeliveryOfficeName = "Kensington"
				u.ADData.StreetAddress = "17 Dick Perry Avenue"
			},
			expect: []directive{{Field: "location", Property: "streetAddress", Value: "1 Australia II Drive"}},
		},
		{
			name: "location unchanged",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.GeoLocationDesc = "KENSINGTON"
				u.SetLocation(&models.Location{ID: 3, Name: "Kensington", Address: "17 Dick Perry Avenue"})
				u.ADData.PhysicalDeliveryOfficeName = "Kensington"
				u.ADData.StreetAddress = "17 Dick Perry Avenue"
			},
			expect: []directive{},
		},
		{
			name: "location not in HR",
			mutate: func(u *models.DepartmentUser) {
				u.SetLocation(&models.Location{ID: 3, Name: "Kensington"})
			},
			expect: []directive{},
		},
		{
			name:       "ended job deactivates",
			deactivate: true,
			mutate:     func(u *models.DepartmentUser) { u.AscenderData.JobEndDate = "2024-03-01" },
			expect: []directive{
				{Field: "active", Property: "Enabled", Value: false},
				{Field: "expiry", Property: "AccountExpirationDate", Value: "03/02/2024"},
			},
		},
		{
			name:   "ended job kept enabled without deactivation",
			mutate: func(u *models.DepartmentUser) { u.AscenderData.JobEndDate = "2024-03-01" },
			expect: []directive{{Field: "expiry", Property: "AccountExpirationDate", Value: "03/02/2024"}},
		},
		{
			name:       "job ending today stays enabled",
			deactivate: true,
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.JobEndDate = "2024-03-10"
				u.ADData.AccountExpirationDate = ptrTime(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
			},
			expect: []directive{},
		},
		{
			name:       "already disabled",
			deactivate: true,
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.JobEndDate = "2024-03-01"
				u.ADData.Enabled = false
				u.ADData.AccountExpirationDate = ptrTime(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
			},
			expect: []directive{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := onPremIdentity()
			tc.mutate(u)

			changes := resolve(u, tc.deactivate)
			assert.Equal(t, tc.expect, directives(changes))

			for _, c := range changes {
				assert.Equal(t, TargetOnPrem, c.Target)
			}
		})
	}
}

func TestResolveDeactivationAudit(t *testing.T) {
	u := onPremIdentity()
	u.AscenderData.JobEndDate = "2024-03-01"

	changes := resolve(u, true)
	require.NotEmpty(t, changes)
	require.NotNil(t, changes[0].Audit)

	assert.Equal(t, models.LogEntry{
		Field:       "job_end_date",
		OldValue:    "2024-03-01",
		NewValue:    nil,
		Description: "Deactivate onprem AD account",
	}, *changes[0].Audit)
	assert.Equal(t, FromHR, changes[0].Direction)
}

func TestResolveCloud(t *testing.T) {
	testCases := []struct {
		name       string
		mutate     func(u *models.DepartmentUser)
		deactivate bool
		expect     []Change
	}{
		{
			name:   "in sync",
			mutate: func(*models.DepartmentUser) {},
		},
		{
			name: "names",
			mutate: func(u *models.DepartmentUser) {
				u.GivenName = "Janet"
				u.Name = "Janet Doe"
			},
			expect: []Change{
				{Field: "name", Property: "displayName", Patch: map[string]any{"displayName": "Janet Doe"}},
				{Field: "given_name", Property: "givenName", Patch: map[string]any{"givenName": "Janet"}},
			},
		},
		{
			name:   "telephone",
			mutate: func(u *models.DepartmentUser) { u.Telephone = "08 9219 9000" },
			expect: []Change{{
				Field: "telephone", Direction: FromLocal, Property: "businessPhones",
				Patch: map[string]any{"businessPhones": []string{"08 9219 9000"}},
			}},
		},
		{
			name:   "telephone cleared",
			mutate: func(u *models.DepartmentUser) { u.AzureADData.TelephoneNumber = "08 9219 9000" },
			expect: []Change{{
				Field: "telephone", Direction: FromLocal, Property: "businessPhones",
				Patch: map[string]any{"businessPhones": []string{" "}},
			}},
		},
		{
			name:   "mobile",
			mutate: func(u *models.DepartmentUser) { u.MobilePhone = "0400 000 000" },
			expect: []Change{{
				Field: "mobile_phone", Direction: FromLocal, Property: "mobilePhone",
				Patch: map[string]any{"mobilePhone": "0400 000 000"},
			}},
		},
		{
			name: "manager",
			mutate: func(u *models.DepartmentUser) {
				u.SetManager(&models.DepartmentUser{ID: 9, Email: "boss@example.com", AzureGUID: models.Ptr("az-9")})
			},
			expect: []Change{{Field: "manager", Property: "manager", Manager: "az-9"}},
		},
		{
			name: "manager already set",
			mutate: func(u *models.DepartmentUser) {
				u.SetManager(&models.DepartmentUser{ID: 9, AzureGUID: models.Ptr("AZ-9")})
				u.AzureADData.Manager = &graph.Manager{ID: "az-9"}
			},
		},
		{
			name: "location",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.GeoLocationDesc = "KENSINGTON"
				u.SetLocation(&models.Location{ID: 3, Name: "Kensington", Address: "17 Dick Perry Avenue"})
			},
			expect: []Change{{
				Field: "location", Property: "officeLocation",
				Patch: map[string]any{"officeLocation": "Kensington", "streetAddress": "17 Dick Perry Avenue"},
			}},
		},
		{
			name: "location address moved",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.GeoLocationDesc = "KENSINGTON"
				u.SetLocation(&models.Location{ID: 3, Name: "Kensington", Address: "1 Australia II Drive"})
				u.AzureADData.OfficeLocation = "Kensington"
				u.AzureADData.StreetAddress = "17 Dick Perry Avenue"
			},
			expect: []Change{{
				Field: "location", Property: "officeLocation",
				Patch: map[string]any{"officeLocation": "Kensington", "streetAddress": "1 Australia II Drive"},
			}},
		},
		{
			name: "location unchanged",
			mutate: func(u *models.DepartmentUser) {
				u.AscenderData.GeoLocationDesc = "KENSINGTON"
				u.SetLocation(&models.Location{ID: 3, Name: "Kensington", Address: "17 Dick Perry Avenue"})
				u.AzureADData.OfficeLocation = "Kensington"
				u.AzureADData.StreetAddress = "17 Dick Perry Avenue"
			},
		},
		{
			name:   "end date does not set expiry",
			mutate: func(u *models.DepartmentUser) { u.AscenderData.JobEndDate = "2030-01-01" },
		},
		{
			name:       "ended job deactivates",
			deactivate: true,
			mutate:     func(u *models.DepartmentUser) { u.AscenderData.JobEndDate = "2024-03-01" },
			expect: []Change{{
				Field: "active", Property: "accountEnabled",
				Patch: map[string]any{"accountEnabled": false},
				Audit: &models.LogEntry{
					Field: "job_end_date", OldValue: "2024-03-01", Description: "Deactivate cloud AD account",
				},
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := cloudIdentity()
			tc.mutate(u)

			changes := resolve(u, tc.deactivate)
			for i := range changes {
				assert.Equal(t, TargetCloud, changes[i].Target)
				assert.NotNil(t, changes[i].commit)
				changes[i].commit = nil
			}

			for i := range tc.expect {
				tc.expect[i].Target = TargetCloud
			}

			assert.Equal(t, tc.expect, changes)
		})
	}
}

func TestResolveUnlinkedIdentity(t *testing.T) {
	u := onPremIdentity()
	u.ADData = nil
	u.GivenName = "Jonathan"

	assert.Empty(t, resolve(u, true))
}

func TestResolveConvergesAfterCommit(t *testing.T) {
	testCases := []struct {
		name string
		user func() *models.DepartmentUser
	}{
		{name: "onprem", user: onPremIdentity},
		{name: "cloud", user: cloudIdentity},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user()
			u.GivenName = "Pat"
			u.Name = "Pat Smith"
			u.Telephone = "08 9219 9000"
			u.AscenderData.JobEndDate = "2024-03-01"
			u.AscenderData.GeoLocationDesc = "KENSINGTON"
			u.SetLocation(&models.Location{ID: 3, Name: "Kensington", Address: "17 Dick Perry Avenue"})
			u.SetCostCentre(&models.CostCentre{ID: 5, Code: "CBS-123", DivisionName: "CBS"})
			u.SetManager(&models.DepartmentUser{
				ID: 9, ADGUID: models.Ptr("ad-9"), AzureGUID: models.Ptr("az-9"),
				ADData: &onprem.User{DistinguishedName: "CN=Big Boss,OU=Users"},
			})

			changes := resolve(u, true)
			require.NotEmpty(t, changes)

			for _, c := range changes {
				c.commit(u)
			}

			assert.Empty(t, resolve(u, true))
		})
	}
}
