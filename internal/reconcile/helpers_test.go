package reconcile

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/db/controller/directory"
	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/notify"
	"github.com/itassets/identity-sync/internal/onprem"
)

// testNow is the fixed clock of every test service.
var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

// setupStore creates a store on a migrated in-memory SQLite database.
func setupStore(t *testing.T) *directory.Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(models.All()...), "failed to migrate test database")

	s, err := directory.New(gdb)
	require.NoError(t, err)

	return s
}

type cloudCall struct {
	Method string
	ID     string
	Arg    any
}

// fakeCloud records every call. failOn makes the named method fail.
type fakeCloud struct {
	mu       sync.Mutex
	users    []graph.User
	listErr  error
	skus     map[string]graph.SKUStatus
	skuReads map[string]int
	failOn   map[string]error
	calls    []cloudCall
	created  int
}

func newFakeCloud(users ...graph.User) *fakeCloud {
	return &fakeCloud{
		users:    users,
		skus:     map[string]graph.SKUStatus{},
		skuReads: map[string]int{},
		failOn:   map[string]error{},
	}
}

func (c *fakeCloud) record(method, id string, arg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, cloudCall{Method: method, ID: id, Arg: arg})

	return c.failOn[method]
}

func (c *fakeCloud) ListUsers(context.Context, string) ([]graph.User, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}

	return slices.Clone(c.users), nil
}

func (c *fakeCloud) CreateUser(_ context.Context, u graph.NewUser) (string, error) {
	if err := c.record("CreateUser", "", u); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.created++

	return fmt.Sprintf("new-guid-%d", c.created), nil
}

func (c *fakeCloud) UpdateUser(_ context.Context, id string, patch map[string]any) error {
	return c.record("UpdateUser", id, patch)
}

func (c *fakeCloud) SetManager(_ context.Context, id, managerID string) error {
	return c.record("SetManager", id, managerID)
}

func (c *fakeCloud) AssignLicences(_ context.Context, id string, licences []graph.Licence) error {
	return c.record("AssignLicences", id, licences)
}

func (c *fakeCloud) SKUStatus(_ context.Context, skuID string) (graph.SKUStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.skuReads[skuID]++

	st, ok := c.skus[skuID]
	if !ok {
		return graph.SKUStatus{}, graph.ErrSKUNotFound
	}

	return st, nil
}

// stock makes n units of every SKU available.
func (c *fakeCloud) stock(n int, skuIDs ...string) {
	for _, id := range skuIDs {
		c.skus[id] = graph.SKUStatus{SkuID: id, Enabled: n}
	}
}

func (c *fakeCloud) callsTo(method string) []cloudCall {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []cloudCall

	for _, call := range c.calls {
		if call.Method == method {
			out = append(out, call)
		}
	}

	return out
}

type fakeOnPrem map[string]onprem.User

func (f fakeOnPrem) Users(context.Context) (map[string]onprem.User, error) {
	return maps.Clone(f), nil
}

type fakeCCManagers []ascender.CostCentreManager

func (f fakeCCManagers) CostCentreManagers(context.Context) ([]ascender.CostCentreManager, error) {
	return f, nil
}

// testEnv bundles a service with the collaborators it writes to.
type testEnv struct {
	store *directory.Store
	cloud *fakeCloud
	queue *onprem.MemoryQueue
	sent  *notify.Recorder
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	return &testEnv{
		store: setupStore(t),
		cloud: newFakeCloud(),
		queue: onprem.NewMemoryQueue(),
		sent:  &notify.Recorder{},
	}
}

// service returns a Service on the environment. configure adds the pass sources.
func (e *testEnv) service(t *testing.T, opts Options, configure ...func(d *Deps)) *Service {
	t.Helper()

	if opts.EmailDomain == "" {
		opts.EmailDomain = "example.com"
	}

	if opts.TimeZone == "" {
		opts.TimeZone = "UTC"
	}

	deps := Deps{
		Store:    e.store,
		Cloud:    e.cloud,
		Queue:    e.queue,
		Notifier: notify.NewSink([]string{"admins@example.com"}, "servicedesk@example.com", e.sent),
		Now:      func() time.Time { return testNow },
	}

	for _, fn := range configure {
		fn(&deps)
	}

	s, err := New(opts, deps)
	require.NoError(t, err)

	return s
}

func (e *testEnv) seed(t *testing.T, u *models.DepartmentUser) *models.DepartmentUser {
	t.Helper()

	require.NoError(t, e.store.SaveUser(context.Background(), u))

	return u
}

// subjects lists the subjects of the recorded notifications.
func (e *testEnv) subjects() []string {
	var out []string

	for _, m := range e.sent.Messages() {
		out = append(out, m.Subject)
	}

	return out
}

// hrRow builds a raw feed row with the given columns set and everything else NULL.
func hrRow(set map[string]any) []any {
	values := make([]any, len(ascender.Columns))

	for i, c := range ascender.Columns {
		if v, ok := set[c.Name]; ok {
			values[i] = v
		}
	}

	return values
}

// jobRow is a current, fully populated job. set overrides columns.
func jobRow(employeeNo string, set map[string]any) []any {
	cols := map[string]any{
		"employee_no":       employeeNo,
		"job_no":            "01",
		"surname":           "SMITH",
		"first_name":        "JOHN",
		"clevel1_id":        "DBCA",
		"clevel1_desc":      "DEPT BIODIVERSITY, CONSERVATION AND ATTRACTIONS",
		"clevel2_desc":      "PARKS AND WILDLIFE SERVICE",
		"position_no":       "P100",
		"occup_pos_title":   "SENIOR TECHNICAL OFFICER",
		"emp_status":        "PFA",
		"paypoint":          "123",
		"geo_location_desc": "KENSINGTON",
		"job_start_date":    "2020-01-01",
		"job_end_date":      "2049-12-31",
		"licence_type":      "ONPUL",
		"manager_emp_no":    "900",
	}

	maps.Copy(cols, set)

	return hrRow(cols)
}

// seedManager stores the manager referenced by jobRow, linked to both directories.
func (e *testEnv) seedManager(t *testing.T) *models.DepartmentUser {
	t.Helper()

	dirSync := true

	return e.seed(t, &models.DepartmentUser{
		Active:         true,
		Email:          "boss@example.com",
		Name:           "Big Boss",
		GivenName:      "Big",
		Surname:        "Boss",
		EmployeeID:     models.Ptr("900"),
		ADGUID:         models.Ptr("ad-boss"),
		AzureGUID:      models.Ptr("az-boss"),
		DirSyncEnabled: &dirSync,
		ADData:         &onprem.User{ObjectGUID: "ad-boss", DistinguishedName: "CN=Big Boss,OU=Users", Enabled: true},
		AzureADData:    &graph.User{ObjectID: "az-boss", Mail: "boss@example.com", AccountEnabled: true},
	})
}

// seedReference stores the cost centre and location referenced by jobRow.
func (e *testEnv) seedReference(t *testing.T) (*models.CostCentre, *models.Location) {
	t.Helper()

	ctx := context.Background()

	cc := &models.CostCentre{Code: "CBS-123", DivisionName: "CBS", AscenderCode: models.Ptr("123"), Active: true}
	require.NoError(t, e.store.CreateCostCentre(ctx, cc))

	loc := &models.Location{Name: "Kensington", Address: "17 Dick Perry Avenue", AscenderDesc: models.Ptr("KENSINGTON")}
	require.NoError(t, e.store.CreateLocation(ctx, loc))

	return cc, loc
}

func hrSource(rows ...[]any) func(d *Deps) {
	return func(d *Deps) { d.HR = ascender.SliceSource(rows) }
}
