package reconcile

import (
	"context"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/onprem"
)

// Store is the keyed store of identities and reference data.
// Lookups return models.ErrNotFound when nothing matches.
type Store interface {
	UserByID(ctx context.Context, id uint64) (*models.DepartmentUser, error)
	UserByEmployeeID(ctx context.Context, employeeID string) (*models.DepartmentUser, error)
	UserByEmail(ctx context.Context, email string) (*models.DepartmentUser, error)
	UserByAzureGUID(ctx context.Context, guid string) (*models.DepartmentUser, error)
	UserByADGUID(ctx context.Context, guid string) (*models.DepartmentUser, error)
	Users(ctx context.Context) ([]models.DepartmentUser, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SaveUser(ctx context.Context, u *models.DepartmentUser) error

	CostCentreByAscenderCode(ctx context.Context, code string) (*models.CostCentre, error)
	CostCentreByCode(ctx context.Context, code string) (*models.CostCentre, error)
	CreateCostCentre(ctx context.Context, cc *models.CostCentre) error
	SaveCostCentre(ctx context.Context, cc *models.CostCentre) error

	LocationByAscenderDesc(ctx context.Context, desc string) (*models.Location, error)
	LocationByName(ctx context.Context, name string) (*models.Location, error)
	CreateLocation(ctx context.Context, loc *models.Location) error

	OrgUnitByName(ctx context.Context, name string) (*models.OrgUnit, error)

	AppendLog(ctx context.Context, userID uint64, entry models.LogEntry) error
	SaveSetting(ctx context.Context, name string, v any) error
}

// Cloud is the cloud identity provider API.
type Cloud interface {
	ListUsers(ctx context.Context, domain string) ([]graph.User, error)
	CreateUser(ctx context.Context, u graph.NewUser) (string, error)
	UpdateUser(ctx context.Context, id string, patch map[string]any) error
	SetManager(ctx context.Context, id, managerID string) error
	AssignLicences(ctx context.Context, id string, licences []graph.Licence) error
	SKUStatus(ctx context.Context, skuID string) (graph.SKUStatus, error)
}

// OnPremDirectory reads the on-prem account snapshot keyed by GUID.
type OnPremDirectory interface {
	Users(ctx context.Context) (map[string]onprem.User, error)
}

// CostCentreManagers reads the HR cost centre manager view.
type CostCentreManagers interface {
	CostCentreManagers(ctx context.Context) ([]ascender.CostCentreManager, error)
}

// Notifier delivers fire-and-forget notifications.
type Notifier interface {
	Admins(ctx context.Context, subject, body string)
	Manager(ctx context.Context, to, subject, body string)
}
