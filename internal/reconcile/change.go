package reconcile

import (
	"time"

	"github.com/itassets/identity-sync/internal/db/models"
)

// Target names the directory that owns an identity's account.
type Target int

// Targets.
const (
	TargetNone Target = iota
	TargetOnPrem
	TargetCloud
)

func (t Target) String() string {
	switch t {
	case TargetOnPrem:
		return "onprem"
	case TargetCloud:
		return "cloud"
	default:
		return "none"
	}
}

// TargetOf returns the directory whose snapshot the identity is diffed against.
// Directory-synchronised accounts are managed on-prem, the rest in the cloud.
func TargetOf(u *models.DepartmentUser) Target {
	switch {
	case u.DirSync() && u.ADGUID != nil && u.ADData != nil:
		return TargetOnPrem
	case !u.DirSync() && u.AzureGUID != nil && u.AzureADData != nil:
		return TargetCloud
	default:
		return TargetNone
	}
}

// Direction names the source of truth of a field.
type Direction int

// Directions.
const (
	// FromHR fields follow the HR feed, through the local identity.
	FromHR Direction = iota
	// FromLocal fields are maintained locally and pushed out.
	FromLocal
)

func (d Direction) String() string {
	if d == FromLocal {
		return "local"
	}

	return "hr"
}

// Change is one field level update of a directory account.
type Change struct {
	Field     string
	Direction Direction
	Target    Target
	// Property is the on-prem attribute, or the first key of Patch.
	Property string
	// Value is the on-prem directive value.
	Value any
	// Patch is the cloud user update. Nil when Manager is set.
	Patch map[string]any
	// Manager is the cloud object ID to set as manager.
	Manager string
	// Audit is written once the change has been applied.
	Audit *models.LogEntry

	// commit records the written value in the cached snapshot.
	commit func(u *models.DepartmentUser)
}

// Input is what the resolver compares.
type Input struct {
	User              *models.DepartmentUser
	Today             time.Time
	Location          *time.Location
	DeactivateExpired bool
}
