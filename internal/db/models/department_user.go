package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/onprem"
)

// DepartmentUser represents a managed staff identity.
// Identities are created by the HR sync or the cloud account sync and are never deleted;
// they are deactivated and unlinked from their external accounts instead.
type DepartmentUser struct {
	// ID is the unique identifier for the identity.
	ID uint64 `gorm:"primaryKey"`
	// CreatedAt is the timestamp when the identity was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the identity was last updated (managed by GORM).
	UpdatedAt time.Time

	// Active mirrors the enabled flag of the identity's cloud account.
	Active bool
	// Email is the unique, lower case primary address.
	Email string `gorm:"uniqueIndex;size:254;not null"`
	// Name is the display name, "{given name} {surname}".
	Name string `gorm:"size:128"`
	// GivenName is the first name in use, taken from the HR preferred name.
	GivenName string `gorm:"size:128"`
	// PreferredName is the HR preferred name.
	PreferredName string `gorm:"size:256"`
	// Surname is the family name.
	Surname string `gorm:"size:128"`
	// Title is the position title.
	Title string `gorm:"size:128"`
	// Telephone is the work phone number. Held locally, pushed to the directories.
	Telephone string `gorm:"size:128"`
	// MobilePhone is the work mobile number. Held locally, pushed to the directories.
	MobilePhone string `gorm:"size:128"`
	// Contractor marks non-employee accounts.
	Contractor bool
	// SharedAccount marks accounts not owned by a single person.
	SharedAccount bool

	// EmployeeID is the HR employee number.
	EmployeeID *string `gorm:"uniqueIndex;size:128"`
	// ADGUID links the on-prem directory account.
	ADGUID *string `gorm:"column:ad_guid;uniqueIndex;size:48"`
	// AzureGUID links the cloud account.
	AzureGUID *string `gorm:"column:azure_guid;uniqueIndex;size:48"`
	// DirSyncEnabled is true when the cloud account is synchronised from the on-prem directory.
	DirSyncEnabled *bool
	// ProxyAddresses are the cloud account's SMTP addresses.
	ProxyAddresses []string `gorm:"serializer:json;type:text"`
	// AssignedLicences are the product names of the cloud account's licences.
	AssignedLicences []string `gorm:"serializer:json;type:text"`

	// CostCentreID is the ID of the identity's cost centre.
	CostCentreID *uint64
	// CostCentre is the associated cost centre.
	CostCentre *CostCentre `gorm:"constraint:OnDelete:SET NULL"`
	// LocationID is the ID of the identity's physical location.
	LocationID *uint64
	// Location is the associated location.
	Location *Location `gorm:"constraint:OnDelete:SET NULL"`
	// OrgUnitID is the ID of the identity's organisational unit.
	OrgUnitID *uint64
	// OrgUnit is the associated organisational unit.
	OrgUnit *OrgUnit `gorm:"constraint:OnDelete:SET NULL"`
	// ManagerID is the ID of the identity's manager.
	ManagerID *uint64
	// Manager is the managing identity.
	Manager *DepartmentUser `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL"`

	// ADData is the last snapshot of the on-prem account.
	ADData *onprem.User `gorm:"column:ad_data;serializer:json;type:text"`
	// ADDataUpdated is when ADData was refreshed.
	ADDataUpdated *time.Time `gorm:"column:ad_data_updated"`
	// AzureADData is the last snapshot of the cloud account.
	AzureADData *graph.User `gorm:"column:azure_ad_data;serializer:json;type:text"`
	// AzureADDataUpdated is when AzureADData was refreshed.
	AzureADDataUpdated *time.Time `gorm:"column:azure_ad_data_updated"`
	// AscenderData is the last current HR job.
	AscenderData *ascender.Job `gorm:"serializer:json;type:text"`
	// AscenderDataUpdated is when AscenderData was refreshed.
	AscenderDataUpdated *time.Time
}

// TableName specifies the database table name for the DepartmentUser model.
func (DepartmentUser) TableName() string {
	return "department_users"
}

// BeforeSave keeps the email lower case.
func (u *DepartmentUser) BeforeSave(*gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	return nil
}

// DirSync reports whether the on-prem directory owns the account.
func (u *DepartmentUser) DirSync() bool {
	return u.DirSyncEnabled != nil && *u.DirSyncEnabled
}

// EmployeeNo returns the employee number or "".
func (u *DepartmentUser) EmployeeNo() string {
	return deref(u.EmployeeID)
}

// ADObjectGUID returns the on-prem GUID or "".
func (u *DepartmentUser) ADObjectGUID() string {
	return deref(u.ADGUID)
}

// AzureObjectID returns the cloud GUID or "".
func (u *DepartmentUser) AzureObjectID() string {
	return deref(u.AzureGUID)
}

// SetCostCentre links cc, or clears the link for nil.
func (u *DepartmentUser) SetCostCentre(cc *CostCentre) {
	u.CostCentre = cc
	u.CostCentreID = nil

	if cc != nil {
		u.CostCentreID = &cc.ID
	}
}

// SetLocation links loc, or clears the link for nil.
func (u *DepartmentUser) SetLocation(loc *Location) {
	u.Location = loc
	u.LocationID = nil

	if loc != nil {
		u.LocationID = &loc.ID
	}
}

// SetOrgUnit links ou, or clears the link for nil.
func (u *DepartmentUser) SetOrgUnit(ou *OrgUnit) {
	u.OrgUnit = ou
	u.OrgUnitID = nil

	if ou != nil {
		u.OrgUnitID = &ou.ID
	}
}

// SetManager links m, or clears the link for nil.
func (u *DepartmentUser) SetManager(m *DepartmentUser) {
	u.Manager = m
	u.ManagerID = nil

	if m != nil {
		u.ManagerID = &m.ID
	}
}

func (u *DepartmentUser) String() string {
	if u.Name != "" {
		return u.Name + " <" + u.Email + ">"
	}

	return u.Email
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Ptr returns a pointer to s, or nil for the empty string.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
