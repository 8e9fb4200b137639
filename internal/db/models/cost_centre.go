package models

// Divisions maps division codes to their display names.
var Divisions = map[string]string{ //nolint:gochecknoglobals
	"BCS":  "DBCA Biodiversity and Conservation Science",
	"BGPA": "Botanic Gardens and Parks Authority",
	"CBS":  "DBCA Corporate and Business Services",
	"CPC":  "Conservation and Parks Commission",
	"ODG":  "Office of the Director General",
	"PWS":  "Parks and Wildlife Service",
	"RIA":  "Rottnest Island Authority",
	"ZPA":  "Zoological Parks Authority",
}

// CostCentre is a financial grouping every identity belongs to.
type CostCentre struct {
	ID     uint64 `gorm:"primaryKey"`
	Active bool   `gorm:"not null"`
	// Code is the unique cost centre code.
	Code string `gorm:"uniqueIndex;size:16;not null"`
	// DivisionName is a Divisions key.
	DivisionName string `gorm:"size:128"`
	// AscenderCode is the HR paypoint.
	AscenderCode *string `gorm:"uniqueIndex;size:50"`
	// ManagerUserID must not share a name with DepartmentUser.ManagerID.
	ManagerUserID *uint64         `gorm:"column:manager_id"`
	Manager       *DepartmentUser `gorm:"foreignKey:ManagerUserID;constraint:-"`
}

// TableName specifies the database table name for the CostCentre model.
func (CostCentre) TableName() string {
	return "cost_centres"
}

// Division returns the division display name, or "".
func (c *CostCentre) Division() string {
	if c == nil {
		return ""
	}

	return Divisions[c.DivisionName]
}

// CodeOrEmpty returns the code of a possibly nil cost centre.
func (c *CostCentre) CodeOrEmpty() string {
	if c == nil {
		return ""
	}

	return c.Code
}
