package models

// Location is a physical work site.
type Location struct {
	ID      uint64 `gorm:"primaryKey"`
	Name    string `gorm:"uniqueIndex;size:256;not null"`
	Address string `gorm:"type:text"`
	// AscenderDesc is the HR geo location description.
	AscenderDesc *string `gorm:"uniqueIndex;size:128"`
}

// TableName specifies the database table name for the Location model.
func (Location) TableName() string {
	return "locations"
}

// OrgUnit is a node of the organisational structure.
type OrgUnit struct {
	ID     uint64 `gorm:"primaryKey"`
	Active bool   `gorm:"not null"`
	Name   string `gorm:"uniqueIndex;size:256;not null"`
}

// TableName specifies the database table name for the OrgUnit model.
func (OrgUnit) TableName() string {
	return "org_units"
}
