// Package models contains database model definitions.
package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// Setting is a named value stored in the database, used for run state such as pass summaries.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:191"`
	Value     []byte
	UpdatedAt time.Time
}

// All returns every model to migrate.
func All() []any {
	return []any{
		&CostCentre{},
		&Location{},
		&OrgUnit{},
		&DepartmentUser{},
		&DepartmentUserLog{},
		&Setting{},
	}
}
