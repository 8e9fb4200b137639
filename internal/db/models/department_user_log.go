package models

import "time"

// LogEntry is the audit payload of a field change.
type LogEntry struct {
	Field       string `json:"field"`
	OldValue    any    `json:"old_value"`
	NewValue    any    `json:"new_value"`
	Description string `json:"description"`
}

// DepartmentUserLog is an append-only audit record.
type DepartmentUserLog struct {
	ID               uint64    `gorm:"primaryKey"`
	CreatedAt        time.Time `gorm:"index"`
	DepartmentUserID uint64    `gorm:"index;not null"`
	Log              LogEntry  `gorm:"serializer:json;type:text"`
}

// TableName specifies the database table name for the DepartmentUserLog model.
func (DepartmentUserLog) TableName() string {
	return "department_user_logs"
}
