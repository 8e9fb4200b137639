// Package directory is the gorm backed store of identities and their reference data.
package directory

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itassets/identity-sync/internal/db/controller/setting"
	"github.com/itassets/identity-sync/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Store reads and writes identities, cost centres, locations and the audit log.
type Store struct {
	db *gorm.DB
}

// New returns a Store on db.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db}, nil
}

func (s *Store) users(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("CostCentre").
		Preload("Location").
		Preload("OrgUnit").
		Preload("Manager")
}

func first[T any](tx *gorm.DB, query string, args ...any) (*T, error) {
	var out T

	if err := tx.Where(query, args...).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}

		return nil, err
	}

	return &out, nil
}

// UserByID returns the identity with the given primary key.
func (s *Store) UserByID(ctx context.Context, id uint64) (*models.DepartmentUser, error) {
	return first[models.DepartmentUser](s.users(ctx), "id = ?", id)
}

// UserByEmployeeID returns the identity linked to an HR employee number.
func (s *Store) UserByEmployeeID(ctx context.Context, employeeID string) (*models.DepartmentUser, error) {
	if employeeID == "" {
		return nil, models.ErrNotFound
	}

	return first[models.DepartmentUser](s.users(ctx), "employee_id = ?", employeeID)
}

// UserByEmail matches the email case-insensitively.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.DepartmentUser, error) {
	if email == "" {
		return nil, models.ErrNotFound
	}

	return first[models.DepartmentUser](s.users(ctx), "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// UserByAzureGUID returns the identity linked to a cloud account.
func (s *Store) UserByAzureGUID(ctx context.Context, guid string) (*models.DepartmentUser, error) {
	if guid == "" {
		return nil, models.ErrNotFound
	}

	return first[models.DepartmentUser](s.users(ctx), "azure_guid = ?", guid)
}

// UserByADGUID returns the identity linked to an on-prem account.
func (s *Store) UserByADGUID(ctx context.Context, guid string) (*models.DepartmentUser, error) {
	if guid == "" {
		return nil, models.ErrNotFound
	}

	return first[models.DepartmentUser](s.users(ctx), "ad_guid = ?", guid)
}

// Users returns every identity ordered by ID.
func (s *Store) Users(ctx context.Context) ([]models.DepartmentUser, error) {
	var out []models.DepartmentUser
	if err := s.users(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}

	return out, nil
}

// EmailExists reports whether any identity uses email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64

	err := s.db.WithContext(ctx).Model(&models.DepartmentUser{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error

	return n > 0, err
}

// SaveUser inserts or updates u. Associations are written through their ID fields only.
func (s *Store) SaveUser(ctx context.Context, u *models.DepartmentUser) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error
}

// CostCentreByAscenderCode returns the cost centre mapped to an HR paypoint.
func (s *Store) CostCentreByAscenderCode(ctx context.Context, code string) (*models.CostCentre, error) {
	if code == "" {
		return nil, models.ErrNotFound
	}

	return first[models.CostCentre](s.db.WithContext(ctx).Preload("Manager"), "ascender_code = ?", code)
}

// CostCentreByCode returns the cost centre with the given code.
func (s *Store) CostCentreByCode(ctx context.Context, code string) (*models.CostCentre, error) {
	if code == "" {
		return nil, models.ErrNotFound
	}

	return first[models.CostCentre](s.db.WithContext(ctx).Preload("Manager"), "code = ?", code)
}

// CreateCostCentre inserts cc.
func (s *Store) CreateCostCentre(ctx context.Context, cc *models.CostCentre) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(cc).Error
}

// SaveCostCentre updates cc.
func (s *Store) SaveCostCentre(ctx context.Context, cc *models.CostCentre) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(cc).Error
}

// LocationByAscenderDesc returns the location mapped to an HR geo location description.
func (s *Store) LocationByAscenderDesc(ctx context.Context, desc string) (*models.Location, error) {
	if desc == "" {
		return nil, models.ErrNotFound
	}

	return first[models.Location](s.db.WithContext(ctx), "ascender_desc = ?", desc)
}

// LocationByName returns the location with the given name.
func (s *Store) LocationByName(ctx context.Context, name string) (*models.Location, error) {
	if name == "" {
		return nil, models.ErrNotFound
	}

	return first[models.Location](s.db.WithContext(ctx), "name = ?", name)
}

// CreateLocation inserts loc.
func (s *Store) CreateLocation(ctx context.Context, loc *models.Location) error {
	return s.db.WithContext(ctx).Create(loc).Error
}

// OrgUnitByName returns the active organisational unit with the given name.
func (s *Store) OrgUnitByName(ctx context.Context, name string) (*models.OrgUnit, error) {
	if name == "" {
		return nil, models.ErrNotFound
	}

	return first[models.OrgUnit](s.db.WithContext(ctx), "name = ? AND active = ?", name, true)
}

// AppendLog writes an audit entry for the identity.
func (s *Store) AppendLog(ctx context.Context, userID uint64, entry models.LogEntry) error {
	return s.db.WithContext(ctx).Create(&models.DepartmentUserLog{DepartmentUserID: userID, Log: entry}).Error
}

// Logs returns the audit entries of an identity, oldest first.
func (s *Store) Logs(ctx context.Context, userID uint64) ([]models.DepartmentUserLog, error) {
	var out []models.DepartmentUserLog

	err := s.db.WithContext(ctx).Where("department_user_id = ?", userID).Order("id").Find(&out).Error

	return out, err
}

// SaveSetting stores v as the JSON value of a named setting.
func (s *Store) SaveSetting(ctx context.Context, name string, v any) error {
	return setting.SetJSON(s.db.WithContext(ctx), name, v)
}

// LoadSetting decodes the JSON value of a named setting into v.
func (s *Store) LoadSetting(ctx context.Context, name string, v any) error {
	return setting.GetJSON(s.db.WithContext(ctx), name, v)
}
