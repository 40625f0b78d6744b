// Package role provides storage operations for roles.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/db/models"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when a role name is empty.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByName retrieves a role by its name.
func GetByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var r models.Role
	result := db.Where("name = ?", name).Limit(1).Find(&r)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRoleNotFound
	}

	return &r, nil
}

// List retrieves all roles ordered by name.
func List(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	if err := db.Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Ensure creates r unless a role with the same name exists.
// Existing roles are returned untouched. It is used by seeding only.
func Ensure(db *gorm.DB, r models.Role) (*models.Role, bool, error) {
	existing, err := GetByName(db, r.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrRoleNotFound) {
		return nil, false, err
	}

	if err = db.Create(&r).Error; err != nil {
		return nil, false, err
	}

	return &r, true, nil
}
