// Package permission provides storage operations for the permission catalog.
package permission

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ClinicOps/clinicops/internal/db/models"
)

const (
	nameQueryPattern   = "name = ?"
	moduleQueryPattern = "module = ?"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrPermissionNameEmpty is returned when a permission name is empty.
	ErrPermissionNameEmpty = errors.New("permission name cannot be empty")
	// ErrModuleEmpty is returned when a module key is empty.
	ErrModuleEmpty = errors.New("module cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByName retrieves a permission by its name.
func GetByName(db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrPermissionNameEmpty
	}

	var p models.Permission
	result := db.Where(nameQueryPattern, name).Limit(1).Find(&p)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPermissionNotFound
	}

	return &p, nil
}

// All retrieves the whole catalog ordered by name.
func All(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var perms []models.Permission
	if err := db.Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// ListByModule retrieves the permissions of one module ordered by name.
func ListByModule(db *gorm.DB, module string) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if module == "" {
		return nil, ErrModuleEmpty
	}

	var perms []models.Permission
	if err := db.Where(moduleQueryPattern, module).Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// CountByModule counts the permissions of one module.
func CountByModule(db *gorm.DB, module string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}
	if module == "" {
		return 0, ErrModuleEmpty
	}

	var count int64
	if err := db.Model(&models.Permission{}).Where(moduleQueryPattern, module).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// ModuleCount is the number of catalog rows of one module.
type ModuleCount struct {
	Module string
	Count  int64
}

// CountPerModule counts catalog rows grouped by module, ordered by module.
func CountPerModule(db *gorm.DB) ([]ModuleCount, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var counts []ModuleCount

	err := db.Model(&models.Permission{}).
		Select("module, COUNT(*) AS count").
		Group("module").
		Order("module").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// Modules returns the distinct modules present in the catalog, sorted.
func Modules(db *gorm.DB) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var modules []string
	if err := db.Model(&models.Permission{}).Distinct("module").Order("module").Pluck("module", &modules).Error; err != nil {
		return nil, err
	}

	return modules, nil
}

// FirstOrCreate looks up p by name and creates it if absent.
// An existing row is loaded into p unchanged; its display text is never overwritten.
func FirstOrCreate(db *gorm.DB, p *models.Permission) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}
	if p.Name == "" {
		return false, ErrPermissionNameEmpty
	}

	var existing models.Permission
	result := db.Where(nameQueryPattern, p.Name).Limit(1).Find(&existing)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		*p = existing
		return false, nil
	}

	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		return false, err
	}

	return true, nil
}

// DeleteByModule deletes every permission of module together with all role
// grants referencing them. It returns the number of deleted permissions and grants.
// The grants are removed explicitly so the result does not depend on the driver
// enforcing foreign keys. Run it inside a transaction.
func DeleteByModule(db *gorm.DB, module string) (int64, int64, error) {
	if db == nil {
		return 0, 0, ErrDBNil
	}
	if module == "" {
		return 0, 0, ErrModuleEmpty
	}

	ids := db.Model(&models.Permission{}).Select("id").Where(moduleQueryPattern, module)

	grants := db.Where("permission_id IN (?)", ids).Delete(&models.RolePermission{})
	if grants.Error != nil {
		return 0, 0, grants.Error
	}

	perms := db.Where(moduleQueryPattern, module).Delete(&models.Permission{})
	if perms.Error != nil {
		return 0, 0, perms.Error
	}

	return perms.RowsAffected, grants.RowsAffected, nil
}
