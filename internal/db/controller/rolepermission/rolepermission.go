// Package rolepermission provides storage operations for role grants.
package rolepermission

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ClinicOps/clinicops/internal/db/models"
)

const batchSize = 100

var (
	// ErrRoleIDZero is returned when a role ID is zero.
	ErrRoleIDZero = errors.New("role id cannot be zero")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrModuleEmpty is returned when an operation needs a module but none was given.
	ErrModuleEmpty = errors.New("module cannot be empty")
)

// Grant is a role permission assignment resolved to names.
type Grant struct {
	RoleID         uint
	RoleName       string
	PermissionID   uint
	PermissionName string
	Module         string
}

// heldBy is the subquery of permission ids held by roleID.
func heldBy(db *gorm.DB, roleID uint) *gorm.DB {
	return db.Model(&models.RolePermission{}).Select("permission_id").Where("role_id = ?", roleID)
}

// Missing returns the permissions not yet held by roleID, ordered by name.
// An empty module selects the whole catalog.
func Missing(db *gorm.DB, roleID uint, module string) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if roleID == 0 {
		return nil, ErrRoleIDZero
	}

	q := db.Model(&models.Permission{}).Where("id NOT IN (?)", heldBy(db, roleID))
	if module != "" {
		q = q.Where("module = ?", module)
	}

	var perms []models.Permission
	if err := q.Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// Attach grants perms to roleID. Callers pass permissions from Missing so no
// duplicate keys are written.
func Attach(db *gorm.DB, roleID uint, perms []models.Permission, actor string) error {
	if db == nil {
		return ErrDBNil
	}
	if roleID == 0 {
		return ErrRoleIDZero
	}
	if len(perms) == 0 {
		return nil
	}

	rows := make([]models.RolePermission, 0, len(perms))
	for _, p := range perms {
		rows = append(rows, models.RolePermission{
			RoleID:       roleID,
			PermissionID: p.ID,
			CreatedBy:    actor,
			UpdatedBy:    actor,
		})
	}

	return db.Omit(clause.Associations).CreateInBatches(&rows, batchSize).Error
}

// AttachMissing grants every permission of module the role does not hold yet
// and returns what was attached. Grants of other modules are left alone.
func AttachMissing(db *gorm.DB, roleID uint, module, actor string) ([]models.Permission, error) {
	perms, err := Missing(db, roleID, module)
	if err != nil {
		return nil, err
	}

	if err = Attach(db, roleID, perms, actor); err != nil {
		return nil, err
	}

	return perms, nil
}

// Held returns the permissions held by roleID, ordered by name.
// An empty module selects every module.
func Held(db *gorm.DB, roleID uint, module string) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if roleID == 0 {
		return nil, ErrRoleIDZero
	}

	q := db.Model(&models.Permission{}).Where("id IN (?)", heldBy(db, roleID))
	if module != "" {
		q = q.Where("module = ?", module)
	}

	var perms []models.Permission
	if err := q.Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// DetachModule removes every grant of roleID whose permission belongs to module
// and returns the permissions that were revoked.
func DetachModule(db *gorm.DB, roleID uint, module string) ([]models.Permission, error) {
	if module == "" {
		return nil, ErrModuleEmpty
	}

	perms, err := Held(db, roleID, module)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, nil
	}

	ids := db.Model(&models.Permission{}).Select("id").Where("module = ?", module)

	err = db.Where("role_id = ? AND permission_id IN (?)", roleID, ids).
		Delete(&models.RolePermission{}).Error
	if err != nil {
		return nil, err
	}

	return perms, nil
}

// HeldModules returns the distinct modules in which roleID holds at least one grant, sorted.
func HeldModules(db *gorm.DB, roleID uint) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if roleID == 0 {
		return nil, ErrRoleIDZero
	}

	var modules []string

	err := db.Model(&models.Permission{}).
		Distinct("module").
		Where("id IN (?)", heldBy(db, roleID)).
		Order("module").
		Pluck("module", &modules).Error
	if err != nil {
		return nil, err
	}

	return modules, nil
}

// ListByModule returns every grant that references a permission of module.
func ListByModule(db *gorm.DB, module string) ([]Grant, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if module == "" {
		return nil, ErrModuleEmpty
	}

	var grants []Grant

	err := db.Table("role_permissions").
		Select("roles.id AS role_id, roles.name AS role_name, permissions.id AS permission_id, "+
			"permissions.name AS permission_name, permissions.module AS module").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("permissions.module = ?", module).
		Order("roles.name, permissions.name").
		Scan(&grants).Error
	if err != nil {
		return nil, err
	}

	return grants, nil
}
