package models

import "time"

// Role represents a role in the role-based access control (RBAC) system.
// Roles are named bundles of permissions assigned to users.
// Roles are seeded out of band; the RBAC services never create them.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the stable unique identifier of the role (e.g., "super_admin", "nurse").
	Name string `gorm:"unique;size:100;not null"`
	// DisplayName is the human-readable name of the role.
	DisplayName string `gorm:"size:150"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsActive disables every grant of the role when false.
	IsActive bool `gorm:"not null;default:true"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}
