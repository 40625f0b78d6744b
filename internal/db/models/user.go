package models

import "time"

// User is the application account the RBAC services authorize.
// Authentication data lives elsewhere; only the role reference and the tenant
// scope are read here.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active.
	Active bool
	// Username is the unique username.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255"`
	// RoleID is the role assigned to this user. Nil means no permissions at all.
	RoleID *uint `gorm:"column:role_id"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	// CompanyID is the tenant company. Consumed by tenant filtering, not by RBAC.
	CompanyID *uint
	// PlantID is the tenant plant. Consumed by tenant filtering, not by RBAC.
	PlantID *uint
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}
