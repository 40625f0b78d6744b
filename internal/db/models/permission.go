package models

import "time"

// Permission is one entry of the permission catalog.
// Rows are written by the permission generator only; end users never create them.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Name is the unique permission identifier in module.action format (e.g., "inventory.export").
	Name string `gorm:"unique;size:100;not null"`
	// DisplayName is the human-readable label shown in role editors.
	DisplayName string `gorm:"size:150;not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255"`
	// Module is the registry module this permission belongs to. Always equals the prefix of Name.
	Module string `gorm:"size:50;not null;index"`
	// CreatedBy names the operator or process that generated the permission.
	CreatedBy string `gorm:"size:100"`
	// UpdatedBy names the operator or process that last touched the permission.
	UpdatedBy string `gorm:"size:100"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}
