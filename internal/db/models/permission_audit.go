package models

import "time"

// AuditEvent names a change recorded in the permission audit trail.
type AuditEvent string

const (
	// AuditPermissionCreated is written when the generator creates a permission.
	AuditPermissionCreated AuditEvent = "permission.created"
	// AuditPermissionDeleted is written when a forced regeneration deletes a permission.
	AuditPermissionDeleted AuditEvent = "permission.deleted"
	// AuditGrantAttached is written when a permission is attached to a role.
	AuditGrantAttached AuditEvent = "grant.attached"
	// AuditGrantRevoked is written when a grant is removed, by detach or by cascade.
	AuditGrantRevoked AuditEvent = "grant.revoked"
)

// PermissionAudit is an append-only record of catalog and grant changes.
// Rows written by one administrative call share an OperationID.
type PermissionAudit struct {
	ID uint64 `gorm:"primaryKey"`
	// OperationID groups the rows of one generate or sync call.
	OperationID string `gorm:"size:36;not null;index"`
	// Event is the kind of change.
	Event AuditEvent `gorm:"type:varchar(32);not null"`
	// RoleName is empty for catalog events.
	RoleName string `gorm:"size:100;index"`
	// PermissionName is kept as text so the record survives deletion of the permission.
	PermissionName string `gorm:"size:100;not null"`
	Module         string `gorm:"size:50;not null;index"`
	Actor          string `gorm:"size:100"`
	// Reason explains the change, e.g. "forced regeneration".
	Reason    string `gorm:"size:255"`
	CreatedAt time.Time
}

// TableName specifies the database table name for the PermissionAudit model.
func (PermissionAudit) TableName() string {
	return "permission_audits"
}
