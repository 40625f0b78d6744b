package rbac

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ClinicOps/clinicops/internal/db/models"
)

const auditBatchSize = 100

// trail collects the audit rows of one administrative call and writes them in
// the same transaction as the change itself.
type trail struct {
	enabled     bool
	operationID string
	actor       string
	rows        []models.PermissionAudit
}

func newTrail(o options) *trail {
	return &trail{
		enabled:     o.audit,
		operationID: uuid.NewString(),
		actor:       o.actor,
	}
}

func (t *trail) add(event models.AuditEvent, roleName string, p models.Permission, reason string) {
	if !t.enabled {
		return
	}

	t.rows = append(t.rows, models.PermissionAudit{
		OperationID:    t.operationID,
		Event:          event,
		RoleName:       roleName,
		PermissionName: p.Name,
		Module:         p.Module,
		Actor:          t.actor,
		Reason:         reason,
	})
}

func (t *trail) grants(event models.AuditEvent, roleName string, perms []models.Permission, reason string) {
	for _, p := range perms {
		t.add(event, roleName, p, reason)
	}
}

func (t *trail) flush(tx *gorm.DB) error {
	if !t.enabled || len(t.rows) == 0 {
		return nil
	}

	if err := tx.Omit(clause.Associations).CreateInBatches(&t.rows, auditBatchSize).Error; err != nil {
		return StorageFailure("", err, "failed to write audit trail")
	}

	t.rows = nil

	return nil
}

// History returns the latest audit rows, newest first. An empty module selects all modules.
func History(db *gorm.DB, module string, limit int) ([]models.PermissionAudit, error) {
	q := db.Model(&models.PermissionAudit{}).Order("id DESC")
	if module != "" {
		q = q.Where("module = ?", module)
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.PermissionAudit
	if err := q.Find(&rows).Error; err != nil {
		return nil, StorageFailure(module, err, "failed to read audit trail")
	}

	return rows, nil
}
