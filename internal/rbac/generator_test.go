package rbac

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClinicOps/clinicops/internal/db/controller/permission"
	"github.com/ClinicOps/clinicops/internal/db/controller/setting"
	"github.com/ClinicOps/clinicops/internal/db/dbtest"
	"github.com/ClinicOps/clinicops/internal/db/models"
)

func TestGenerateModule(t *testing.T) {
	db := dbtest.Open(t)
	superAdmin := dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t), WithActor("ops"))

	res, err := gen.GenerateModule("inventory", false)
	require.NoError(t, err)

	assert.Equal(t, "inventory", res.Module)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 3, res.Attached)
	assert.False(t, res.NoOp)
	assert.NotEmpty(t, res.OperationID)

	perms, err := permission.ListByModule(db, "inventory")
	require.NoError(t, err)
	require.Len(t, perms, 3)

	p, err := permission.GetByName(db, "inventory.add_stock")
	require.NoError(t, err)
	assert.Equal(t, "Add Stock Inventory", p.DisplayName)
	assert.Equal(t, "Allows to add stock in Inventory.", p.Description)
	assert.Equal(t, "inventory", p.Module)
	assert.Equal(t, "ops", p.CreatedBy)

	assert.ElementsMatch(t,
		[]string{"inventory.view", "inventory.create", "inventory.add_stock"},
		heldNames(t, db, superAdmin, "inventory"))

	version, err := setting.GetString(db, VersionSetting("inventory"), "")
	require.NoError(t, err)
	assert.Equal(t, "test-1", version)

	assert.Equal(t, int64(3), countRows(t, db, &models.PermissionAudit{},
		"operation_id = ? AND event = ?", res.OperationID, models.AuditPermissionCreated))
	assert.Equal(t, int64(3), countRows(t, db, &models.PermissionAudit{},
		"operation_id = ? AND event = ? AND role_name = ?", res.OperationID, models.AuditGrantAttached, DefaultOmnipotentRole))

	assert.Zero(t, countRows(t, db, &models.Permission{}, "module = ?", "pelayanan"), "other modules untouched")
}

func TestGenerateModuleIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	_, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	audits := countRows(t, db, &models.PermissionAudit{}, "")

	res, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	assert.True(t, res.NoOp)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Attached)
	assert.Equal(t, int64(2), countRows(t, db, &models.Permission{}, ""))
	assert.Equal(t, int64(2), countRows(t, db, &models.RolePermission{}, ""))
	assert.Equal(t, audits, countRows(t, db, &models.PermissionAudit{}, ""), "no-op writes no audit rows")
}

func TestGenerateModuleCompletesIncompleteModule(t *testing.T) {
	db := dbtest.Open(t)
	superAdmin := dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	existing := dbtest.Permissions(t, db, "inventory", "view")

	res, err := gen.GenerateModule("inventory", false)
	require.NoError(t, err)

	assert.False(t, res.NoOp)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 3, res.Attached)

	p, err := permission.GetByName(db, "inventory.view")
	require.NoError(t, err)
	assert.Equal(t, existing[0].ID, p.ID, "existing rows keep their identity")
	assert.Equal(t, existing[0].DisplayName, p.DisplayName, "display text is not overwritten")

	assert.Len(t, heldNames(t, db, superAdmin, "inventory"), 3)
}

func TestGenerateModuleHealsOmnipotentRole(t *testing.T) {
	db := dbtest.Open(t)
	superAdmin := dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	_, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	require.NoError(t, db.Where("role_id = ?", superAdmin.ID).Delete(&models.RolePermission{}).Error)

	res, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	assert.True(t, res.NoOp)
	assert.Equal(t, 2, res.Attached)
	assert.Len(t, heldNames(t, db, superAdmin, "pelayanan"), 2)
}

func TestGenerateModuleRepairsModuleColumn(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	require.NoError(t, db.Create(&models.Permission{
		Name:        "pelayanan.view",
		DisplayName: "View Pelayanan",
		Module:      "legacy",
	}).Error)

	_, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	p, err := permission.GetByName(db, "pelayanan.view")
	require.NoError(t, err)
	assert.Equal(t, "pelayanan", p.Module)
}

func TestGenerateModuleForce(t *testing.T) {
	db := dbtest.Open(t)
	superAdmin := dbtest.Role(t, db, DefaultOmnipotentRole)
	nurse := dbtest.Role(t, db, "nurse")
	gen := NewGenerator(db, testRegistry(t))

	report := gen.GenerateAll(nil, false)
	require.NoError(t, report.Err())

	before, err := permission.ListByModule(db, "pelayanan")
	require.NoError(t, err)

	inventoryView, err := permission.GetByName(db, "inventory.view")
	require.NoError(t, err)

	dbtest.Grant(t, db, nurse, *inventoryView)
	dbtest.Grant(t, db, nurse, before...)

	res, err := gen.GenerateModule("inventory", true)
	require.NoError(t, err)

	assert.False(t, res.NoOp)
	assert.Equal(t, 3, res.Deleted)
	assert.Equal(t, 4, res.RevokedGrants, "three omnipotent grants and one nurse grant")
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 3, res.Attached)

	assert.Empty(t, heldNames(t, db, nurse, "inventory"), "nurse must be re-synced")
	assert.Len(t, heldNames(t, db, nurse, "pelayanan"), 2, "grants of other modules survive")
	assert.Len(t, heldNames(t, db, superAdmin, ""), 5)

	after, err := permission.ListByModule(db, "pelayanan")
	require.NoError(t, err)
	assert.Equal(t, before, after, "other modules keep their rows")

	assert.Equal(t, int64(1), countRows(t, db, &models.PermissionAudit{},
		"operation_id = ? AND event = ? AND role_name = ?", res.OperationID, models.AuditGrantRevoked, "nurse"))
	assert.Equal(t, int64(3), countRows(t, db, &models.PermissionAudit{},
		"operation_id = ? AND event = ?", res.OperationID, models.AuditPermissionDeleted))
}

func TestGenerateModuleForceOnEmptyModule(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	res, err := gen.GenerateModule("pelayanan", true)
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)
	assert.Equal(t, 2, res.Created)
}

func TestGenerateModuleUnknownModule(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	res, err := gen.GenerateModule("radiologi", false)
	require.ErrorIs(t, err, ErrUnknownModule)
	assert.Equal(t, KindUnknownModule, KindOf(res.Err))
	assert.Zero(t, countRows(t, db, &models.Permission{}, ""))

	_, err = gen.Existing("radiologi")
	require.ErrorIs(t, err, ErrUnknownModule)
}

func TestGenerateModuleWithoutOmnipotentRole(t *testing.T) {
	db := dbtest.Open(t)
	gen := NewGenerator(db, testRegistry(t))

	res, err := gen.GenerateModule("pelayanan", false)
	require.ErrorIs(t, err, ErrRoleNotFound)
	assert.Equal(t, KindRoleNotFound, KindOf(res.Err))
	assert.Zero(t, res.Created)
	assert.Zero(t, countRows(t, db, &models.Permission{}, ""), "transaction rolled back")
}

func TestGenerateModuleStorageFailure(t *testing.T) {
	db, mock := dbtest.Mock(t)
	gen := NewGenerator(db, testRegistry(t))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("server has gone away"))
	mock.ExpectRollback()

	res, err := gen.GenerateModule("pelayanan", false)
	require.ErrorIs(t, err, ErrStorageFailure)
	assert.Equal(t, KindStorageFailure, KindOf(res.Err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.True(t, e.Retryable())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateModuleWriteFailureRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	superAdmin := dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	_, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	restore := dbtest.FailCreates(t, db, models.Permission{}, 2)

	res, err := gen.GenerateModule("inventory", false)
	require.ErrorIs(t, err, ErrStorageFailure)
	require.ErrorIs(t, err, dbtest.ErrInjected)
	assert.Contains(t, err.Error(), "inventory.add_stock")
	assert.Zero(t, res.Created)

	assert.Zero(t, countRows(t, db, &models.Permission{}, "module = ?", "inventory"), "no half-built module")
	assert.Empty(t, heldNames(t, db, superAdmin, "inventory"))
	assert.Zero(t, countRows(t, db, &models.PermissionAudit{}, "module = ?", "inventory"))

	_, err = setting.Get(db, VersionSetting("inventory"))
	require.ErrorIs(t, err, setting.ErrSettingNotFound)

	assert.Len(t, heldNames(t, db, superAdmin, "pelayanan"), 2, "earlier modules untouched")

	restore()

	res, err = gen.GenerateModule("inventory", false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created, "a failed module can simply be retried")
}

func TestForcedRegenerationWriteFailureKeepsGrants(t *testing.T) {
	db := dbtest.Open(t)
	superAdmin := dbtest.Role(t, db, DefaultOmnipotentRole)
	nurse := dbtest.Role(t, db, "nurse")
	gen := NewGenerator(db, testRegistry(t))

	_, err := gen.GenerateModule("inventory", false)
	require.NoError(t, err)

	perms, err := permission.ListByModule(db, "inventory")
	require.NoError(t, err)
	dbtest.Grant(t, db, nurse, perms...)

	dbtest.FailCreates(t, db, models.Permission{}, 1)

	_, err = gen.GenerateModule("inventory", true)
	require.ErrorIs(t, err, dbtest.ErrInjected)

	assert.Equal(t, int64(3), countRows(t, db, &models.Permission{}, "module = ?", "inventory"), "purge rolled back")
	assert.Len(t, heldNames(t, db, nurse, "inventory"), 3)
	assert.Len(t, heldNames(t, db, superAdmin, "inventory"), 3)
}

func TestGenerateAll(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	report := gen.GenerateAll([]string{"pelayanan", "radiologi", "inventory"}, false)

	require.Len(t, report.Results, 3)
	assert.Equal(t, "radiologi", report.Results[1].Module)
	require.ErrorIs(t, report.Results[1].Err, ErrUnknownModule)
	require.NoError(t, report.Results[2].Err, "failures do not stop sibling modules")

	assert.Equal(t, 5, report.Created())
	assert.Len(t, report.Failed(), 1)
	require.ErrorIs(t, report.Err(), ErrUnknownModule)
	assert.Contains(t, report.Err().Error(), "1 of 3 modules failed")

	all := gen.GenerateAll(nil, false)
	require.NoError(t, all.Err())
	require.Len(t, all.Results, 2)
	assert.True(t, all.Results[0].NoOp)
	assert.True(t, all.Results[1].NoOp)
}

func TestGenerateWithoutAudit(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t), WithAudit(false))

	_, err := gen.GenerateModule("inventory", false)
	require.NoError(t, err)

	assert.Zero(t, countRows(t, db, &models.PermissionAudit{}, ""))
}

func TestGenerateCustomOmnipotentRole(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.Role(t, db, "owner")
	gen := NewGenerator(db, testRegistry(t), WithOmnipotentRole("owner"))

	_, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	assert.Len(t, heldNames(t, db, owner, "pelayanan"), 2)
}

func TestExisting(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	n, err := gen.Existing("inventory")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = gen.GenerateModule("inventory", false)
	require.NoError(t, err)

	n, err = gen.Existing("inventory")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStatus(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	_, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	dbtest.Permissions(t, db, "pelayanan", "legacy")
	dbtest.Permissions(t, db, "radiologi", "view")

	status, err := gen.Status()
	require.NoError(t, err)
	require.Len(t, status, 3)

	pelayanan := status[0]
	assert.Equal(t, "pelayanan", pelayanan.Module)
	assert.True(t, pelayanan.Registered)
	assert.Equal(t, 2, pelayanan.Expected)
	assert.Equal(t, 3, pelayanan.Present)
	assert.Equal(t, []string{"pelayanan.legacy"}, pelayanan.Stale)
	assert.Empty(t, pelayanan.Missing)
	assert.Equal(t, "test-1", pelayanan.GeneratedVersion)
	assert.False(t, pelayanan.InSync())

	inventory := status[1]
	assert.Equal(t, "inventory", inventory.Module)
	assert.ElementsMatch(t, []string{"inventory.view", "inventory.create", "inventory.add_stock"}, inventory.Missing)
	assert.Empty(t, inventory.GeneratedVersion)
	assert.False(t, inventory.InSync())

	orphan := status[2]
	assert.Equal(t, "radiologi", orphan.Module)
	assert.False(t, orphan.Registered)
	assert.Equal(t, []string{"radiologi.view"}, orphan.Stale)
	assert.False(t, orphan.InSync())

	require.NoError(t, db.Where("name = ?", "pelayanan.legacy").Delete(&models.Permission{}).Error)

	status, err = gen.Status()
	require.NoError(t, err)
	assert.True(t, status[0].InSync())
}

func TestPrune(t *testing.T) {
	db := dbtest.Open(t)
	superAdmin := dbtest.Role(t, db, DefaultOmnipotentRole)
	nurse := dbtest.Role(t, db, "nurse")
	gen := NewGenerator(db, testRegistry(t))

	_, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	retired := dbtest.Permissions(t, db, "radiologi", "view", "create")
	dbtest.Grant(t, db, superAdmin, retired...)
	dbtest.Grant(t, db, nurse, retired[0])
	_, err = setting.Set(db, VersionSetting("radiologi"), []byte("old"))
	require.NoError(t, err)

	_, err = gen.Prune("pelayanan")
	require.ErrorIs(t, err, ErrRegisteredModule)
	assert.Equal(t, KindRegisteredModule, KindOf(err))

	res, err := gen.Prune("radiologi")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 3, res.RevokedGrants)
	assert.False(t, res.NoOp)

	assert.Zero(t, countRows(t, db, &models.Permission{}, "module = ?", "radiologi"))
	assert.Empty(t, heldNames(t, db, nurse, "radiologi"))
	assert.Len(t, heldNames(t, db, superAdmin, "pelayanan"), 2, "registered modules untouched")

	_, err = setting.Get(db, VersionSetting("radiologi"))
	require.ErrorIs(t, err, setting.ErrSettingNotFound)

	assert.Equal(t, int64(2), countRows(t, db, &models.PermissionAudit{},
		"operation_id = ? AND event = ? AND reason = ?", res.OperationID, models.AuditPermissionDeleted, reasonRetiredModule))

	res, err = gen.Prune("radiologi")
	require.NoError(t, err)
	assert.True(t, res.NoOp)
}

func TestRegenerateRecordsNewVersion(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)

	_, err := NewGenerator(db, testRegistry(t)).GenerateModule("pelayanan", false)
	require.NoError(t, err)

	reg := testRegistry(t)
	reg.Version = "test-2"

	_, err = NewGenerator(db, reg).GenerateModule("pelayanan", true)
	require.NoError(t, err)

	status, err := NewGenerator(db, reg).Status()
	require.NoError(t, err)
	assert.Equal(t, "test-2", status[0].GeneratedVersion)
}

func TestHistory(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, DefaultOmnipotentRole)
	gen := NewGenerator(db, testRegistry(t))

	first, err := gen.GenerateModule("pelayanan", false)
	require.NoError(t, err)

	second, err := gen.GenerateModule("inventory", false)
	require.NoError(t, err)

	rows, err := History(db, "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, second.OperationID, rows[0].OperationID, "newest first")
	assert.Equal(t, first.OperationID, rows[len(rows)-1].OperationID)

	rows, err = History(db, "pelayanan", 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, r := range rows {
		assert.Equal(t, "pelayanan", r.Module)
		assert.Equal(t, DefaultActor, r.Actor)
	}
}
