package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/db/controller/rolepermission"
	"github.com/ClinicOps/clinicops/internal/db/models"
	"github.com/ClinicOps/clinicops/internal/registry"
)

// testRegistry has pelayanan with the two default actions and inventory with
// one extra action.
func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := registry.New("test-1",
		[]registry.Action{{Key: "view", Label: "View"}, {Key: "create", Label: "Create"}},
		registry.Module{Key: "pelayanan", Label: "Pelayanan"},
		registry.Module{
			Key:     "inventory",
			Label:   "Inventory",
			Actions: []registry.Action{{Key: "add_stock", Label: "Add Stock"}},
		},
	)
	require.NoError(t, err)

	return reg
}

func heldNames(t *testing.T, db *gorm.DB, r *models.Role, module string) []string {
	t.Helper()

	perms, err := rolepermission.Held(db, r.ID, module)
	require.NoError(t, err)

	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}

	return names
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64

	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}

	require.NoError(t, q.Count(&n).Error)

	return n
}
