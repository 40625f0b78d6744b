package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ClinicOps/clinicops/internal/db/dbtest"
	"github.com/ClinicOps/clinicops/internal/db/models"
)

func TestGetByName(t *testing.T) {
	db := dbtest.Open(t)
	dbtest.Role(t, db, "nurse")

	r, err := GetByName(db, "nurse")
	require.NoError(t, err)
	assert.Equal(t, "nurse", r.Name)
	assert.True(t, r.IsActive)

	_, err = GetByName(db, "midwife")
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = GetByName(db, "")
	require.ErrorIs(t, err, ErrRoleNameEmpty)

	_, err = GetByName(nil, "nurse")
	require.ErrorIs(t, err, ErrDBNil)
}

func TestEnsureAndList(t *testing.T) {
	db := dbtest.Open(t)

	r, created, err := Ensure(db, models.Role{Name: "nurse", DisplayName: "Nurse", IsActive: true})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, r.ID)

	again, created, err := Ensure(db, models.Role{Name: "nurse", DisplayName: "changed"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, r.ID, again.ID)
	assert.Equal(t, "Nurse", again.DisplayName, "existing roles are left untouched")

	_, _, err = Ensure(db, models.Role{Name: "admin", IsActive: true})
	require.NoError(t, err)

	roles, err := List(db)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "admin", roles[0].Name)
	assert.Equal(t, "nurse", roles[1].Name)
}
