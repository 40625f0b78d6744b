package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/db/dbtest"
	"github.com/ClinicOps/clinicops/internal/db/models"
)

// seedSettings inserts test data into the database.
func seedSettings(t *testing.T, db *gorm.DB, settings []models.Setting) {
	t.Helper()
	for _, s := range settings {
		err := db.Create(&s).Error
		require.NoError(t, err, "failed to seed test data")
	}
}

func TestGet(t *testing.T) {
	db := dbtest.Open(t)

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue []byte
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			settingName:   "test",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty name",
			dbParam:       db,
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			dbParam:       db,
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			dbParam:     db,
			settingName: "rbac.module.inventory.version",
			seedData: []models.Setting{
				{Name: "rbac.module.inventory.version", Value: []byte("2024.1")},
			},
			expectedValue: []byte("2024.1"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Clean database for each test
			if tc.dbParam != nil {
				tc.dbParam.Exec("DELETE FROM settings")
			}

			if tc.seedData != nil {
				seedSettings(t, tc.dbParam, tc.seedData)
			}

			s, err := Get(tc.dbParam, tc.settingName)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, s)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.settingName, s.Name)
				assert.Equal(t, tc.expectedValue, s.Value)
			}
		})
	}
}

func TestGetString(t *testing.T) {
	db := dbtest.Open(t)

	v, err := GetString(db, "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	_, err = Set(db, "present", []byte("value"))
	require.NoError(t, err)

	v, err = GetString(db, "present", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = GetString(nil, "present", "fallback")
	require.ErrorIs(t, err, ErrDBNil)
}

func TestSet(t *testing.T) {
	db := dbtest.Open(t)

	created, err := Set(db, "rbac.module.pasien.version", []byte("1"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := Set(db, "rbac.module.pasien.version", []byte("2"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "upsert must keep the row")
	assert.Equal(t, []byte("2"), updated.Value)

	var count int64
	db.Model(&models.Setting{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = Set(db, "", []byte("x"))
	require.ErrorIs(t, err, ErrSettingNameEmpty)

	_, err = Set(nil, "x", []byte("x"))
	require.ErrorIs(t, err, ErrDBNil)
}

func TestListByPrefix(t *testing.T) {
	db := dbtest.Open(t)

	seedSettings(t, db, []models.Setting{
		{Name: "rbac.module.pasien.version", Value: []byte("1")},
		{Name: "rbac.module.inventory.version", Value: []byte("1")},
		{Name: "rbac_module_x", Value: []byte("1")},
		{Name: "site.title", Value: []byte("ClinicOps")},
	})

	settings, err := ListByPrefix(db, "rbac.module.")
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "rbac.module.inventory.version", settings[0].Name)
	assert.Equal(t, "rbac.module.pasien.version", settings[1].Name)

	// underscores are matched literally
	settings, err = ListByPrefix(db, "rbac_")
	require.NoError(t, err)
	require.Len(t, settings, 1)

	_, err = ListByPrefix(nil, "x")
	require.ErrorIs(t, err, ErrDBNil)
}

func TestDeleteByName(t *testing.T) {
	db := dbtest.Open(t)

	seedSettings(t, db, []models.Setting{{Name: "to_delete", Value: []byte("x")}})

	require.NoError(t, DeleteByName(db, "to_delete"))
	require.ErrorIs(t, DeleteByName(db, "to_delete"), ErrSettingNotFound)
	require.ErrorIs(t, DeleteByName(db, ""), ErrSettingNameEmpty)
	require.ErrorIs(t, DeleteByName(nil, "x"), ErrDBNil)
}
