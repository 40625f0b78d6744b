// Package dbtest provides database fixtures shared by package tests.
package dbtest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ClinicOps/clinicops/internal/db/models"
)

// Open creates a migrated in-memory SQLite database.
// The pool is limited to one connection because every new connection to
// ":memory:" would open a new, empty database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

// ErrInjected is the error returned by creates failed through FailCreates.
var ErrInjected = errors.New("injected create failure")

const failCreatesCallback = "dbtest:fail_creates"

// FailCreates makes creates of rows of the same type as sample fail once
// `after` of them have gone through. Single rows and slices both count as one
// create. The returned func removes the hook again.
func FailCreates(t *testing.T, db *gorm.DB, sample any, after int) func() {
	t.Helper()

	want := rowType(reflect.TypeOf(sample))
	seen := 0

	err := db.Callback().Create().Before("gorm:create").Register(failCreatesCallback, func(tx *gorm.DB) {
		if rowType(reflect.TypeOf(tx.Statement.Dest)) != want {
			return
		}

		seen++
		if seen > after {
			_ = tx.AddError(ErrInjected)
		}
	})
	require.NoError(t, err)

	return func() {
		require.NoError(t, db.Callback().Create().Remove(failCreatesCallback))
	}
}

func rowType(t reflect.Type) reflect.Type {
	for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		t = t.Elem()
	}

	return t
}

// Mock creates a gorm handle backed by sqlmock, used to simulate storage failures.
func Mock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

// Role inserts an active role.
func Role(t *testing.T, db *gorm.DB, name string) *models.Role {
	t.Helper()

	r := &models.Role{Name: name, DisplayName: name, IsActive: true}
	require.NoError(t, db.Create(r).Error, "failed to seed role %s", name)

	return r
}

// User inserts an active user holding role. A nil role creates a user without role.
func User(t *testing.T, db *gorm.DB, username string, role *models.Role) *models.User {
	t.Helper()

	u := &models.User{Username: username, Active: true}
	if role != nil {
		u.RoleID = &role.ID
	}

	require.NoError(t, db.Create(u).Error, "failed to seed user %s", username)

	return u
}

// Permissions inserts catalog rows for module, one per action.
func Permissions(t *testing.T, db *gorm.DB, module string, actions ...string) []models.Permission {
	t.Helper()

	perms := make([]models.Permission, 0, len(actions))
	for _, a := range actions {
		perms = append(perms, models.Permission{
			Name:        module + "." + a,
			DisplayName: a + " " + module,
			Module:      module,
		})
	}

	require.NoError(t, db.Create(&perms).Error, "failed to seed permissions of %s", module)

	return perms
}

// Grant attaches perms to role.
func Grant(t *testing.T, db *gorm.DB, role *models.Role, perms ...models.Permission) {
	t.Helper()

	for _, p := range perms {
		require.NoError(t, db.Omit("Role", "Permission").Create(&models.RolePermission{
			RoleID:       role.ID,
			PermissionID: p.ID,
		}).Error)
	}
}
