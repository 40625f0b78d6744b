package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ClinicOps/clinicops/internal/config"
)

func TestCreate(t *testing.T) {
	testCases := []struct {
		name string
		db   config.DB
		want string
	}{
		{
			name: "mysql",
			db: config.DB{
				Driver: config.DriverMySQL, Host: "db", Port: 3307, User: "clinic", Password: "secret",
				Name: "clinicops", Extras: "parseTime=True",
			},
			want: "clinic:secret@tcp(db:3307)/clinicops?parseTime=True",
		},
		{
			name: "mysql default port without extras",
			db:   config.DB{Driver: config.DriverMySQL, Host: "db", User: "clinic", Name: "clinicops"},
			want: "clinic:@tcp(db:3306)/clinicops",
		},
		{
			name: "postgres",
			db: config.DB{
				Driver: config.DriverPostgres, Host: "db", User: "clinic", Password: "secret",
				Name: "clinicops", Extras: "sslmode=disable",
			},
			want: "host=db port=5432 user=clinic password=secret dbname=clinicops sslmode=disable",
		},
		{
			name: "sqlite",
			db:   config.DB{Driver: config.DriverSQLite, Path: "clinicops.db", Extras: "_pragma=foreign_keys(1)"},
			want: "clinicops.db?_pragma=foreign_keys(1)",
		},
		{
			name: "sqlite memory",
			db:   config.DB{Driver: config.DriverSQLite, Path: ":memory:"},
			want: ":memory:",
		},
		{
			name: "unknown driver",
			db:   config.DB{Driver: "oracle"},
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Create(tc.db))
		})
	}
}
