// Package platform wires configuration, storage and the authorization services together.
package platform

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/auth"
	"github.com/ClinicOps/clinicops/internal/config"
	"github.com/ClinicOps/clinicops/internal/db/dsn"
	"github.com/ClinicOps/clinicops/internal/db/models"
	"github.com/ClinicOps/clinicops/internal/logger"
	"github.com/ClinicOps/clinicops/internal/logger/adapter/gormlog"
	"github.com/ClinicOps/clinicops/internal/rbac"
	"github.com/ClinicOps/clinicops/internal/registry"
)

const memoryDB = ":memory:"

// Platform holds the services every command works with.
type Platform struct {
	Config       *config.Config
	DB           *gorm.DB
	Registry     *registry.Registry
	Generator    *rbac.Generator
	Synchronizer *rbac.Synchronizer
	Auth         *auth.Service
}

// New opens and migrates the database, seeds the configured roles and builds the services.
func New(cfg *config.Config) (*Platform, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	reg, err := loadRegistry(cfg.RBAC)
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(cfg.DB, cfg.Log)
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	if err = seed(cfg.RBAC, db); err != nil {
		return nil, err
	}

	opts := []rbac.Option{
		rbac.WithOmnipotentRole(cfg.RBAC.OmnipotentRole),
		rbac.WithActor(cfg.RBAC.Actor),
		rbac.WithAudit(cfg.RBAC.Audit),
	}

	return &Platform{
		Config:       cfg,
		DB:           db,
		Registry:     reg,
		Generator:    rbac.NewGenerator(db, reg, opts...),
		Synchronizer: rbac.NewSynchronizer(db, reg, opts...),
		Auth:         auth.NewService(db, auth.WithOmnipotentRole(cfg.RBAC.OmnipotentRole), auth.WithRegistry(reg)),
	}, nil
}

// Close releases the database connections.
func (p *Platform) Close() error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database handle")
	}

	return sqlDB.Close()
}

// OpenDB opens the configured database with gorm statements logged through zerolog.
func OpenDB(cfg config.DB, logCfg logger.Log) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(dsn.Create(cfg))
	case config.DriverPostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		return nil, errors.Wrapf(config.ErrUnknownDriver, "driver %q", cfg.Driver)
	}

	sqlLevel, err := zerolog.ParseLevel(logCfg.SQLLevel)
	if err != nil || logCfg.SQLLevel == "" {
		sqlLevel = zerolog.DebugLevel
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlog.New(sqlLevel, gormlog.DefaultSlowThreshold),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.Driver)
	}

	// Every connection to ":memory:" opens a new empty database.
	if cfg.Driver == config.DriverSQLite && cfg.Path == memoryDB {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database handle")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	log.Debug().Str("driver", cfg.Driver).Msg("database connected")

	return db, nil
}

func loadRegistry(cfg config.RBAC) (*registry.Registry, error) {
	if cfg.RegistryFile == "" {
		return registry.Default(), nil
	}

	reg, err := registry.Load(cfg.RegistryFile)
	if err != nil {
		return nil, err
	}

	log.Info().Str("file", cfg.RegistryFile).Str("version", reg.Version).Msg("module registry loaded")

	return reg, nil
}
