package config

import (
	"github.com/ClinicOps/clinicops/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode bool       `toml:"devMode"` // enable dev mode for development
	DB      DB         `toml:"db"`
	Log     logger.Log `toml:"log"`
	RBAC    RBAC       `toml:"rbac"`
}

// RBAC holds the authorization settings.
type RBAC struct {
	// OmnipotentRole is the reserved role that holds every permission.
	OmnipotentRole string `toml:"omnipotentRole"`
	// RegistryFile replaces the embedded module registry when set.
	RegistryFile string `toml:"registryFile"`
	// Audit enables the permission audit trail.
	Audit bool `toml:"audit"`
	// Actor is recorded as created_by/updated_by when the CLI does not name one.
	Actor string `toml:"actor"`
	// SeedRoles are created on startup if missing, next to the omnipotent role.
	SeedRoles []SeedRole `toml:"seedRoles"`
}

// SeedRole describes a role created on startup.
type SeedRole struct {
	Name        string `toml:"name"`
	DisplayName string `toml:"displayName"`
	Description string `toml:"description"`
}
