package app

import "errors"

var (
	// ErrNoModules is returned when a command needs modules but none were named.
	ErrNoModules = errors.New("name at least one module")

	// ErrModulesAndAll is returned when modules are named together with --all.
	ErrModulesAndAll = errors.New("name modules or pass --all, not both")

	// ErrCatalogDrift is returned by permission status --strict when the catalog differs from the registry.
	ErrCatalogDrift = errors.New("permission catalog differs from the module registry")

	// ErrPermissionDenied is returned by check when at least one permission is denied.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotConfirmed is returned by destructive commands run without --yes.
	ErrNotConfirmed = errors.New("destructive operation not confirmed")
)
