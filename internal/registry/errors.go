package registry

import "errors"

var (
	// ErrDuplicateModule is returned if a module key is defined more than once.
	ErrDuplicateModule = errors.New("module key is defined more than once")

	// ErrDuplicateAction is returned if an action key appears twice within one module,
	// including a module specific action that shadows a default action.
	ErrDuplicateAction = errors.New("action key is defined more than once for module")

	// ErrInvalidPermissionName is returned if a permission name is not in module.action format.
	ErrInvalidPermissionName = errors.New("permission name must be in module.action format")
)
