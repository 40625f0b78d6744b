package config

import (
	"errors"
)

var (
	// ErrUnknownDriver error if config db.driver is not mysql, postgres or sqlite.
	ErrUnknownDriver = errors.New("toml config db.driver must be mysql, postgres or sqlite")

	// ErrEmptyDBPath error if the sqlite driver has no db.path.
	ErrEmptyDBPath = errors.New("toml config db.path can not be empty for sqlite")

	// ErrEmptyDBHost error if a network driver has no db.host.
	ErrEmptyDBHost = errors.New("toml config db.host can not be empty")

	// ErrEmptyDBName error if a network driver has no db.name.
	ErrEmptyDBName = errors.New("toml config db.name can not be empty")

	// ErrEmptyOmnipotentRole error if rbac.omnipotentRole is empty.
	ErrEmptyOmnipotentRole = errors.New("toml config rbac.omnipotentRole can not be empty")

	// ErrEmptySeedRoleName error if an entry of rbac.seedRoles has no name.
	ErrEmptySeedRoleName = errors.New("toml config rbac.seedRoles entries need a name")
)
