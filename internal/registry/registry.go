// Package registry describes the known application modules and the actions
// each of them supports. The registry drives permission generation and is the
// source of the module.action naming contract.
package registry

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Separator joins module and action into a permission name.
const Separator = "."

//go:embed registry.yaml
var defaultRegistry []byte

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Action is a verb within a module.
type Action struct {
	Key   string `yaml:"key" validate:"required,permkey"`
	Label string `yaml:"label" validate:"required"`
}

// Module is a named functional area grouping permissions.
type Module struct {
	Key     string   `yaml:"key" validate:"required,permkey"`
	Label   string   `yaml:"label" validate:"required"`
	Actions []Action `yaml:"actions" validate:"dive"`
}

// Registry is a versioned description of all modules.
// Every module supports DefaultActions followed by its own Actions.
type Registry struct {
	Version        string   `yaml:"version" validate:"required"`
	DefaultActions []Action `yaml:"defaultActions" validate:"required,min=1,dive"`
	Modules        []Module `yaml:"modules" validate:"required,min=1,dive"`
}

// Definition is a fully resolved permission as the generator writes it.
type Definition struct {
	Name        string
	Module      string
	Action      string
	DisplayName string
	Description string
}

// Default returns the registry embedded in the binary.
// Each call returns a new value, callers may modify it freely.
func Default() *Registry {
	r, err := Parse(defaultRegistry)
	if err != nil {
		panic(errors.Wrap(err, "embedded module registry is invalid"))
	}

	return r
}

// Load reads and validates a registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read module registry %s", path)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML registry.
func Parse(data []byte) (*Registry, error) {
	var r Registry

	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "failed to decode module registry")
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return &r, nil
}

// New builds and validates a registry in code. Tests use it to inject a reduced registry.
func New(version string, defaults []Action, modules ...Module) (*Registry, error) {
	r := &Registry{
		Version:        version,
		DefaultActions: defaults,
		Modules:        modules,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks field formats and key uniqueness.
func (r *Registry) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("permkey", func(fl validator.FieldLevel) bool {
		return keyPattern.MatchString(fl.Field().String())
	}); err != nil {
		return errors.Wrap(err, "failed to register permkey validation")
	}

	if err := v.Struct(r); err != nil {
		return errors.Wrap(err, "invalid module registry")
	}

	seen := make(map[string]struct{}, len(r.Modules))

	for _, m := range r.Modules {
		if _, dup := seen[m.Key]; dup {
			return errors.Wrapf(ErrDuplicateModule, "module %q", m.Key)
		}

		seen[m.Key] = struct{}{}

		actions := make(map[string]struct{})

		for _, a := range r.actions(m) {
			if _, dup := actions[a.Key]; dup {
				return errors.Wrapf(ErrDuplicateAction, "module %q action %q", m.Key, a.Key)
			}

			actions[a.Key] = struct{}{}
		}
	}

	return nil
}

// Has reports whether module is a registry key.
func (r *Registry) Has(module string) bool {
	_, ok := r.Module(module)
	return ok
}

// Module returns the registry entry for key.
func (r *Registry) Module(key string) (Module, bool) {
	for _, m := range r.Modules {
		if m.Key == key {
			return m, true
		}
	}

	return Module{}, false
}

// Keys returns all module keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.Modules))
	for _, m := range r.Modules {
		keys = append(keys, m.Key)
	}

	return keys
}

// Actions returns the default actions followed by the module specific actions.
// Unknown modules have no actions.
func (r *Registry) Actions(module string) []Action {
	m, ok := r.Module(module)
	if !ok {
		return nil
	}

	return r.actions(m)
}

func (r *Registry) actions(m Module) []Action {
	out := make([]Action, 0, len(r.DefaultActions)+len(m.Actions))
	out = append(out, r.DefaultActions...)

	return append(out, m.Actions...)
}

// Permissions resolves every permission of module in action order.
func (r *Registry) Permissions(module string) []Definition {
	m, ok := r.Module(module)
	if !ok {
		return nil
	}

	actions := r.actions(m)
	defs := make([]Definition, 0, len(actions))

	for _, a := range actions {
		defs = append(defs, define(m, a))
	}

	return defs
}

// Definitions resolves the whole catalog in registry order.
func (r *Registry) Definitions() []Definition {
	var defs []Definition
	for _, m := range r.Modules {
		defs = append(defs, r.Permissions(m.Key)...)
	}

	return defs
}

// Names returns every permission name in registry order.
func (r *Registry) Names() []string {
	defs := r.Definitions()

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}

	return names
}

// Lookup resolves a permission name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	module, action, err := Split(name)
	if err != nil {
		return Definition{}, false
	}

	for _, d := range r.Permissions(module) {
		if d.Action == action {
			return d, true
		}
	}

	return Definition{}, false
}

// Name builds a permission name.
func Name(module, action string) string {
	return module + Separator + action
}

// Split parses a permission name into module and action.
// The module never contains the separator, so the first separator splits.
func Split(name string) (module, action string, err error) {
	module, action, ok := strings.Cut(name, Separator)
	if !ok || module == "" || action == "" {
		return "", "", errors.Wrapf(ErrInvalidPermissionName, "%q", name)
	}

	return module, action, nil
}

func define(m Module, a Action) Definition {
	return Definition{
		Name:        Name(m.Key, a.Key),
		Module:      m.Key,
		Action:      a.Key,
		DisplayName: a.Label + " " + m.Label,
		Description: "Allows to " + strings.ToLower(a.Label) + " in " + m.Label + ".",
	}
}
