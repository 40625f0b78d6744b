package rbac

import (
	"strings"

	"github.com/ClinicOps/clinicops/internal/db/controller/permission"
	"github.com/ClinicOps/clinicops/internal/db/controller/setting"
)

// ModuleStatus compares the catalog rows of one module with the registry.
type ModuleStatus struct {
	Module string
	// Registered is false for modules present in the catalog but no longer in the registry.
	Registered bool
	Expected   int
	Present    int
	// Missing lists registry permissions without a catalog row.
	Missing []string
	// Stale lists catalog rows the registry no longer defines.
	Stale []string
	// GeneratedVersion is the registry version recorded by the last generation, if any.
	GeneratedVersion string
}

// InSync reports whether the module catalog matches the registry exactly.
func (s ModuleStatus) InSync() bool {
	return s.Registered && len(s.Missing) == 0 && len(s.Stale) == 0
}

// Status reports drift between the registry and the catalog, registry modules
// first in registry order, followed by orphaned catalog modules.
func (g *Generator) Status() ([]ModuleStatus, error) {
	counts, err := permission.CountPerModule(g.db)
	if err != nil {
		return nil, StorageFailure("", err, "failed to count catalog modules")
	}

	versions, err := g.versions()
	if err != nil {
		return nil, err
	}

	modules := g.reg.Keys()
	for _, c := range counts {
		if !g.reg.Has(c.Module) {
			modules = append(modules, c.Module)
		}
	}

	out := make([]ModuleStatus, 0, len(modules))

	for _, m := range modules {
		st, err := g.moduleStatus(m)
		if err != nil {
			return nil, err
		}

		st.GeneratedVersion = versions[m]
		out = append(out, st)
	}

	return out, nil
}

// versions maps modules to the registry version they were last generated from.
func (g *Generator) versions() (map[string]string, error) {
	settings, err := setting.ListByPrefix(g.db, versionPrefix)
	if err != nil {
		return nil, StorageFailure("", err, "failed to read registry versions")
	}

	out := make(map[string]string, len(settings))

	for _, s := range settings {
		module := strings.TrimSuffix(strings.TrimPrefix(s.Name, versionPrefix), versionSuffix)
		out[module] = string(s.Value)
	}

	return out, nil
}

func (g *Generator) moduleStatus(module string) (ModuleStatus, error) {
	st := ModuleStatus{Module: module, Registered: g.reg.Has(module)}

	existing, err := permission.ListByModule(g.db, module)
	if err != nil {
		return st, StorageFailure(module, err, "failed to list permissions")
	}

	st.Present = len(existing)

	defs := g.reg.Permissions(module)
	st.Expected = len(defs)

	defined := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		defined[d.Name] = struct{}{}
	}

	present := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		present[p.Name] = struct{}{}

		if _, ok := defined[p.Name]; !ok {
			st.Stale = append(st.Stale, p.Name)
		}
	}

	for _, d := range defs {
		if _, ok := present[d.Name]; !ok {
			st.Missing = append(st.Missing, d.Name)
		}
	}

	return st, nil
}
