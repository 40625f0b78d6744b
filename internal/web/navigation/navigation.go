// Package navigation builds the module menu a user may see.
package navigation

import (
	"strings"

	"github.com/ClinicOps/clinicops/internal/registry"
)

// MenuItem is one module entry of the side menu.
type MenuItem struct {
	Module string
	Title  string
	URL    string
	Active bool
}

// Menu returns the entries for the accessible modules in registry order.
// Modules unknown to the registry are skipped.
func Menu(reg *registry.Registry, accessible []string, activeModule string) []MenuItem {
	allowed := make(map[string]struct{}, len(accessible))
	for _, m := range accessible {
		allowed[m] = struct{}{}
	}

	items := make([]MenuItem, 0, len(accessible))

	for _, m := range reg.Modules {
		if _, ok := allowed[m.Key]; !ok {
			continue
		}

		items = append(items, MenuItem{
			Module: m.Key,
			Title:  m.Label,
			URL:    "/" + m.Key,
			Active: m.Key == activeModule,
		})
	}

	return items
}

// ActiveModule returns the first path segment, which names the module of a page.
func ActiveModule(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return strings.ToLower(segment)
}
