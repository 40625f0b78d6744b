package rbac

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/db/controller/permission"
	"github.com/ClinicOps/clinicops/internal/db/controller/role"
	"github.com/ClinicOps/clinicops/internal/db/controller/rolepermission"
	"github.com/ClinicOps/clinicops/internal/db/controller/setting"
	"github.com/ClinicOps/clinicops/internal/db/models"
	"github.com/ClinicOps/clinicops/internal/registry"
)

const (
	reasonForcedRegeneration = "forced regeneration"
	reasonRetiredModule      = "retired module"

	versionPrefix = "rbac.module."
	versionSuffix = ".version"
)

// VersionSetting is the setting that records which registry version module was generated from.
func VersionSetting(module string) string {
	return versionPrefix + module + versionSuffix
}

// ModuleResult summarises the generation of one module.
type ModuleResult struct {
	Module string
	// OperationID groups the audit rows written by this call.
	OperationID string
	// Created counts permissions inserted by this call.
	Created int
	// Updated counts permissions that already existed and were left untouched.
	Updated int
	// Deleted counts permissions removed by a forced regeneration.
	Deleted int
	// RevokedGrants counts role grants lost with the deleted permissions.
	RevokedGrants int
	// Attached counts permissions newly attached to the omnipotent role.
	Attached int
	// NoOp is set when the module was already complete and force was not requested.
	NoOp bool
	Err  error
}

// Report is the outcome of GenerateAll, one result per requested module in order.
type Report struct {
	Results []ModuleResult
}

// Created sums created permissions over all modules.
func (r Report) Created() int {
	n := 0
	for _, res := range r.Results {
		n += res.Created
	}

	return n
}

// Failed returns the results that carry an error.
func (r Report) Failed() []ModuleResult {
	var failed []ModuleResult
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}

	return failed
}

// Err returns nil if every module succeeded, otherwise the first failure
// annotated with the number of failed modules.
func (r Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}

	return errors.Wrapf(failed[0].Err, "%d of %d modules failed", len(failed), len(r.Results))
}

// Generator builds the permission catalog from the module registry.
// Calls must be serialised by the caller; the generator does not lock.
type Generator struct {
	db   *gorm.DB
	reg  *registry.Registry
	opts options
}

// NewGenerator creates a generator over db for the modules of reg.
func NewGenerator(db *gorm.DB, reg *registry.Registry, opts ...Option) *Generator {
	return &Generator{
		db:   db,
		reg:  reg,
		opts: newOptions(opts),
	}
}

// Registry returns the registry the generator works from.
func (g *Generator) Registry() *registry.Registry {
	return g.reg
}

// Existing counts the catalog rows of module.
// Interactive callers use it to decide whether a forced run needs confirmation.
func (g *Generator) Existing(module string) (int64, error) {
	if !g.reg.Has(module) {
		return 0, NewError(KindUnknownModule, module, nil)
	}

	count, err := permission.CountByModule(g.db, module)
	if err != nil {
		return 0, StorageFailure(module, err, "failed to count permissions")
	}

	return count, nil
}

// GenerateModule creates the permissions of one module and attaches them to the
// omnipotent role. The whole module is one transaction.
//
// Without force an already complete module is left alone and reported as NoOp;
// an incomplete one (e.g. after the registry gained an action) is completed.
// With force every existing permission of the module is deleted first, which
// also revokes every grant referencing it from every role.
func (g *Generator) GenerateModule(module string, force bool) (ModuleResult, error) {
	res := ModuleResult{Module: module}

	if !g.reg.Has(module) {
		res.Err = NewError(KindUnknownModule, module, nil)
		log.Error().Str("module", module).Msg("permission generation requested for unknown module")

		return res, res.Err
	}

	defs := g.reg.Permissions(module)
	audit := newTrail(g.opts)
	res.OperationID = audit.operationID

	err := g.db.Transaction(func(tx *gorm.DB) error {
		omnipotent, err := role.GetByName(tx, g.opts.omnipotentRole)
		if errors.Is(err, role.ErrRoleNotFound) {
			return NewError(KindRoleNotFound, g.opts.omnipotentRole, err)
		}
		if err != nil {
			return StorageFailure(module, err, "failed to load omnipotent role")
		}

		existing, err := permission.ListByModule(tx, module)
		if err != nil {
			return StorageFailure(module, err, "failed to list permissions")
		}

		switch {
		case len(existing) > 0 && force:
			if err = g.purge(tx, module, existing, reasonForcedRegeneration, audit, &res); err != nil {
				return err
			}
		case len(existing) > 0 && complete(existing, defs):
			res.NoOp = true
		}

		if !res.NoOp {
			if err = g.upsert(tx, defs, audit, &res); err != nil {
				return err
			}
		}

		// Heal the omnipotent role even on a no-op run.
		attached, err := rolepermission.AttachMissing(tx, omnipotent.ID, module, g.opts.actor)
		if err != nil {
			return StorageFailure(module, err, "failed to attach permissions to omnipotent role")
		}

		res.Attached = len(attached)
		audit.grants(models.AuditGrantAttached, omnipotent.Name, attached, "generation")

		if !res.NoOp {
			if err = g.recordVersion(tx, module); err != nil {
				return err
			}
		}

		return audit.flush(tx)
	})
	if err != nil {
		log.Error().Err(err).Str("module", module).Bool("force", force).Msg("permission generation rolled back")

		return ModuleResult{Module: module, OperationID: res.OperationID, Err: err}, err
	}

	log.Info().
		Str("module", module).
		Str("operation_id", res.OperationID).
		Bool("force", force).
		Bool("noop", res.NoOp).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("deleted", res.Deleted).
		Int("attached", res.Attached).
		Msg("permissions generated")

	return res, nil
}

// GenerateAll runs GenerateModule for each module in order. An empty list
// selects every registry module. A failing module does not stop its siblings.
func (g *Generator) GenerateAll(modules []string, force bool) Report {
	if len(modules) == 0 {
		modules = g.reg.Keys()
	}

	report := Report{Results: make([]ModuleResult, 0, len(modules))}

	for _, m := range modules {
		res, _ := g.GenerateModule(m, force)
		report.Results = append(report.Results, res)
	}

	return report
}

// Prune removes a module that is no longer in the registry from the catalog.
// Its permissions are deleted and revoked from every role, including the
// omnipotent role. Registered modules are refused; use GenerateModule with
// force to recreate them instead.
func (g *Generator) Prune(module string) (ModuleResult, error) {
	res := ModuleResult{Module: module}

	if module == "" {
		res.Err = NewError(KindUnknownModule, module, permission.ErrModuleEmpty)
		return res, res.Err
	}

	if g.reg.Has(module) {
		res.Err = NewError(KindRegisteredModule, module, nil)
		return res, res.Err
	}

	audit := newTrail(g.opts)
	res.OperationID = audit.operationID

	err := g.db.Transaction(func(tx *gorm.DB) error {
		existing, err := permission.ListByModule(tx, module)
		if err != nil {
			return StorageFailure(module, err, "failed to list permissions")
		}

		if len(existing) == 0 {
			res.NoOp = true
		} else if err = g.purge(tx, module, existing, reasonRetiredModule, audit, &res); err != nil {
			return err
		}

		err = setting.DeleteByName(tx, VersionSetting(module))
		if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
			return StorageFailure(module, err, "failed to forget registry version")
		}

		return audit.flush(tx)
	})
	if err != nil {
		log.Error().Err(err).Str("module", module).Msg("module prune rolled back")

		return ModuleResult{Module: module, OperationID: res.OperationID, Err: err}, err
	}

	log.Info().
		Str("module", module).
		Str("operation_id", res.OperationID).
		Int("deleted", res.Deleted).
		Int("revoked_grants", res.RevokedGrants).
		Msg("retired module pruned")

	return res, nil
}

func (g *Generator) recordVersion(tx *gorm.DB, module string) error {
	previous, err := setting.GetString(tx, VersionSetting(module), "")
	if err != nil {
		return StorageFailure(module, err, "failed to read registry version")
	}

	if previous != "" && previous != g.reg.Version {
		log.Info().
			Str("module", module).
			Str("from", previous).
			Str("to", g.reg.Version).
			Msg("module regenerated from a new registry version")
	}

	if _, err = setting.Set(tx, VersionSetting(module), []byte(g.reg.Version)); err != nil {
		return StorageFailure(module, err, "failed to record registry version")
	}

	return nil
}

func (g *Generator) purge(
	tx *gorm.DB,
	module string,
	existing []models.Permission,
	reason string,
	audit *trail,
	res *ModuleResult,
) error {
	grants, err := rolepermission.ListByModule(tx, module)
	if err != nil {
		return StorageFailure(module, err, "failed to list grants")
	}

	deleted, revoked, err := permission.DeleteByModule(tx, module)
	if err != nil {
		return StorageFailure(module, err, "failed to delete permissions")
	}

	res.Deleted = int(deleted)
	res.RevokedGrants = int(revoked)

	for _, gr := range grants {
		audit.add(models.AuditGrantRevoked, gr.RoleName,
			models.Permission{Name: gr.PermissionName, Module: gr.Module}, reason)
	}

	audit.grants(models.AuditPermissionDeleted, "", existing, reason)

	affected := make(map[string]struct{})
	for _, gr := range grants {
		affected[gr.RoleName] = struct{}{}
	}

	log.Warn().
		Str("module", module).
		Int("deleted", res.Deleted).
		Int("revoked_grants", res.RevokedGrants).
		Int("affected_roles", len(affected)).
		Str("reason", reason).
		Msg("permissions removed together with their grants")

	return nil
}

func (g *Generator) upsert(tx *gorm.DB, defs []registry.Definition, audit *trail, res *ModuleResult) error {
	for _, d := range defs {
		p := &models.Permission{
			Name:        d.Name,
			DisplayName: d.DisplayName,
			Description: d.Description,
			Module:      d.Module,
			CreatedBy:   g.opts.actor,
			UpdatedBy:   g.opts.actor,
		}

		created, err := permission.FirstOrCreate(tx, p)
		if err != nil {
			return StorageFailure(d.Module, err, fmt.Sprintf("failed to upsert permission %s", d.Name))
		}

		if created {
			res.Created++
			audit.add(models.AuditPermissionCreated, "", *p, "generation")

			continue
		}

		res.Updated++

		// The module column must always equal the name prefix.
		if p.Module != d.Module {
			err = tx.Model(p).Updates(map[string]any{"module": d.Module, "updated_by": g.opts.actor}).Error
			if err != nil {
				return StorageFailure(d.Module, err, fmt.Sprintf("failed to repair module of %s", d.Name))
			}
		}
	}

	return nil
}

// complete reports whether every definition already has a catalog row.
func complete(existing []models.Permission, defs []registry.Definition) bool {
	names := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		names[p.Name] = struct{}{}
	}

	for _, d := range defs {
		if _, ok := names[d.Name]; !ok {
			return false
		}
	}

	return true
}
