package rbac

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/db/controller/role"
	"github.com/ClinicOps/clinicops/internal/db/controller/rolepermission"
	"github.com/ClinicOps/clinicops/internal/db/models"
	"github.com/ClinicOps/clinicops/internal/registry"
)

// ModuleChange is the effect of a synchronisation on one module.
type ModuleChange struct {
	Module   string
	Attached int
	Detached int
}

// ItemError is a failure tied to one requested module.
type ItemError struct {
	Item string
	Err  error
}

// SyncResult summarises a synchronisation of one role.
type SyncResult struct {
	Role        string
	OperationID string
	Attached    int
	Detached    int
	Modules     []ModuleChange
	Errors      []ItemError
}

func (r *SyncResult) record(module string, attached, detached int) {
	if attached == 0 && detached == 0 {
		return
	}

	r.Attached += attached
	r.Detached += detached
	r.Modules = append(r.Modules, ModuleChange{Module: module, Attached: attached, Detached: detached})
}

// Synchronizer reconciles the grants of a role with the permission catalog.
// It performs no authorization of its own; gate access to it in the caller.
type Synchronizer struct {
	db   *gorm.DB
	reg  *registry.Registry
	opts options
}

// NewSynchronizer creates a synchronizer over db. reg decides which modules may be attached.
func NewSynchronizer(db *gorm.DB, reg *registry.Registry, opts ...Option) *Synchronizer {
	return &Synchronizer{
		db:   db,
		reg:  reg,
		opts: newOptions(opts),
	}
}

// IsOmnipotent reports whether roleName is the reserved omnipotent role.
func (s *Synchronizer) IsOmnipotent(roleName string) bool {
	return roleName == s.opts.omnipotentRole
}

// AttachModule grants every permission of module the role does not hold yet.
// Grants of other modules are never touched. For the omnipotent role the
// whole catalog is attached instead.
func (s *Synchronizer) AttachModule(roleName, module string) (SyncResult, error) {
	if module == "" {
		err := NewError(KindUnknownModule, module, rolepermission.ErrModuleEmpty)

		return SyncResult{Role: roleName, Errors: []ItemError{{Item: module, Err: err}}}, err
	}

	if !s.reg.Has(module) {
		err := NewError(KindUnknownModule, module, nil)

		return SyncResult{Role: roleName, Errors: []ItemError{{Item: module, Err: err}}}, err
	}

	return s.run(roleName, "attach module", func(tx *gorm.DB, r *models.Role, audit *trail, res *SyncResult) error {
		if s.IsOmnipotent(r.Name) {
			return s.attachCatalog(tx, r, audit, res)
		}

		return s.attach(tx, r, module, audit, res)
	})
}

// DetachModule removes every grant of the role whose permission belongs to module.
// The module does not need to be in the registry, which allows cleaning up
// grants of retired modules. The omnipotent role is never detached.
func (s *Synchronizer) DetachModule(roleName, module string) (SyncResult, error) {
	if module == "" {
		err := NewError(KindUnknownModule, module, rolepermission.ErrModuleEmpty)

		return SyncResult{Role: roleName, Errors: []ItemError{{Item: module, Err: err}}}, err
	}

	if s.IsOmnipotent(roleName) {
		err := NewError(KindImmutableRole, roleName, nil)

		return SyncResult{Role: roleName, Errors: []ItemError{{Item: module, Err: err}}}, err
	}

	return s.run(roleName, "detach module", func(tx *gorm.DB, r *models.Role, audit *trail, res *SyncResult) error {
		return s.detach(tx, r, module, audit, res)
	})
}

// SyncRole replaces the module grants of the role with desiredModules.
// Held modules that are not desired are detached first, then desired modules
// that are not held are attached; modules already held keep their current
// subset of actions. Unknown modules abort the call before any change, since
// dropping them from the desired set would detach what the operator meant to keep.
// For the omnipotent role the whole catalog is attached and nothing is detached.
func (s *Synchronizer) SyncRole(roleName string, desiredModules []string) (SyncResult, error) {
	if s.IsOmnipotent(roleName) {
		return s.run(roleName, "sync", func(tx *gorm.DB, r *models.Role, audit *trail, res *SyncResult) error {
			return s.attachCatalog(tx, r, audit, res)
		})
	}

	desired := make(map[string]struct{}, len(desiredModules))
	ordered := make([]string, 0, len(desiredModules))

	var itemErrs []ItemError

	for _, m := range desiredModules {
		if _, dup := desired[m]; dup {
			continue
		}

		if !s.reg.Has(m) {
			itemErrs = append(itemErrs, ItemError{Item: m, Err: NewError(KindUnknownModule, m, nil)})
			continue
		}

		desired[m] = struct{}{}
		ordered = append(ordered, m)
	}

	if len(itemErrs) > 0 {
		res := SyncResult{Role: roleName, Errors: itemErrs}

		return res, errors.Wrapf(itemErrs[0].Err, "sync of role %q aborted, %d unknown modules", roleName, len(itemErrs))
	}

	return s.run(roleName, "sync", func(tx *gorm.DB, r *models.Role, audit *trail, res *SyncResult) error {
		held, err := rolepermission.HeldModules(tx, r.ID)
		if err != nil {
			return StorageFailure(r.Name, err, "failed to list held modules")
		}

		heldSet := make(map[string]struct{}, len(held))

		for _, m := range held {
			heldSet[m] = struct{}{}

			if _, keep := desired[m]; keep {
				continue
			}

			if err = s.detach(tx, r, m, audit, res); err != nil {
				return err
			}
		}

		for _, m := range ordered {
			if _, ok := heldSet[m]; ok {
				continue
			}

			if err = s.attach(tx, r, m, audit, res); err != nil {
				return err
			}
		}

		return nil
	})
}

type syncFunc func(tx *gorm.DB, r *models.Role, audit *trail, res *SyncResult) error

// run executes fn for the named role in one transaction and writes the audit trail.
func (s *Synchronizer) run(roleName, op string, fn syncFunc) (SyncResult, error) {
	audit := newTrail(s.opts)
	res := SyncResult{Role: roleName, OperationID: audit.operationID}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		r, err := role.GetByName(tx, roleName)
		if errors.Is(err, role.ErrRoleNotFound) {
			return NewError(KindRoleNotFound, roleName, err)
		}
		if err != nil {
			return StorageFailure(roleName, err, "failed to load role")
		}

		if err = fn(tx, r, audit, &res); err != nil {
			return err
		}

		return audit.flush(tx)
	})
	if err != nil {
		log.Error().Err(err).Str("role", roleName).Str("operation", op).Msg("role synchronisation rolled back")

		return SyncResult{Role: roleName, OperationID: res.OperationID}, err
	}

	log.Info().
		Str("role", roleName).
		Str("operation", op).
		Str("operation_id", res.OperationID).
		Int("attached", res.Attached).
		Int("detached", res.Detached).
		Msg("role synchronised")

	return res, nil
}

func (s *Synchronizer) attach(tx *gorm.DB, r *models.Role, module string, audit *trail, res *SyncResult) error {
	attached, err := rolepermission.AttachMissing(tx, r.ID, module, s.opts.actor)
	if err != nil {
		return StorageFailure(r.Name, err, "failed to attach module "+module)
	}

	audit.grants(models.AuditGrantAttached, r.Name, attached, "attach module")
	res.record(module, len(attached), 0)

	return nil
}

func (s *Synchronizer) detach(tx *gorm.DB, r *models.Role, module string, audit *trail, res *SyncResult) error {
	revoked, err := rolepermission.DetachModule(tx, r.ID, module)
	if err != nil {
		return StorageFailure(r.Name, err, "failed to detach module "+module)
	}

	audit.grants(models.AuditGrantRevoked, r.Name, revoked, "detach module")
	res.record(module, 0, len(revoked))

	return nil
}

// attachCatalog attaches every catalog permission the role does not hold yet.
func (s *Synchronizer) attachCatalog(tx *gorm.DB, r *models.Role, audit *trail, res *SyncResult) error {
	attached, err := rolepermission.AttachMissing(tx, r.ID, "", s.opts.actor)
	if err != nil {
		return StorageFailure(r.Name, err, "failed to attach catalog")
	}

	audit.grants(models.AuditGrantAttached, r.Name, attached, "omnipotent role sync")

	perModule := make(map[string]int)
	order := make([]string, 0)

	for _, p := range attached {
		if _, ok := perModule[p.Module]; !ok {
			order = append(order, p.Module)
		}

		perModule[p.Module]++
	}

	for _, m := range order {
		res.record(m, perModule[m], 0)
	}

	return nil
}
