package auth

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/db/controller/permission"
	"github.com/ClinicOps/clinicops/internal/db/controller/rolepermission"
	"github.com/ClinicOps/clinicops/internal/db/controller/user"
	"github.com/ClinicOps/clinicops/internal/db/models"
	"github.com/ClinicOps/clinicops/internal/rbac"
	"github.com/ClinicOps/clinicops/internal/registry"
)

// Subject is the authorization view of a user: who they are and which role they hold.
// A nil Subject, or one without RoleID, holds no permission at all.
type Subject struct {
	UserID   uint64
	RoleID   uint
	RoleName string
}

func (s *Subject) hasRole() bool {
	return s != nil && s.RoleID != 0
}

// Service answers authorization questions. Every method is a plain read of the
// current catalog: no caching, no locking, safe for any number of concurrent callers.
// Storage failures are returned as errors of kind rbac.KindStorageFailure and
// never reported as a denial.
type Service struct {
	db             *gorm.DB
	omnipotentRole string
	reg            *registry.Registry
}

// Option configures a Service.
type Option func(*Service)

// WithOmnipotentRole overrides the reserved omnipotent role name.
func WithOmnipotentRole(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.omnipotentRole = name
		}
	}
}

// WithRegistry makes the middleware constructors reject permission names the
// registry does not define.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Service) {
		s.reg = reg
	}
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, omnipotentRole: rbac.DefaultOmnipotentRole}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IsOmnipotent reports whether sub holds the omnipotent role.
func (s *Service) IsOmnipotent(sub *Subject) bool {
	return sub.hasRole() && sub.RoleName == s.omnipotentRole
}

// Subject loads the subject of a user. Users that are inactive, have no role
// or hold an inactive role resolve to a nil subject.
func (s *Service) Subject(userID uint64) (*Subject, error) {
	u, err := user.GetByID(s.db, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, rbac.StorageFailure("", err, "failed to load user")
	}

	return subjectOf(u), nil
}

// SubjectByUsername loads the subject of a user by username.
func (s *Service) SubjectByUsername(username string) (*Subject, error) {
	u, err := user.GetByUsername(s.db, username)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, rbac.StorageFailure("", err, "failed to load user")
	}

	return subjectOf(u), nil
}

func subjectOf(u *models.User) *Subject {
	if !u.Active || u.RoleID == nil || u.Role == nil || !u.Role.IsActive {
		return nil
	}

	return &Subject{UserID: u.ID, RoleID: u.Role.ID, RoleName: u.Role.Name}
}

// HasPermission checks if sub may perform the named permission.
// The omnipotent role is granted everything, including names missing from the catalog.
// Any other role needs a grant; unknown names are denied.
func (s *Service) HasPermission(sub *Subject, name string) (bool, error) {
	if !sub.hasRole() {
		return false, nil
	}

	if s.IsOmnipotent(sub) {
		return true, nil
	}

	var count int64

	err := s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ? AND permissions.name = ?", sub.RoleID, name).
		Count(&count).Error
	if err != nil {
		return false, rbac.StorageFailure(name, err, "failed to check role permission")
	}

	return count > 0, nil
}

// HasAnyPermission checks if sub has at least one of the given permissions.
func (s *Service) HasAnyPermission(sub *Subject, names []string) (bool, error) {
	for _, name := range names {
		has, err := s.HasPermission(sub, name)
		if err != nil {
			return false, err
		}

		if has {
			return true, nil
		}
	}

	return false, nil
}

// HasAllPermissions checks if sub has all of the given permissions.
// An empty list is granted only to a subject holding a role.
func (s *Service) HasAllPermissions(sub *Subject, names []string) (bool, error) {
	if !sub.hasRole() {
		return false, nil
	}

	for _, name := range names {
		has, err := s.HasPermission(sub, name)
		if err != nil {
			return false, err
		}

		if !has {
			return false, nil
		}
	}

	return true, nil
}

// AllPermissions returns the permissions of sub ordered by name: the whole
// catalog for the omnipotent role, the attached set otherwise.
func (s *Service) AllPermissions(sub *Subject) ([]models.Permission, error) {
	if !sub.hasRole() {
		return []models.Permission{}, nil
	}

	var (
		perms []models.Permission
		err   error
	)

	if s.IsOmnipotent(sub) {
		perms, err = permission.All(s.db)
	} else {
		perms, err = rolepermission.Held(s.db, sub.RoleID, "")
	}

	if err != nil {
		return nil, rbac.StorageFailure(sub.RoleName, err, "failed to list permissions")
	}

	if perms == nil {
		perms = []models.Permission{}
	}

	return perms, nil
}

// PermissionNames returns the names of AllPermissions.
func (s *Service) PermissionNames(sub *Subject) ([]string, error) {
	perms, err := s.AllPermissions(sub)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}

	return names, nil
}

// AccessibleModules returns the sorted modules in which sub holds at least one
// permission. The omnipotent role reaches every module of the catalog.
// Callers intersect the result with the modules their tenant owns.
func (s *Service) AccessibleModules(sub *Subject) ([]string, error) {
	if !sub.hasRole() {
		return []string{}, nil
	}

	var (
		modules []string
		err     error
	)

	if s.IsOmnipotent(sub) {
		modules, err = permission.Modules(s.db)
	} else {
		modules, err = rolepermission.HeldModules(s.db, sub.RoleID)
	}

	if err != nil {
		return nil, rbac.StorageFailure(sub.RoleName, err, "failed to list modules")
	}

	if modules == nil {
		modules = []string{}
	}

	return modules, nil
}
