package auth

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/ClinicOps/clinicops/internal/registry"
	"github.com/ClinicOps/clinicops/internal/web/navigation"
)

// LocalsSubject is the fiber.Locals key under which guarded handlers find the resolved Subject.
const LocalsSubject = "Subject"

const (
	outcomeAllow = "allow"
	outcomeDeny  = "deny"
	outcomeError = "error"
)

var decisions = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "authorization_decisions_total",
		Help: "Number of authorization decisions, differentiated by permission and outcome.",
	},
	[]string{"permission", "outcome"},
)

// UserIDFunc extracts the authenticated user id from a request.
// Authentication happens upstream; ok is false for anonymous requests.
type UserIDFunc func(c fiber.Ctx) (userID uint64, ok bool)

// LocalsUserID reads a uint64 user id stored in fiber.Locals under key.
func LocalsUserID(key string) UserIDFunc {
	return func(c fiber.Ctx) (uint64, bool) {
		id, ok := c.Locals(key).(uint64)
		return id, ok && id > 0
	}
}

type checkFunc func(sub *Subject, names []string) (bool, error)

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(svc *Service, userID UserIDFunc, permission string) fiber.Handler {
	return guard(svc, userID, []string{permission}, svc.HasAllPermissions)
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(svc *Service, userID UserIDFunc, permissions ...string) fiber.Handler {
	return guard(svc, userID, permissions, svc.HasAnyPermission)
}

// RequireAllPermissions creates Fiber middleware that requires all the given permissions.
func RequireAllPermissions(svc *Service, userID UserIDFunc, permissions ...string) fiber.Handler {
	return guard(svc, userID, permissions, svc.HasAllPermissions)
}

// mustKnow panics at route setup when a guarded permission is not in the
// registry of svc. Without a registry every name is accepted.
func mustKnow(svc *Service, permissions []string) {
	if len(permissions) == 0 {
		panic("auth: guard needs at least one permission")
	}

	if svc.reg == nil {
		return
	}

	for _, name := range permissions {
		if _, ok := svc.reg.Lookup(name); !ok {
			panic(fmt.Sprintf("auth: permission %q is not in registry %s", name, svc.reg.Version))
		}
	}
}

// guard answers 401 without a user, 403 on denial and 500 when storage fails.
// A denial looks the same whether the permission is missing from the role or
// from the catalog.
func guard(svc *Service, userID UserIDFunc, permissions []string, check checkFunc) fiber.Handler {
	mustKnow(svc, permissions)

	label := strings.Join(permissions, ",")

	return func(c fiber.Ctx) error {
		id, ok := userID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		sub, err := svc.Subject(id)
		if errors.Is(err, ErrUserNotFound) {
			log.Warn().Uint64("user_id", id).Msg("Authenticated user does not exist")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if err == nil {
			ok, err = check(sub, permissions)
		}

		if err != nil {
			decisions.WithLabelValues(label, outcomeError).Inc()
			log.Error().Err(err).Uint64("user_id", id).Str("permission", label).
				Msg("Failed to check permission")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !ok {
			decisions.WithLabelValues(label, outcomeDeny).Inc()
			log.Warn().Uint64("user_id", id).Str("permission", label).
				Msg("User lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString("Forbidden: You don't have permission to access this resource")
		}

		decisions.WithLabelValues(label, outcomeAllow).Inc()
		c.Locals(LocalsSubject, sub)

		return c.Next()
	}
}

// AddPermissionsToLocals is a Fiber middleware that adds the permissions,
// accessible modules and the navigation menu of the current user to fiber.Locals.
// Templates use them for conditional rendering. Anonymous requests pass unchanged.
func AddPermissionsToLocals(svc *Service, reg *registry.Registry, userID UserIDFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := userID(c)
		if !ok {
			return c.Next()
		}

		sub, err := svc.Subject(id)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", id).Msg("Failed to resolve user")
			return c.Next()
		}

		permissions, err := svc.PermissionNames(sub)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", id).Msg("Failed to get user permissions")
			return c.Next()
		}

		modules, err := svc.AccessibleModules(sub)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", id).Msg("Failed to get accessible modules")
			return c.Next()
		}

		c.Locals("permissions", permissions)
		c.Locals("modules", modules)
		c.Locals("menu", navigation.Menu(reg, modules, navigation.ActiveModule(c.Path())))
		c.Locals("hasPermission", func(perm string) bool {
			has, errHas := svc.HasPermission(sub, perm)
			return errHas == nil && has
		})

		return c.Next()
	}
}
