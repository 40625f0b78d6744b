package platform

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ClinicOps/clinicops/internal/config"
	"github.com/ClinicOps/clinicops/internal/db/controller/role"
	"github.com/ClinicOps/clinicops/internal/db/models"
)

// seed creates the omnipotent role and the configured roles if they are missing.
// Existing roles are left as they are.
func seed(cfg config.RBAC, db *gorm.DB) error {
	roles := make([]models.Role, 0, len(cfg.SeedRoles)+1)
	roles = append(roles, models.Role{
		Name:        cfg.OmnipotentRole,
		DisplayName: "Super Admin",
		Description: "Holds every permission",
		IsActive:    true,
		IsSystem:    true,
	})

	for _, r := range cfg.SeedRoles {
		if r.Name == cfg.OmnipotentRole {
			continue
		}

		roles = append(roles, models.Role{
			Name:        r.Name,
			DisplayName: r.DisplayName,
			Description: r.Description,
			IsActive:    true,
		})
	}

	for _, r := range roles {
		_, created, err := role.Ensure(db, r)
		if err != nil {
			return errors.Wrapf(err, "failed to seed role %s", r.Name)
		}

		if created {
			log.Info().Str("role", r.Name).Msg("role seeded")
		}
	}

	return nil
}
