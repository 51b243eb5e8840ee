package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/escolar/internal/app/models"
)

// RoleGranter grants a role to a user
type RoleGranter interface {
	GrantRole(ctx context.Context, userID uuid.UUID, role models.Role) error
}

// BootstrapAdmin grants the admin role to userID so a fresh deployment has someone
// able to assign roles. An empty userID does nothing.
func BootstrapAdmin(ctx context.Context, userID string, roles RoleGranter, lgr zerolog.Logger) error {
	raw := strings.TrimSpace(userID)
	if raw == "" {
		lgr.Debug().Msg("No bootstrap admin configured")
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid bootstrap admin user id %q: %w", raw, err)
	}
	if err := roles.GrantRole(ctx, id, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to grant bootstrap admin role: %w", err)
	}

	lgr.Info().Str("userID", id.String()).Msg("Bootstrap admin role granted")
	return nil
}
