package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/repositories"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/logger"
)

// ErrAdminRequired is returned when a non-admin actor attempts an admin operation
var ErrAdminRequired = apperrors.NewCustomError(apperrors.ErrPermissionDenied, "only administrators can perform this action").WithCode("ADMIN_REQUIRED")

// Actor is the verified identity of the caller together with the role it held
// when the request was authorized. It is passed explicitly to every service call.
type Actor struct {
	UserID uuid.UUID
	Role   models.Role
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// UserIDString returns the user id in the form stored in audit records, nil for an anonymous actor
func (a Actor) UserIDString() *string {
	if a.UserID == uuid.Nil {
		return nil
	}
	s := a.UserID.String()
	return &s
}

// RequireAdmin returns ErrAdminRequired unless the actor is an admin
func RequireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// AuthorizationService resolves authenticated users to actors
type AuthorizationService struct {
	roles repositories.RoleStore
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(roles repositories.RoleStore) *AuthorizationService {
	return &AuthorizationService{
		roles: roles,
	}
}

// ResolveActor looks up the role of userID. Users without a role row are pending.
func (s *AuthorizationService) ResolveActor(ctx context.Context, userID uuid.UUID) (Actor, error) {
	if userID == uuid.Nil {
		return Actor{}, apperrors.ErrUnauthenticated
	}

	role, err := s.roles.GetRole(ctx, userID.String())
	if err != nil {
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error resolving user role")
		return Actor{}, fmt.Errorf("failed to resolve role: %w", err)
	}

	return Actor{UserID: userID, Role: role}, nil
}

// GrantRole assigns a role to a user. Used to seed the bootstrap administrator.
func (s *AuthorizationService) GrantRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if userID == uuid.Nil {
		return apperrors.NewValidationError("user id is required")
	}
	if err := s.roles.UpsertRole(ctx, userID.String(), role); err != nil {
		return fmt.Errorf("failed to grant role: %w", err)
	}
	logger.Info().Str("userID", userID.String()).Str("role", string(role)).Msg("Role granted")
	return nil
}

// RequestAdmin records that the actor asks to become an administrator. An admin has nothing to request.
func (s *AuthorizationService) RequestAdmin(ctx context.Context, actor Actor) error {
	if actor.UserID == uuid.Nil {
		return apperrors.ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return apperrors.NewConflictError("user is already an administrator")
	}
	if err := s.roles.RequestAdmin(ctx, actor.UserID.String()); err != nil {
		return fmt.Errorf("failed to request admin role: %w", err)
	}
	logger.Info().Str("userID", actor.UserID.String()).Str("role", string(actor.Role)).Msg("Admin role requested")
	return nil
}
