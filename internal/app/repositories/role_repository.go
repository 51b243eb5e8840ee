package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/db"
	"github.com/yigit/escolar/internal/pkg/logger"
)

// RoleStore reads and grants roles of the user_roles table
type RoleStore interface {
	// GetRole returns the stored role, RolePending when the user has no row.
	GetRole(ctx context.Context, userID string) (models.Role, error)
	UpsertRole(ctx context.Context, userID string, role models.Role) error
	// RequestAdmin marks the user as asking for the admin role without granting it.
	RequestAdmin(ctx context.Context, userID string) error
}

// RoleRepository handles user_roles database operations
type RoleRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(conn db.DBTX) *RoleRepository {
	return &RoleRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// GetRole returns the role of a user
func (r *RoleRepository) GetRole(ctx context.Context, userID string) (models.Role, error) {
	sql, args, err := r.sb.Select("role").
		From("user_roles").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get role SQL")
		return "", fmt.Errorf("failed to build get role query: %w", err)
	}

	var role *string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RolePending, nil
		}
		logger.Error().Err(err).Str("userID", userID).Msg("Error scanning role row")
		return "", fmt.Errorf("error retrieving role: %w", err)
	}
	if role == nil {
		return models.RolePending, nil
	}

	return models.ParseRole(*role), nil
}

// UpsertRole grants a role, replacing any previous one
func (r *RoleRepository) UpsertRole(ctx context.Context, userID string, role models.Role) error {
	sql, args, err := r.sb.Insert("user_roles").
		Columns("id", "role").
		Values(userID, string(role)).
		Suffix("ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert role SQL")
		return fmt.Errorf("failed to build upsert role query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing upsert role query")
		return fmt.Errorf("error granting role: %w", err)
	}

	return nil
}

// RequestAdmin sets requested_admin, inserting a row without a role for unknown users
func (r *RoleRepository) RequestAdmin(ctx context.Context, userID string) error {
	sql, args, err := r.sb.Insert("user_roles").
		Columns("id", "requested_admin").
		Values(userID, true).
		Suffix("ON CONFLICT (id) DO UPDATE SET requested_admin = TRUE").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building request admin SQL")
		return fmt.Errorf("failed to build request admin query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("userID", userID).Msg("Error executing request admin query")
		return fmt.Errorf("error requesting admin role: %w", err)
	}

	return nil
}
