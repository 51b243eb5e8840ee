package services

import (
	"context"
	"fmt"

	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/repositories"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/auditgap"
)

// HistoryService reads the audit log
type HistoryService struct {
	history repositories.HistoryStore
	gaps    auditgap.Lister // nil when gap tracking is disabled
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(history repositories.HistoryStore, gaps auditgap.Lister) *HistoryService {
	return &HistoryService{history: history, gaps: gaps}
}

// ListHistory returns the records matching filter, newest first
func (s *HistoryService) ListHistory(ctx context.Context, actor auth.Actor, filter models.HistoryFilter) ([]*models.HistoryRecord, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if filter.ChangeType != nil && !filter.ChangeType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown tipo_cambio %q", *filter.ChangeType))
	}
	if filter.StudentID != nil && *filter.StudentID <= 0 {
		return nil, apperrors.NewValidationError("id_alumno must be a positive number")
	}

	records, err := s.history.ListHistory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return records, nil
}

// ListGaps returns the most recent audit appends that failed
func (s *HistoryService) ListGaps(ctx context.Context, actor auth.Actor, limit int64) ([]auditgap.Gap, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if s.gaps == nil {
		return nil, apperrors.NewResourceNotFoundError("audit gap tracking is not enabled")
	}

	gaps, err := s.gaps.Pending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit gaps: %w", err)
	}
	return gaps, nil
}
