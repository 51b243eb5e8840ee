package services

import (
	"context"
	"fmt"

	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/repositories"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/logger"
)

// EnrollmentService edits enrollments directly, outside the student lifecycle.
// These edits keep the single-enrollment rule but write no history.
type EnrollmentService struct {
	store repositories.Store
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(store repositories.Store) *EnrollmentService {
	return &EnrollmentService{store: store}
}

func validateEnrollmentIDs(studentID, courseID int64) error {
	if studentID <= 0 {
		return apperrors.NewValidationError("id_alumno must be a positive number")
	}
	if courseID <= 0 {
		return apperrors.NewValidationError("id_curso must be a positive number")
	}
	return nil
}

// AssignEnrollment enrolls a student in a course, replacing its previous enrollment.
// Assigning the course the student is already in is a conflict.
func (s *EnrollmentService) AssignEnrollment(ctx context.Context, actor auth.Actor, studentID, courseID int64) (*models.Enrollment, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateEnrollmentIDs(studentID, courseID); err != nil {
		return nil, err
	}

	var enrollment *models.Enrollment
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Students().GetStudentForUpdate(ctx, studentID); err != nil {
			return err
		}

		current, err := tx.Enrollments().GetCurrentCourseID(ctx, studentID)
		if err != nil {
			return err
		}
		if current != nil && *current == courseID {
			return apperrors.ErrAlreadyEnrolled
		}

		if _, err := tx.Enrollments().DeleteByStudent(ctx, studentID); err != nil {
			return err
		}
		enrollment, err = tx.Enrollments().CreateEnrollment(ctx, studentID, courseID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign enrollment: %w", err)
	}

	logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Str("actor", actor.UserID.String()).Msg("Enrollment assigned")
	return enrollment, nil
}

// RemoveEnrollment removes a student from a course
func (s *EnrollmentService) RemoveEnrollment(ctx context.Context, actor auth.Actor, studentID, courseID int64) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	if err := validateEnrollmentIDs(studentID, courseID); err != nil {
		return err
	}

	deleted, err := s.store.Enrollments().DeleteEnrollment(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to remove enrollment: %w", err)
	}
	if deleted == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	logger.Info().Int64("studentID", studentID).Int64("courseID", courseID).Str("actor", actor.UserID.String()).Msg("Enrollment removed")
	return nil
}
