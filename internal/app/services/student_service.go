package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/repositories"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/auditgap"
	"github.com/yigit/escolar/internal/pkg/logger"
	"github.com/yigit/escolar/internal/pkg/validation"
)

// StudentService runs the student lifecycle: creation, update and removal,
// keeping the student row, its single enrollment and the audit log consistent.
type StudentService struct {
	store repositories.Store
	gaps  auditgap.Reporter
	now   func() time.Time
}

// NewStudentService creates a new StudentService
func NewStudentService(store repositories.Store, gaps auditgap.Reporter) *StudentService {
	return &StudentService{
		store: store,
		gaps:  gaps,
		now:   time.Now,
	}
}

// validateNewStudent trims and checks the mandatory fields of a new student
func validateNewStudent(student *models.Student) error {
	if student == nil {
		return apperrors.NewValidationError("student data is required")
	}
	student.Name = strings.TrimSpace(student.Name)
	student.Email = strings.TrimSpace(student.Email)

	if student.Name == "" {
		return apperrors.NewValidationError("nombre is required")
	}
	if student.Email == "" {
		return apperrors.NewValidationError("email is required")
	}
	return nil
}

func validateUpdate(update models.StudentUpdate) error {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return apperrors.NewValidationError("nombre cannot be empty")
	}
	if update.Email != nil && strings.TrimSpace(*update.Email) == "" {
		return apperrors.NewValidationError("email cannot be empty")
	}
	if msg := validation.First(
		validation.NewStringValidation("genero", update.Gender.Value).WithRequired(false).WithMaxLength(validation.StudentGenderMaxLength).Validate(),
		validation.NewStringValidation("direccion", update.Address.Value).WithRequired(false).WithMaxLength(validation.StudentAddressMaxLength).Validate(),
	); msg != "" {
		return apperrors.NewValidationError(msg)
	}
	if update.Phone.Valid && update.Phone.Value <= 0 {
		return apperrors.NewValidationError("telefono must be a positive number")
	}
	return nil
}

// CreateStudent inserts a student and, when courseID holds a positive id, enrolls
// it in that course within the same transaction. An alta record is appended after commit.
func (s *StudentService) CreateStudent(ctx context.Context, actor auth.Actor, student *models.Student, courseID models.OptionalID) (*models.Student, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateNewStudent(student); err != nil {
		return nil, err
	}
	if courseID.Valid && courseID.Value < 0 {
		return nil, apperrors.NewValidationError("id_curso must be a positive number")
	}

	var enrolledIn *int64
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.Students().CreateStudent(ctx, student); err != nil {
			return err
		}
		if courseID.Positive() {
			if _, err := tx.Enrollments().CreateEnrollment(ctx, student.ID, courseID.Value); err != nil {
				return err
			}
			enrolledIn = courseID.Ptr()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	logger.Info().Int64("studentID", student.ID).Interface("courseID", enrolledIn).Str("actor", actor.UserID.String()).Msg("Student created")

	s.appendHistory(ctx, actor, &models.HistoryRecord{
		StudentID:  student.ID,
		ChangeType: models.ChangeCreated,
		Current:    models.NewStudentSnapshot(student, enrolledIn),
	})

	return student, nil
}

// UpdateStudent applies a partial update and the requested enrollment change in one
// transaction holding the student's row lock, then appends a modificacion record.
// course left unset keeps the enrollment, cleared (or zero) removes it, and an id moves the student.
func (s *StudentService) UpdateStudent(ctx context.Context, actor auth.Actor, studentID int64, update models.StudentUpdate, course models.OptionalID) (*models.Student, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateUpdate(update); err != nil {
		return nil, err
	}
	if course.Valid && course.Value < 0 {
		return nil, apperrors.NewValidationError("id_curso must be a positive number")
	}

	var (
		previous *models.StudentSnapshot
		updated  *models.Student
		newCID   *int64
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		current, err := tx.Students().GetStudentForUpdate(ctx, studentID)
		if err != nil {
			return err
		}
		currentCourse, err := tx.Enrollments().GetCurrentCourseID(ctx, studentID)
		if err != nil {
			return err
		}
		previous = models.NewStudentSnapshot(current, currentCourse)

		updated, err = tx.Students().UpdateStudent(ctx, studentID, update)
		if err != nil {
			return err
		}

		newCID, err = applyEnrollmentChange(ctx, tx.Enrollments(), studentID, currentCourse, course)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	logger.Info().Int64("studentID", studentID).Interface("courseID", newCID).Str("actor", actor.UserID.String()).Msg("Student updated")

	s.appendHistory(ctx, actor, &models.HistoryRecord{
		StudentID:  studentID,
		ChangeType: models.ChangeModified,
		Previous:   previous,
		Current:    models.NewStudentSnapshot(updated, newCID),
	})

	return updated, nil
}

// applyEnrollmentChange moves the student to the requested course and returns the
// course it is enrolled in afterwards.
func applyEnrollmentChange(ctx context.Context, enrollments repositories.EnrollmentStore, studentID int64, current *int64, requested models.OptionalID) (*int64, error) {
	switch {
	case !requested.Set:
		return current, nil
	case !requested.Positive():
		if _, err := enrollments.DeleteByStudent(ctx, studentID); err != nil {
			return nil, err
		}
		return nil, nil
	case current != nil && *current == requested.Value:
		return current, nil
	default:
		if _, err := enrollments.DeleteByStudent(ctx, studentID); err != nil {
			return nil, err
		}
		if _, err := enrollments.CreateEnrollment(ctx, studentID, requested.Value); err != nil {
			return nil, err
		}
		return requested.Ptr(), nil
	}
}

// RemoveStudent deletes a student. A baja record carrying reason and documentURL is
// appended before the enrollment and student rows are deleted in one transaction.
func (s *StudentService) RemoveStudent(ctx context.Context, actor auth.Actor, studentID int64, reason string, documentURL *string) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.ErrReasonRequired
	}
	if documentURL != nil {
		trimmed := strings.TrimSpace(*documentURL)
		if trimmed == "" {
			documentURL = nil
		} else {
			documentURL = &trimmed
		}
	}

	student, err := s.store.Students().GetStudentByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to load student: %w", err)
	}
	courseID, err := s.store.Enrollments().GetCurrentCourseID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to load enrollment: %w", err)
	}

	s.appendHistory(ctx, actor, &models.HistoryRecord{
		StudentID:   studentID,
		ChangeType:  models.ChangeRemoved,
		Previous:    models.NewStudentSnapshot(student, courseID),
		Reason:      &reason,
		DocumentURL: documentURL,
	})

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Enrollments().DeleteByStudent(ctx, studentID); err != nil {
			return err
		}
		return tx.Students().DeleteStudent(ctx, studentID)
	})
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Student removal failed after the baja record was written")
		return fmt.Errorf("failed to remove student: %w", err)
	}

	logger.Info().Int64("studentID", studentID).Str("actor", actor.UserID.String()).Msg("Student removed")
	return nil
}

// GetStudent returns a student with its current course
func (s *StudentService) GetStudent(ctx context.Context, actor auth.Actor, studentID int64) (*models.StudentWithCourse, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	student, err := s.store.Students().GetStudentWithCourse(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

// ListStudents returns every student with its current course, ordered by name
func (s *StudentService) ListStudents(ctx context.Context, actor auth.Actor) ([]*models.StudentWithCourse, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	students, err := s.store.Students().ListStudentsWithCourse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// appendHistory writes an audit record. A failure never fails the caller:
// it is logged and handed to the gap reporter.
func (s *StudentService) appendHistory(ctx context.Context, actor auth.Actor, record *models.HistoryRecord) {
	record.UserID = actor.UserIDString()

	// a client hang-up must not drop the record of a committed mutation
	ctx = context.WithoutCancel(ctx)

	if err := s.store.History().AppendHistory(ctx, record); err != nil {
		logger.Error().Err(err).
			Int64("studentID", record.StudentID).
			Str("changeType", string(record.ChangeType)).
			Msg("Failed to append history record")

		gap := auditgap.Gap{
			StudentID:  record.StudentID,
			ChangeType: string(record.ChangeType),
			Error:      err.Error(),
			OccurredAt: s.now().UTC(),
		}
		if record.UserID != nil {
			gap.UserID = *record.UserID
		}
		if s.gaps != nil {
			s.gaps.Report(ctx, gap)
		}
	}
}
