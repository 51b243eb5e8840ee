package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/repositories"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/logger"
	"github.com/yigit/escolar/internal/pkg/validation"
)

// CourseService manages the course catalog
type CourseService struct {
	store repositories.Store
	roles repositories.RoleStore
}

// NewCourseService creates a new CourseService
func NewCourseService(store repositories.Store, roles repositories.RoleStore) *CourseService {
	return &CourseService{store: store, roles: roles}
}

// ListCourses returns every course
func (s *CourseService) ListCourses(ctx context.Context, actor auth.Actor) ([]*models.Course, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	courses, err := s.store.Courses().ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// GetCourse returns one course
func (s *CourseService) GetCourse(ctx context.Context, actor auth.Actor, courseID int64) (*models.Course, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	course, err := s.store.Courses().GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// CreateCourse adds a course to the catalog
func (s *CourseService) CreateCourse(ctx context.Context, actor auth.Actor, course *models.Course) (*models.Course, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	course.Name = strings.TrimSpace(course.Name)
	course.Level = strings.TrimSpace(course.Level)
	if msg := validation.First(
		validation.NewStringValidation("nombre", course.Name).WithMaxLength(validation.CourseNameMaxLength).Validate(),
		validation.NewStringValidation("nivel", course.Level).WithMaxLength(validation.CourseLevelMaxLength).Validate(),
		validation.NewNumericValidation("año", course.Year).Between(validation.CourseMinYear, validation.CourseMaxYear).Validate(),
	); msg != "" {
		return nil, apperrors.NewValidationError(msg)
	}
	if course.PreceptorID != nil {
		normalized, err := s.checkPreceptor(ctx, *course.PreceptorID)
		if err != nil {
			return nil, err
		}
		course.PreceptorID = &normalized
	}

	if err := s.store.Courses().CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

// AssignPreceptor sets the preceptor of a course. A nil preceptorID unassigns it.
func (s *CourseService) AssignPreceptor(ctx context.Context, actor auth.Actor, courseID int64, preceptorID *string) (*models.Course, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if preceptorID != nil {
		normalized, err := s.checkPreceptor(ctx, *preceptorID)
		if err != nil {
			return nil, err
		}
		preceptorID = &normalized
	}

	if err := s.store.Courses().UpdatePreceptor(ctx, courseID, preceptorID); err != nil {
		return nil, fmt.Errorf("failed to assign preceptor: %w", err)
	}
	logger.Info().Int64("courseID", courseID).Interface("preceptorID", preceptorID).Msg("Preceptor assigned")

	return s.GetCourse(ctx, actor, courseID)
}

// ListCourseStudents returns the students enrolled in a course
func (s *CourseService) ListCourseStudents(ctx context.Context, actor auth.Actor, courseID int64) ([]*models.Student, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.store.Courses().GetCourseByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	students, err := s.store.Enrollments().ListStudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course students: %w", err)
	}
	return students, nil
}

// checkPreceptor verifies the id names a user holding the preceptor role
func (s *CourseService) checkPreceptor(ctx context.Context, preceptorID string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(preceptorID))
	if err != nil {
		return "", apperrors.NewValidationError("id_preceptor must be a valid user id")
	}
	role, err := s.roles.GetRole(ctx, id.String())
	if err != nil {
		return "", fmt.Errorf("failed to check preceptor role: %w", err)
	}
	if role != models.RolePreceptor {
		return "", apperrors.NewValidationError("the selected user is not a preceptor")
	}
	return id.String(), nil
}
