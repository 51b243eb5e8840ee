package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/db"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/dberrors"
	"github.com/yigit/escolar/internal/pkg/logger"
)

// EnrollmentRepository handles the alumno_curso relation
type EnrollmentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(conn db.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

// GetCurrentCourseID returns the course the student is enrolled in, or nil
func (r *EnrollmentRepository) GetCurrentCourseID(ctx context.Context, studentID int64) (*int64, error) {
	sql, args, err := r.sb.Select("id_curso").
		From("alumno_curso").
		Where(squirrel.Eq{"id_alumno": studentID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get enrollment SQL")
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	var courseID int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning enrollment row")
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &courseID, nil
}

// CreateEnrollment inserts one (student, course) row
func (r *EnrollmentRepository) CreateEnrollment(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Insert("alumno_curso").
		Columns("id_alumno", "id_curso").
		Values(studentID, courseID).
		Suffix("RETURNING id_alumno, id_curso, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create enrollment SQL")
		return nil, fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	var enrollment models.Enrollment
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&enrollment.StudentID, &enrollment.CourseID, &enrollment.CreatedAt); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			logger.Warn().Int64("studentID", studentID).Int64("courseID", courseID).Msg("Duplicate enrollment")
			return nil, apperrors.ErrAlreadyEnrolled
		case dberrors.IsForeignKeyViolation(err, "alumno_curso_id_curso_fkey"):
			return nil, apperrors.ErrCourseNotFound
		case dberrors.IsForeignKeyViolation(err, "alumno_curso_id_alumno_fkey"):
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Error executing create enrollment query")
		return nil, fmt.Errorf("error creating enrollment: %w", err)
	}

	return &enrollment, nil
}

// DeleteByStudent removes every enrollment of the student and returns how many rows went
func (r *EnrollmentRepository) DeleteByStudent(ctx context.Context, studentID int64) (int64, error) {
	return r.delete(ctx, squirrel.Eq{"id_alumno": studentID})
}

// DeleteEnrollment removes one (student, course) row and returns how many rows went
func (r *EnrollmentRepository) DeleteEnrollment(ctx context.Context, studentID, courseID int64) (int64, error) {
	return r.delete(ctx, squirrel.Eq{"id_alumno": studentID, "id_curso": courseID})
}

func (r *EnrollmentRepository) delete(ctx context.Context, where squirrel.Eq) (int64, error) {
	sql, args, err := r.sb.Delete("alumno_curso").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete enrollment SQL")
		return 0, fmt.Errorf("failed to build delete enrollment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Interface("where", where).Msg("Error executing delete enrollment query")
		return 0, fmt.Errorf("error deleting enrollment: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListStudentsByCourse returns the students enrolled in a course, ordered by name
func (r *EnrollmentRepository) ListStudentsByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(
		"a.id_alumno", "a.nombre", "a.email", "a.genero", "a.direccion", "a.telefono", "a.created_at",
	).
		From("alumno_curso ac").
		Join("alumno a ON a.id_alumno = ac.id_alumno").
		Where(squirrel.Eq{"ac.id_curso": courseID}).
		OrderBy("a.nombre", "a.id_alumno").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list course students SQL")
		return nil, fmt.Errorf("failed to build list course students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list course students query")
		return nil, fmt.Errorf("error listing course students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		var s models.Student
		if err := scanStudent(rows, &s); err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course students: %w", err)
	}

	return students, nil
}
