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
	"github.com/yigit/escolar/internal/pkg/logger"
)

var courseColumns = []string{"id_curso", "nombre", "nivel", "anio", "id_preceptor::text"}

// CourseRepository handles course database operations
type CourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(conn db.DBTX) *CourseRepository {
	return &CourseRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

func scanCourse(row pgx.Row, c *models.Course) error {
	return row.Scan(&c.ID, &c.Name, &c.Level, &c.Year, &c.PreceptorID)
}

// ListCourses returns every course ordered by year, level and name
func (r *CourseRepository) ListCourses(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("curso").
		OrderBy("anio DESC", "nivel", "nombre").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := make([]*models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err := scanCourse(rows, &c); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

// GetCourseByID retrieves a course by id
func (r *CourseRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("curso").
		Where(squirrel.Eq{"id_curso": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	var c models.Course
	if err := scanCourse(r.db.QueryRow(ctx, sql, args...), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &c, nil
}

// CreateCourse inserts a course and fills its id
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("curso").
		Columns("nombre", "nivel", "anio", "id_preceptor").
		Values(course.Name, course.Level, course.Year, course.PreceptorID).
		Suffix("RETURNING id_curso").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		if inputErr := storeInputError(err); inputErr != nil {
			return inputErr
		}
		logger.Error().Err(err).Str("name", course.Name).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	logger.Info().Int64("courseID", course.ID).Msg("Course created")
	return nil
}

// UpdatePreceptor sets or clears the preceptor of a course
func (r *CourseRepository) UpdatePreceptor(ctx context.Context, courseID int64, preceptorID *string) error {
	sql, args, err := r.sb.Update("curso").
		Set("id_preceptor", preceptorID).
		Where(squirrel.Eq{"id_curso": courseID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update preceptor SQL")
		return fmt.Errorf("failed to build update preceptor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if inputErr := storeInputError(err); inputErr != nil {
			return inputErr
		}
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing update preceptor query")
		return fmt.Errorf("error updating preceptor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}
