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

var studentColumns = []string{"id_alumno", "nombre", "email", "genero", "direccion", "telefono", "created_at"}

// StudentRepository handles student database operations
type StudentRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(conn db.DBTX) *StudentRepository {
	return &StudentRepository{
		db: conn,
		sb: statementBuilder(),
	}
}

func scanStudent(row pgx.Row, s *models.Student) error {
	return row.Scan(&s.ID, &s.Name, &s.Email, &s.Gender, &s.Address, &s.Phone, &s.CreatedAt)
}

// storeInputError turns a constraint or input syntax rejection into a validation
// error carrying the store's own message.
func storeInputError(err error) error {
	if pgErr, ok := dberrors.AsPgError(err); ok && dberrors.IsInputViolation(err) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, pgErr.Message).
			WithDetails(map[string]interface{}{"constraint": pgErr.ConstraintName, "column": pgErr.ColumnName})
	}
	return nil
}

// CreateStudent inserts a student and fills its generated id and creation time
func (r *StudentRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("alumno").
		Columns("nombre", "email", "genero", "direccion", "telefono").
		Values(student.Name, student.Email, student.Gender, student.Address, student.Phone).
		Suffix("RETURNING id_alumno, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt); err != nil {
		if inputErr := storeInputError(err); inputErr != nil {
			logger.Warn().Err(err).Str("email", student.Email).Msg("Student rejected by the store")
			return inputErr
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", student.ID).Msg("Student created")
	return nil
}

// GetStudentByID retrieves a student by id
func (r *StudentRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getStudent(ctx, id, false)
}

// GetStudentForUpdate retrieves a student and locks its row. Must run inside a transaction.
func (r *StudentRepository) GetStudentForUpdate(ctx context.Context, id int64) (*models.Student, error) {
	return r.getStudent(ctx, id, true)
}

func (r *StudentRepository) getStudent(ctx context.Context, id int64, lock bool) (*models.Student, error) {
	query := r.sb.Select(studentColumns...).
		From("alumno").
		Where(squirrel.Eq{"id_alumno": id})
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var student models.Student
	if err := scanStudent(r.db.QueryRow(ctx, sql, args...), &student); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// UpdateStudent applies a partial update and returns the stored row.
// An empty update returns the row unchanged.
func (r *StudentRepository) UpdateStudent(ctx context.Context, id int64, update models.StudentUpdate) (*models.Student, error) {
	if update.IsEmpty() {
		return r.GetStudentByID(ctx, id)
	}

	sql, args, err := r.sb.Update("alumno").
		SetMap(update.Columns()).
		Where(squirrel.Eq{"id_alumno": id}).
		Suffix("RETURNING id_alumno, nombre, email, genero, direccion, telefono, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	var student models.Student
	if err := scanStudent(r.db.QueryRow(ctx, sql, args...), &student); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		if inputErr := storeInputError(err); inputErr != nil {
			logger.Warn().Err(err).Int64("studentID", id).Msg("Student update rejected by the store")
			return nil, inputErr
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return &student, nil
}

// DeleteStudent deletes the student row. Enrollments must be removed first.
func (r *StudentRepository) DeleteStudent(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("alumno").
		Where(squirrel.Eq{"id_alumno": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// withCourseQuery joins every student with its current course, if any
func (r *StudentRepository) withCourseQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id_alumno", "a.nombre", "a.email", "a.genero", "a.direccion", "a.telefono", "a.created_at",
		"c.id_curso", "c.nombre", "c.nivel", "c.anio", "c.id_preceptor::text",
	).
		From("alumno a").
		LeftJoin("LATERAL (SELECT id_curso FROM alumno_curso WHERE id_alumno = a.id_alumno ORDER BY created_at DESC LIMIT 1) ac ON TRUE").
		LeftJoin("curso c ON c.id_curso = ac.id_curso")
}

func scanStudentWithCourse(row pgx.Row) (*models.StudentWithCourse, error) {
	var (
		s           models.StudentWithCourse
		courseID    *int64
		courseName  *string
		courseLevel *string
		courseYear  *int
		preceptorID *string
	)
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Gender, &s.Address, &s.Phone, &s.CreatedAt,
		&courseID, &courseName, &courseLevel, &courseYear, &preceptorID)
	if err != nil {
		return nil, err
	}
	if courseID != nil {
		s.Course = &models.Course{ID: *courseID, PreceptorID: preceptorID}
		if courseName != nil {
			s.Course.Name = *courseName
		}
		if courseLevel != nil {
			s.Course.Level = *courseLevel
		}
		if courseYear != nil {
			s.Course.Year = *courseYear
		}
	}
	return &s, nil
}

// ListStudentsWithCourse returns every student with its current course, ordered by name
func (r *StudentRepository) ListStudentsWithCourse(ctx context.Context) ([]*models.StudentWithCourse, error) {
	sql, args, err := r.withCourseQuery().OrderBy("a.nombre", "a.id_alumno").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.StudentWithCourse, 0)
	for rows.Next() {
		s, err := scanStudentWithCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// GetStudentWithCourse returns one student with its current course
func (r *StudentRepository) GetStudentWithCourse(ctx context.Context, id int64) (*models.StudentWithCourse, error) {
	sql, args, err := r.withCourseQuery().Where(squirrel.Eq{"a.id_alumno": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student with course SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudentWithCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return s, nil
}
