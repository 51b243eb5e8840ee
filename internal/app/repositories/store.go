package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/db"
)

// StudentStore persists rows of the 'alumno' table
type StudentStore interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	// GetStudentForUpdate reads the student and locks its row until the transaction ends.
	GetStudentForUpdate(ctx context.Context, id int64) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, update models.StudentUpdate) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	ListStudentsWithCourse(ctx context.Context) ([]*models.StudentWithCourse, error)
	GetStudentWithCourse(ctx context.Context, id int64) (*models.StudentWithCourse, error)
}

// EnrollmentStore persists rows of the 'alumno_curso' relation
type EnrollmentStore interface {
	// GetCurrentCourseID returns nil when the student has no enrollment.
	GetCurrentCourseID(ctx context.Context, studentID int64) (*int64, error)
	CreateEnrollment(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	DeleteByStudent(ctx context.Context, studentID int64) (int64, error)
	DeleteEnrollment(ctx context.Context, studentID, courseID int64) (int64, error)
	ListStudentsByCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
}

// HistoryStore appends to and reads the 'historial_alumnos' ledger. It never updates or deletes.
type HistoryStore interface {
	AppendHistory(ctx context.Context, record *models.HistoryRecord) error
	ListHistory(ctx context.Context, filter models.HistoryFilter) ([]*models.HistoryRecord, error)
}

// CourseStore persists rows of the 'curso' table
type CourseStore interface {
	ListCourses(ctx context.Context) ([]*models.Course, error)
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdatePreceptor(ctx context.Context, courseID int64, preceptorID *string) error
}

// Store groups the stores of the lifecycle engine and opens transactions spanning them
type Store interface {
	Students() StudentStore
	Enrollments() EnrollmentStore
	History() HistoryStore
	Courses() CourseStore
	// WithinTx runs fn with a Store bound to one transaction. fn returning an error rolls it back.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Conn is what a PgStore needs from its connection: a pool or an open transaction.
type Conn interface {
	db.DBTX
	db.TxBeginner
}

// PgStore is the PostgreSQL implementation of Store
type PgStore struct {
	conn        Conn
	students    *StudentRepository
	enrollments *EnrollmentRepository
	history     *HistoryRepository
	courses     *CourseRepository
}

// NewPgStore creates a store over a connection pool or transaction
func NewPgStore(conn Conn) *PgStore {
	return &PgStore{
		conn:        conn,
		students:    NewStudentRepository(conn),
		enrollments: NewEnrollmentRepository(conn),
		history:     NewHistoryRepository(conn),
		courses:     NewCourseRepository(conn),
	}
}

func (s *PgStore) Students() StudentStore       { return s.students }
func (s *PgStore) Enrollments() EnrollmentStore { return s.enrollments }
func (s *PgStore) History() HistoryStore        { return s.history }
func (s *PgStore) Courses() CourseStore         { return s.courses }

// WithinTx implements Store. Nested calls open a savepoint.
func (s *PgStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return db.WithTransaction(ctx, s.conn, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewPgStore(tx))
	})
}

// statementBuilder returns the squirrel builder for PostgreSQL placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
