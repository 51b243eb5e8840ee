package controllers

import (
	"context"
	"io"

	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/pkg/auditgap"
	"github.com/yigit/escolar/internal/pkg/filestorage"
)

// StudentService is the student lifecycle used by StudentController
type StudentService interface {
	CreateStudent(ctx context.Context, actor auth.Actor, student *models.Student, courseID models.OptionalID) (*models.Student, error)
	UpdateStudent(ctx context.Context, actor auth.Actor, studentID int64, update models.StudentUpdate, course models.OptionalID) (*models.Student, error)
	RemoveStudent(ctx context.Context, actor auth.Actor, studentID int64, reason string, documentURL *string) error
	GetStudent(ctx context.Context, actor auth.Actor, studentID int64) (*models.StudentWithCourse, error)
	ListStudents(ctx context.Context, actor auth.Actor) ([]*models.StudentWithCourse, error)
}

// EnrollmentService is used by EnrollmentController
type EnrollmentService interface {
	AssignEnrollment(ctx context.Context, actor auth.Actor, studentID, courseID int64) (*models.Enrollment, error)
	RemoveEnrollment(ctx context.Context, actor auth.Actor, studentID, courseID int64) error
}

// HistoryService is used by HistoryController
type HistoryService interface {
	ListHistory(ctx context.Context, actor auth.Actor, filter models.HistoryFilter) ([]*models.HistoryRecord, error)
	ListGaps(ctx context.Context, actor auth.Actor, limit int64) ([]auditgap.Gap, error)
}

// CourseService is used by CourseController
type CourseService interface {
	ListCourses(ctx context.Context, actor auth.Actor) ([]*models.Course, error)
	GetCourse(ctx context.Context, actor auth.Actor, courseID int64) (*models.Course, error)
	CreateCourse(ctx context.Context, actor auth.Actor, course *models.Course) (*models.Course, error)
	AssignPreceptor(ctx context.Context, actor auth.Actor, courseID int64, preceptorID *string) (*models.Course, error)
	ListCourseStudents(ctx context.Context, actor auth.Actor, courseID int64) ([]*models.Student, error)
}

// AdminRequester is used by RoleController
type AdminRequester interface {
	RequestAdmin(ctx context.Context, actor auth.Actor) error
}

// DocumentUploader is used by DocumentController
type DocumentUploader interface {
	Upload(ctx context.Context, r io.Reader) (*filestorage.Document, error)
	MaxBytes() int64
}
