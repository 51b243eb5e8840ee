package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/middleware"
	"github.com/yigit/escolar/internal/pkg/auditgap"
	"github.com/yigit/escolar/internal/pkg/filestorage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testAdmin     = auth.Actor{UserID: uuid.MustParse("8d3c1a52-3f7a-4c36-9a8e-0a4f3c1b2d11"), Role: models.RoleAdmin}
	testPreceptor = auth.Actor{UserID: uuid.MustParse("1b9e7d40-55c2-4e0b-8f5d-6c2a9e3f4a22"), Role: models.RolePreceptor}
)

// newTestRouter returns an engine whose requests carry the given actor.
// A nil actor leaves the context unauthenticated.
func newTestRouter(actor *auth.Actor) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.ContextActor, *actor)
		}
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

// reason returns details.reason when details is an object
func (b errorBody) reason() interface{} {
	if m, ok := b.Error.Details.(map[string]interface{}); ok {
		return m["reason"]
	}
	return nil
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type dataBody[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var body dataBody[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	return body.Data
}

// stubStudentService records the last call and answers with canned values
type stubStudentService struct {
	gotActor    auth.Actor
	gotStudent  *models.Student
	gotUpdate   models.StudentUpdate
	gotCourse   models.OptionalID
	gotID       int64
	gotReason   string
	gotDocument *string
	calls       int

	student *models.Student
	joined  *models.StudentWithCourse
	list    []*models.StudentWithCourse
	err     error
}

func (s *stubStudentService) CreateStudent(_ context.Context, actor auth.Actor, student *models.Student, courseID models.OptionalID) (*models.Student, error) {
	s.calls++
	s.gotActor, s.gotStudent, s.gotCourse = actor, student, courseID
	if s.err != nil {
		return nil, s.err
	}
	created := *student
	created.ID = 41
	return &created, nil
}

func (s *stubStudentService) UpdateStudent(_ context.Context, actor auth.Actor, studentID int64, update models.StudentUpdate, course models.OptionalID) (*models.Student, error) {
	s.calls++
	s.gotActor, s.gotID, s.gotUpdate, s.gotCourse = actor, studentID, update, course
	return s.student, s.err
}

func (s *stubStudentService) RemoveStudent(_ context.Context, actor auth.Actor, studentID int64, reason string, documentURL *string) error {
	s.calls++
	s.gotActor, s.gotID, s.gotReason, s.gotDocument = actor, studentID, reason, documentURL
	return s.err
}

func (s *stubStudentService) GetStudent(_ context.Context, actor auth.Actor, studentID int64) (*models.StudentWithCourse, error) {
	s.calls++
	s.gotActor, s.gotID = actor, studentID
	return s.joined, s.err
}

func (s *stubStudentService) ListStudents(_ context.Context, actor auth.Actor) ([]*models.StudentWithCourse, error) {
	s.calls++
	s.gotActor = actor
	return s.list, s.err
}

type stubEnrollmentService struct {
	gotStudentID, gotCourseID int64
	calls                     int
	created                   *models.Enrollment
	err                       error
}

func (s *stubEnrollmentService) AssignEnrollment(_ context.Context, _ auth.Actor, studentID, courseID int64) (*models.Enrollment, error) {
	s.calls++
	s.gotStudentID, s.gotCourseID = studentID, courseID
	if s.err != nil {
		return nil, s.err
	}
	return s.created, nil
}

func (s *stubEnrollmentService) RemoveEnrollment(_ context.Context, _ auth.Actor, studentID, courseID int64) error {
	s.calls++
	s.gotStudentID, s.gotCourseID = studentID, courseID
	return s.err
}

type stubHistoryService struct {
	gotFilter models.HistoryFilter
	gotLimit  int64
	records   []*models.HistoryRecord
	gaps      []auditgap.Gap
	err       error
}

func (s *stubHistoryService) ListHistory(_ context.Context, _ auth.Actor, filter models.HistoryFilter) ([]*models.HistoryRecord, error) {
	s.gotFilter = filter
	return s.records, s.err
}

func (s *stubHistoryService) ListGaps(_ context.Context, _ auth.Actor, limit int64) ([]auditgap.Gap, error) {
	s.gotLimit = limit
	return s.gaps, s.err
}

type stubCourseService struct {
	gotCourse    *models.Course
	gotID        int64
	gotPreceptor *string
	course       *models.Course
	courses      []*models.Course
	students     []*models.Student
	err          error
}

func (s *stubCourseService) ListCourses(context.Context, auth.Actor) ([]*models.Course, error) {
	return s.courses, s.err
}

func (s *stubCourseService) GetCourse(_ context.Context, _ auth.Actor, courseID int64) (*models.Course, error) {
	s.gotID = courseID
	return s.course, s.err
}

func (s *stubCourseService) CreateCourse(_ context.Context, _ auth.Actor, course *models.Course) (*models.Course, error) {
	s.gotCourse = course
	if s.err != nil {
		return nil, s.err
	}
	created := *course
	created.ID = 7
	return &created, nil
}

func (s *stubCourseService) AssignPreceptor(_ context.Context, _ auth.Actor, courseID int64, preceptorID *string) (*models.Course, error) {
	s.gotID, s.gotPreceptor = courseID, preceptorID
	return s.course, s.err
}

func (s *stubCourseService) ListCourseStudents(_ context.Context, _ auth.Actor, courseID int64) ([]*models.Student, error) {
	s.gotID = courseID
	return s.students, s.err
}

type stubUploader struct {
	maxBytes int64
	got      []byte
	doc      *filestorage.Document
	err      error
}

func (s *stubUploader) Upload(_ context.Context, r io.Reader) (*filestorage.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.got = data
	return s.doc, s.err
}

func (s *stubUploader) MaxBytes() int64 { return s.maxBytes }
