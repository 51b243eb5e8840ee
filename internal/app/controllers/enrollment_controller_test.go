package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/models/dto"
	"github.com/yigit/escolar/internal/pkg/apperrors"
)

func enrollmentRouter(svc *stubEnrollmentService) http.Handler {
	r := newTestRouter(&testAdmin)
	c := NewEnrollmentController(svc)
	r.POST("/enrollments", c.AssignEnrollment)
	r.DELETE("/enrollments", c.RemoveEnrollment)
	return r
}

func TestAssignEnrollment(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	svc := &stubEnrollmentService{created: &models.Enrollment{StudentID: 4, CourseID: 2, CreatedAt: created}}
	w := doJSON(t, enrollmentRouter(svc), http.MethodPost, "/enrollments", `{"id_alumno":4,"id_curso":2}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(4), svc.gotStudentID)
	assert.Equal(t, int64(2), svc.gotCourseID)

	got := decodeData[models.Enrollment](t, w)
	assert.Equal(t, int64(4), got.StudentID)
	assert.Equal(t, int64(2), got.CourseID)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestAssignEnrollment_AlreadyEnrolled(t *testing.T) {
	svc := &stubEnrollmentService{err: apperrors.ErrAlreadyEnrolled}
	w := doJSON(t, enrollmentRouter(svc), http.MethodPost, "/enrollments", `{"id_alumno":4,"id_curso":2}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, string(dto.ErrorCodeConflict), body.Error.Code)
	assert.Equal(t, "student is already enrolled in this course", body.Error.Message)
}

func TestAssignEnrollment_MissingIDs(t *testing.T) {
	svc := &stubEnrollmentService{}
	w := doJSON(t, enrollmentRouter(svc), http.MethodPost, "/enrollments", `{"id_alumno":4}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestRemoveEnrollment_BodyOrQuery(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		svc := &stubEnrollmentService{}
		w := doJSON(t, enrollmentRouter(svc), http.MethodDelete, "/enrollments", `{"id_alumno":4,"id_curso":2}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, int64(4), svc.gotStudentID)
		assert.Equal(t, int64(2), svc.gotCourseID)
	})

	t.Run("query string", func(t *testing.T) {
		svc := &stubEnrollmentService{}
		w := doJSON(t, enrollmentRouter(svc), http.MethodDelete, "/enrollments?id_alumno=6&id_curso=3", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, int64(6), svc.gotStudentID)
		assert.Equal(t, int64(3), svc.gotCourseID)
	})
}

func TestRemoveEnrollment_NotFound(t *testing.T) {
	svc := &stubEnrollmentService{err: apperrors.ErrEnrollmentNotFound}
	w := doJSON(t, enrollmentRouter(svc), http.MethodDelete, "/enrollments?id_alumno=6&id_curso=3", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ENROLLMENT_NOT_FOUND", decodeError(t, w).reason())
}
