package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/models/dto"
	"github.com/yigit/escolar/internal/pkg/apperrors"
)

func studentRouter(svc *stubStudentService, actor *auth.Actor) http.Handler {
	r := newTestRouter(actor)
	c := NewStudentController(svc)
	r.GET("/students", c.ListStudents)
	r.GET("/students/:id", c.GetStudent)
	r.POST("/students", c.CreateStudent)
	r.PUT("/students/:id", c.UpdateStudent)
	r.DELETE("/students/:id", c.RemoveStudent)
	return r
}

func TestCreateStudent_CourseIDForms(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		expect models.OptionalID
	}{
		{"omitted", `{"nombre":"Ana","email":"ana@example.com"}`, models.OptionalID{}},
		{"null", `{"nombre":"Ana","email":"ana@example.com","id_curso":null}`, models.ClearedID()},
		{"empty string", `{"nombre":"Ana","email":"ana@example.com","id_curso":""}`, models.ClearedID()},
		{"number", `{"nombre":"Ana","email":"ana@example.com","id_curso":3}`, models.SomeID(3)},
		{"numeric string", `{"nombre":"Ana","email":"ana@example.com","id_curso":"3"}`, models.SomeID(3)},
		{"zero", `{"nombre":"Ana","email":"ana@example.com","id_curso":0}`, models.SomeID(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubStudentService{}
			w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPost, "/students", tt.body)

			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.Equal(t, tt.expect, svc.gotCourse)
			assert.Equal(t, "Ana", svc.gotStudent.Name)
			assert.Equal(t, testAdmin, svc.gotActor)

			created := decodeData[models.Student](t, w)
			assert.Equal(t, int64(41), created.ID)
		})
	}
}

func TestCreateStudent_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"nombre":"Ana"}`},
		{"bad email", `{"nombre":"Ana","email":"not-an-email"}`},
		{"non numeric course", `{"nombre":"Ana","email":"ana@example.com","id_curso":"abc"}`},
		{"malformed json", `{"nombre":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubStudentService{}
			w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPost, "/students", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, string(dto.ErrorCodeValidationFailed), decodeError(t, w).Error.Code)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestCreateStudent_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not admin", auth.ErrAdminRequired, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"store validation", apperrors.NewCustomError(apperrors.ErrValidationFailed, `duplicate key value violates unique constraint "alumno_email_key"`), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown course", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"storage failure", fmt.Errorf("connection reset"), http.StatusInternalServerError, dto.ErrorCodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubStudentService{err: tt.err}
			w := doJSON(t, studentRouter(svc, &testPreceptor), http.MethodPost, "/students",
				`{"nombre":"Ana","email":"ana@example.com"}`)

			assert.Equal(t, tt.status, w.Code)
			body := decodeError(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, string(tt.code), body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestCreateStudent_StoreMessageSurfaced(t *testing.T) {
	msg := `duplicate key value violates unique constraint "alumno_email_key"`
	svc := &stubStudentService{err: apperrors.NewCustomError(apperrors.ErrValidationFailed, msg)}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPost, "/students", `{"nombre":"Ana","email":"ana@example.com"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msg, decodeError(t, w).Error.Message)
}

func TestStudentRoutes_RequireActor(t *testing.T) {
	svc := &stubStudentService{}
	w := doJSON(t, studentRouter(svc, nil), http.MethodGet, "/students", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, string(dto.ErrorCodeUnauthorized), decodeError(t, w).Error.Code)
	assert.Zero(t, svc.calls)
}

func TestUpdateStudent_TriStateCourse(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		expect models.OptionalID
	}{
		{"omitted keeps enrollment", `{"telefono":1155550000}`, models.OptionalID{}},
		{"null clears", `{"id_curso":null}`, models.ClearedID()},
		{"id moves", `{"id_curso":9}`, models.SomeID(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubStudentService{student: &models.Student{ID: 5, Name: "Ana"}}
			w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPut, "/students/5", tt.body)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, int64(5), svc.gotID)
			assert.Equal(t, tt.expect, svc.gotCourse)
		})
	}
}

func TestUpdateStudent_PartialFields(t *testing.T) {
	svc := &stubStudentService{student: &models.Student{ID: 5}}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPut, "/students/5", `{"direccion":"Calle 1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.NullableOf("Calle 1"), svc.gotUpdate.Address)
	assert.False(t, svc.gotUpdate.Gender.Set)
	assert.Nil(t, svc.gotUpdate.Name)
	assert.Nil(t, svc.gotUpdate.Email)
}

func TestUpdateStudent_NullClearsNullableFields(t *testing.T) {
	svc := &stubStudentService{student: &models.Student{ID: 5}}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPut, "/students/5", `{"genero":null,"telefono":null}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, svc.gotUpdate.IsEmpty())
	assert.Equal(t, models.Null[string](), svc.gotUpdate.Gender)
	assert.Equal(t, models.Null[int64](), svc.gotUpdate.Phone)
	assert.False(t, svc.gotUpdate.Address.Set)
	assert.Equal(t, map[string]interface{}{"genero": nil, "telefono": nil}, svc.gotUpdate.Columns())
}

func TestUpdateStudent_InvalidID(t *testing.T) {
	for _, path := range []string{"/students/abc", "/students/0", "/students/-3"} {
		svc := &stubStudentService{}
		w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPut, path, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Zero(t, svc.calls, path)
	}
}

func TestUpdateStudent_NotFound(t *testing.T) {
	svc := &stubStudentService{err: apperrors.ErrStudentNotFound}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodPut, "/students/99", `{"nombre":"X"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "student not found", body.Error.Message)
	assert.Equal(t, "STUDENT_NOT_FOUND", body.reason())
}

func TestRemoveStudent_PassesReasonAndDocument(t *testing.T) {
	svc := &stubStudentService{}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodDelete, "/students/12",
		`{"motivo":"Cambio de colegio","documento_url":"https://docs.example.com/pase.pdf"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(12), svc.gotID)
	assert.Equal(t, "Cambio de colegio", svc.gotReason)
	require.NotNil(t, svc.gotDocument)
	assert.Equal(t, "https://docs.example.com/pase.pdf", *svc.gotDocument)
}

func TestRemoveStudent_EmptyBodyReachesService(t *testing.T) {
	svc := &stubStudentService{err: apperrors.ErrReasonRequired}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodDelete, "/students/12", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Empty(t, svc.gotReason)
	assert.Equal(t, "REASON_REQUIRED", decodeError(t, w).reason())
}

func TestRemoveStudent_InvalidDocumentURL(t *testing.T) {
	svc := &stubStudentService{}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodDelete, "/students/12",
		`{"motivo":"Egreso","documento_url":"not a url"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.calls)
}

func TestGetStudent_IncludesCourse(t *testing.T) {
	svc := &stubStudentService{joined: &models.StudentWithCourse{
		Student: models.Student{ID: 3, Name: "Ana", Email: "ana@example.com"},
		Course:  &models.Course{ID: 2, Name: "1A", Level: "Secundaria", Year: 2024},
	}}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodGet, "/students/3", nil)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeData[map[string]interface{}](t, w)
	assert.Equal(t, float64(3), got["id_alumno"])
	assert.Equal(t, float64(2), got["id_curso"])
	assert.NotNil(t, got["curso"])
}

func TestListStudents_WithoutCourse(t *testing.T) {
	svc := &stubStudentService{list: []*models.StudentWithCourse{
		{Student: models.Student{ID: 1, Name: "Ana"}},
	}}
	w := doJSON(t, studentRouter(svc, &testAdmin), http.MethodGet, "/students", nil)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeData[[]map[string]interface{}](t, w)
	require.Len(t, got, 1)
	assert.Nil(t, got[0]["id_curso"])
	assert.Nil(t, got[0]["curso"])
}
