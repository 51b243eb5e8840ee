package dto

import (
	"github.com/yigit/escolar/internal/app/models"
)

// CreateStudentRequest represents the body of POST /students
type CreateStudentRequest struct {
	Name     string            `json:"nombre" binding:"required,max=200"`
	Email    string            `json:"email" binding:"required,email"`
	Gender   *string           `json:"genero,omitempty" binding:"omitempty,max=50"`
	Address  *string           `json:"direccion,omitempty" binding:"omitempty,max=300"`
	Phone    *int64            `json:"telefono,omitempty" binding:"omitempty,gt=0"`
	CourseID models.OptionalID `json:"id_curso"` // 0, "" or null means no course
}

// ToModel converts the request to the student to insert
func (r *CreateStudentRequest) ToModel() *models.Student {
	return &models.Student{
		Name:    r.Name,
		Email:   r.Email,
		Gender:  r.Gender,
		Address: r.Address,
		Phone:   r.Phone,
	}
}

// UpdateStudentRequest represents the body of PUT /students/:id.
// Omitted fields are unchanged and null clears genero, direccion or telefono.
// id_curso omitted leaves the enrollment, null or "" clears it and a number moves the student to that course.
type UpdateStudentRequest struct {
	Name     *string                 `json:"nombre,omitempty" binding:"omitempty,min=1,max=200"`
	Email    *string                 `json:"email,omitempty" binding:"omitempty,email"`
	Gender   models.Nullable[string] `json:"genero" swaggertype:"string"`
	Address  models.Nullable[string] `json:"direccion" swaggertype:"string"`
	Phone    models.Nullable[int64]  `json:"telefono" swaggertype:"integer"`
	CourseID models.OptionalID       `json:"id_curso"`
}

// ToUpdate converts the request to a partial update
func (r *UpdateStudentRequest) ToUpdate() models.StudentUpdate {
	return models.StudentUpdate{
		Name:    r.Name,
		Email:   r.Email,
		Gender:  r.Gender,
		Address: r.Address,
		Phone:   r.Phone,
	}
}

// RemoveStudentRequest represents the body of DELETE /students/:id
type RemoveStudentRequest struct {
	Reason      string  `json:"motivo" example:"Cambio de colegio"`
	DocumentURL *string `json:"documento_url,omitempty" binding:"omitempty,url"`
}

// StudentResponse is a student together with its current course
type StudentResponse struct {
	models.Student
	CourseID *int64         `json:"id_curso"`
	Course   *models.Course `json:"curso"`
}

// NewStudentResponse builds the response of a joined student
func NewStudentResponse(s *models.StudentWithCourse) StudentResponse {
	resp := StudentResponse{Student: s.Student, Course: s.Course}
	if s.Course != nil {
		id := s.Course.ID
		resp.CourseID = &id
	}
	return resp
}

// NewStudentResponses maps a slice of joined students
func NewStudentResponses(list []*models.StudentWithCourse) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for _, s := range list {
		out = append(out, NewStudentResponse(s))
	}
	return out
}
