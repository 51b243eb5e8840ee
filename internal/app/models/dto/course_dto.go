package dto

// CreateCourseRequest represents the body of POST /courses
type CreateCourseRequest struct {
	Name        string  `json:"nombre" binding:"required,max=100"`
	Level       string  `json:"nivel" binding:"required,max=50"`
	Year        int     `json:"año" binding:"required,gte=1900,lte=2200"`
	PreceptorID *string `json:"id_preceptor,omitempty" binding:"omitempty,uuid"`
}

// AssignPreceptorRequest represents the body of PUT /courses/:id/preceptor.
// A null id_preceptor unassigns the course.
type AssignPreceptorRequest struct {
	PreceptorID *string `json:"id_preceptor" binding:"omitempty,uuid"`
}
