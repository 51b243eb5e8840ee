package dto

// EnrollmentRequest identifies a student/course pair
type EnrollmentRequest struct {
	StudentID int64 `json:"id_alumno" form:"id_alumno" binding:"required,gt=0"`
	CourseID  int64 `json:"id_curso" form:"id_curso" binding:"required,gt=0"`
}
