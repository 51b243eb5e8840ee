package models

// Course represents a course (curso) students can be enrolled in.
type Course struct {
	ID          int64   `json:"id_curso" db:"id_curso" example:"5"`
	Name        string  `json:"nombre" db:"nombre" example:"3ro A"`
	Level       string  `json:"nivel" db:"nivel" example:"Secundario"`
	Year        int     `json:"año" db:"anio" example:"2025"`
	PreceptorID *string `json:"id_preceptor" db:"id_preceptor"` // Nullable user id of the assigned preceptor
}
