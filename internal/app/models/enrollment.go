package models

import "time"

// Enrollment links one student to one course (alumno_curso).
// A student has at most one enrollment at any time.
type Enrollment struct {
	StudentID int64     `json:"id_alumno" db:"id_alumno"`
	CourseID  int64     `json:"id_curso" db:"id_curso"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
