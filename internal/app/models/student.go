package models

import (
	"strings"
	"time"
)

// Student defines the student model based on the 'alumno' table
type Student struct {
	ID        int64     `json:"id_alumno" db:"id_alumno" example:"12"`                     // Generated identifier
	Name      string    `json:"nombre" db:"nombre" example:"Ana"`                          // Full name
	Email     string    `json:"email" db:"email" example:"ana@x.com"`                      // Contact email, unique
	Gender    *string   `json:"genero" db:"genero" example:"Femenino"`                     // Nullable
	Address   *string   `json:"direccion" db:"direccion" example:"Calle 1"`                // Nullable
	Phone     *int64    `json:"telefono" db:"telefono" example:"1155550000"`               // Nullable
	CreatedAt time.Time `json:"created_at" db:"created_at" example:"2024-03-01T10:00:00Z"` // Set by the store
}

// StudentUpdate carries the fields of a partial student update. Nil or unset fields are
// left untouched; a nullable field set to null clears the column.
type StudentUpdate struct {
	Name    *string
	Email   *string
	Gender  Nullable[string]
	Address Nullable[string]
	Phone   Nullable[int64]
}

// IsEmpty reports whether the update changes no column.
func (u StudentUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && !u.Gender.Set && !u.Address.Set && !u.Phone.Set
}

// Columns returns the column/value pairs to SET. A nil value stores NULL.
func (u StudentUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.Name != nil {
		cols["nombre"] = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		cols["email"] = strings.TrimSpace(*u.Email)
	}
	if u.Gender.Set {
		cols["genero"] = u.Gender.column()
	}
	if u.Address.Set {
		cols["direccion"] = u.Address.column()
	}
	if u.Phone.Set {
		cols["telefono"] = u.Phone.column()
	}
	return cols
}

// StudentWithCourse is a student joined with the course it is currently enrolled in.
type StudentWithCourse struct {
	Student
	Course *Course `json:"curso"` // Null when not enrolled
}

// StudentSnapshot is the state of a student recorded in the audit log:
// the student row plus the course the student was enrolled in at the time.
type StudentSnapshot struct {
	Student
	CourseID *int64 `json:"id_curso"`
}

// NewStudentSnapshot copies s so later mutations of s do not leak into the snapshot.
func NewStudentSnapshot(s *Student, courseID *int64) *StudentSnapshot {
	if s == nil {
		return nil
	}
	snap := &StudentSnapshot{Student: *s}
	if courseID != nil {
		id := *courseID
		snap.CourseID = &id
	}
	return snap
}
