package models

import "time"

// ChangeType is the kind of lifecycle change recorded in the audit log
type ChangeType string

const (
	ChangeCreated  ChangeType = "alta"
	ChangeModified ChangeType = "modificacion"
	ChangeRemoved  ChangeType = "baja"
)

// Valid reports whether c is a known change type.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangeCreated, ChangeModified, ChangeRemoved:
		return true
	}
	return false
}

// HistoryRecord is an immutable audit entry of the 'historial_alumnos' table
type HistoryRecord struct {
	ID          int64            `json:"id_historial" db:"id_historial"`
	StudentID   int64            `json:"id_alumno" db:"id_alumno"`
	ChangeType  ChangeType       `json:"tipo_cambio" db:"tipo_cambio"`
	Previous    *StudentSnapshot `json:"datos_anteriores" db:"datos_anteriores"` // Null for alta
	Current     *StudentSnapshot `json:"datos_nuevos" db:"datos_nuevos"`         // Null for baja
	Reason      *string          `json:"motivo" db:"motivo"`                     // Required for baja
	DocumentURL *string          `json:"documento_url" db:"documento_url"`
	UserID      *string          `json:"usuario_id" db:"usuario_id"` // Acting user
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// HistoryFilter narrows a history listing. Nil fields match everything.
type HistoryFilter struct {
	StudentID  *int64
	ChangeType *ChangeType
}
