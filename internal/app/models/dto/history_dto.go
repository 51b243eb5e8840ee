package dto

// HistoryQuery represents the filters of GET /students/history
type HistoryQuery struct {
	StudentID  *int64  `form:"id_alumno" binding:"omitempty,gt=0"`
	ChangeType *string `form:"tipo_cambio"`
}

// AuditGapResponse is one audit append that could not be written
type AuditGapResponse struct {
	StudentID  int64  `json:"id_alumno"`
	ChangeType string `json:"tipo_cambio"`
	Error      string `json:"error"`
	UserID     string `json:"usuario_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
