package dto

// DocumentResponse describes an uploaded supporting document
type DocumentResponse struct {
	URL         string `json:"url" example:"https://cdn.example.com/documentos/2f1c.pdf"`
	ContentType string `json:"content_type" example:"application/pdf"`
	Size        int64  `json:"size" example:"52311"`
}

// RoleResponse is the caller's resolved role
type RoleResponse struct {
	UserID string `json:"id"`
	Role   string `json:"role" example:"admin" enums:"admin,preceptor,student,usuario"`
}
