package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/escolar/internal/app/auth"
	"github.com/yigit/escolar/internal/app/models/dto"
	"github.com/yigit/escolar/internal/middleware"
	"github.com/yigit/escolar/internal/pkg/logger"
)

// DocumentController handles supporting document uploads
type DocumentController struct {
	uploader DocumentUploader
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(uploader DocumentUploader) *DocumentController {
	return &DocumentController{
		uploader: uploader,
	}
}

// UploadDocument stores a supporting document and returns its URL
// @Summary Upload a supporting document
// @Description Stores a PDF or image; the returned URL is sent as documento_url when removing a student
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Document (PDF, PNG or JPEG)"
// @Success 201 {object} dto.APIResponse{data=dto.DocumentResponse} "Document uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing, empty, too large or unsupported file"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Router /students/documents [post]
func (c *DocumentController) UploadDocument(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	if err := auth.RequireAdmin(actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").
			WithField("file").
			WithDetails(err.Error())
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if fileHeader.Size > c.uploader.MaxBytes() {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed,
			fmt.Sprintf("the uploaded file exceeds %d bytes", c.uploader.MaxBytes())).WithField("file")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		middleware.HandleAPIError(ctx, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	doc, err := c.uploader.Upload(ctx.Request.Context(), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("url", doc.URL).Str("actor", actor.UserID.String()).Msg("Supporting document uploaded")

	respond(ctx, http.StatusCreated, dto.DocumentResponse{
		URL:         doc.URL,
		ContentType: doc.ContentType,
		Size:        doc.Size,
	})
}
