package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/escolar/internal/app/models/dto"
	"github.com/yigit/escolar/internal/pkg/apperrors"
	"github.com/yigit/escolar/internal/pkg/logger"
)

// errorStatus maps an error onto its HTTP status, error code and fallback message
func errorStatus(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeDatabaseError, "An internal error occurred, please try again"
	}
}

// HandleAPIError writes the error response for err. Known application errors carry
// their own message; anything else is logged and reported as a storage failure.
func HandleAPIError(c *gin.Context, err error) {
	status, code, fallback := errorStatus(err)

	message := fallback
	if status != http.StatusInternalServerError {
		message = apperrors.MessageOf(err, fallback)
	} else {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	errorDetail := dto.NewErrorDetail(code, message)

	var ce *apperrors.CustomError
	if errors.As(err, &ce) && status != http.StatusInternalServerError {
		details := make(map[string]interface{}, len(ce.Details)+1)
		for k, v := range ce.Details {
			details[k] = v
		}
		if ce.Code != "" {
			details["reason"] = ce.Code
		}
		if len(details) > 0 {
			errorDetail = errorDetail.WithDetails(details)
		}
	}
	if gin.Mode() == gin.DebugMode && status == http.StatusInternalServerError {
		errorDetail = errorDetail.WithDebugInfo("%v", err)
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(errorDetail))
}
