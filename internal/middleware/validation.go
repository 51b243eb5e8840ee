package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/escolar/internal/app/models/dto"
)

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "gte", "lte":
		return e.Field() + " is out of range"
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "uuid":
		return e.Field() + " must be a valid user id"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// HandleBindingError writes a 400 response describing why a request could not be bound
func HandleBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		errs := dto.NewValidationErrors()
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			msg := formatValidationError(fe)
			errs.AddError(fe.Field(), msg)
			messages = append(messages, msg)
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, strings.Join(messages, "; ")).
			WithDetails(errs.Errors)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	message := "Invalid request format"
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		message = "Request body is not valid JSON"
	case errors.As(err, &typeErr):
		message = typeErr.Field + " has an invalid type"
	}

	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).WithDetails(err.Error())
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
