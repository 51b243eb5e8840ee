package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/escolar/internal/app/models/dto"
	"github.com/yigit/escolar/internal/middleware"
)

// EnrollmentController handles direct enrollment edits
type EnrollmentController struct {
	enrollmentService EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// bindEnrollment reads the pair from the JSON body, or from the query string when there is no body
func bindEnrollment(ctx *gin.Context) (dto.EnrollmentRequest, bool) {
	var req dto.EnrollmentRequest
	var err error
	if ctx.Request.ContentLength > 0 {
		err = ctx.ShouldBindJSON(&req)
	} else {
		err = ctx.ShouldBindQuery(&req)
	}
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return req, false
	}
	return req, true
}

// AssignEnrollment enrolls a student in a course, replacing its current course
// @Summary Assign a course to a student
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollmentRequest true "Student and course"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrollment assigned"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Student or course not found"
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled in this course"
// @Router /enrollments [post]
func (c *EnrollmentController) AssignEnrollment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	req, ok := bindEnrollment(ctx)
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.AssignEnrollment(ctx.Request.Context(), actor, req.StudentID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, enrollment)
}

// RemoveEnrollment removes a student from a course
// @Summary Remove a student from a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id_alumno query int true "Student ID"
// @Param id_curso query int true "Course ID"
// @Success 200 {object} dto.SuccessResponse "Enrollment removed"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments [delete]
func (c *EnrollmentController) RemoveEnrollment(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	req, ok := bindEnrollment(ctx)
	if !ok {
		return
	}

	if err := c.enrollmentService.RemoveEnrollment(ctx.Request.Context(), actor, req.StudentID, req.CourseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Enrollment removed"))
}
