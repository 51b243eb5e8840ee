package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/escolar/internal/app/models/dto"
	"github.com/yigit/escolar/internal/middleware"
)

// RoleController reports the caller's role and takes admin requests
type RoleController struct {
	requests AdminRequester
}

// NewRoleController creates a new RoleController
func NewRoleController(requests AdminRequester) *RoleController {
	return &RoleController{
		requests: requests,
	}
}

// GetRole returns the role resolved for the caller
// @Summary Get the caller's role
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RoleResponse} "Role resolved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /auth/role [get]
func (c *RoleController) GetRole(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	respond(ctx, http.StatusOK, dto.RoleResponse{
		UserID: actor.UserID.String(),
		Role:   string(actor.Role),
	})
}

// RequestAdmin records that the caller asks for the admin role
// @Summary Request the admin role
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse "Request recorded"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Caller is already an administrator"
// @Router /auth/request-admin [post]
func (c *RoleController) RequestAdmin(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := c.requests.RequestAdmin(ctx.Request.Context(), actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Admin role requested"))
}
