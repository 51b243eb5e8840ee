package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/escolar/internal/app/models"
	"github.com/yigit/escolar/internal/app/models/dto"
	"github.com/yigit/escolar/internal/middleware"
)

// HistoryController exposes the audit log
type HistoryController struct {
	historyService HistoryService
}

// NewHistoryController creates a new HistoryController
func NewHistoryController(historyService HistoryService) *HistoryController {
	return &HistoryController{
		historyService: historyService,
	}
}

// ListHistory lists history records, newest first
// @Summary List student history
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param id_alumno query int false "Filter by student ID"
// @Param tipo_cambio query string false "Filter by change type" Enums(alta, modificacion, baja)
// @Success 200 {object} dto.APIResponse{data=[]models.HistoryRecord} "History retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin role required"
// @Router /students/history [get]
func (c *HistoryController) ListHistory(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var query dto.HistoryQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	filter := models.HistoryFilter{StudentID: query.StudentID}
	if query.ChangeType != nil && *query.ChangeType != "" {
		ct := models.ChangeType(*query.ChangeType)
		filter.ChangeType = &ct
	}

	records, err := c.historyService.ListHistory(ctx.Request.Context(), actor, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, records)
}

// ListGaps lists history records that could not be written
// @Summary List audit gaps
// @Tags history
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {object} dto.APIResponse{data=[]dto.AuditGapResponse} "Audit gaps retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Gap tracking disabled"
// @Router /students/history/gaps [get]
func (c *HistoryController) ListGaps(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	limit, err := strconv.ParseInt(ctx.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit < 1 {
		limit = 100
	}

	gaps, err := c.historyService.ListGaps(ctx.Request.Context(), actor, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.AuditGapResponse, 0, len(gaps))
	for _, g := range gaps {
		out = append(out, dto.AuditGapResponse{
			StudentID:  g.StudentID,
			ChangeType: g.ChangeType,
			Error:      g.Error,
			UserID:     g.UserID,
			OccurredAt: g.OccurredAt.Format(time.RFC3339),
		})
	}

	respond(ctx, http.StatusOK, out)
}
