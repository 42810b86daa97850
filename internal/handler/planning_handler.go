package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/middleware"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

type planningService interface {
	Heatmap(ctx context.Context, query dto.HeatmapQuery, actor *models.JWTClaims) (*models.Heatmap, bool, error)
}

// PlanningHandler serves the weekly hours heatmap.
type PlanningHandler struct {
	service planningService
}

// NewPlanningHandler constructs the handler.
func NewPlanningHandler(svc planningService) *PlanningHandler {
	return &PlanningHandler{service: svc}
}

// Heatmap godoc
// @Summary Weekly assigned hours per person
// @Tags Planning
// @Produce json
// @Param from query string true "First week (YYYY-MM-DD)"
// @Param to query string true "Last week (YYYY-MM-DD)"
// @Param person_id query string false "Restrict to one person"
// @Success 200 {object} response.Envelope
// @Router /planning/heatmap [get]
func (h *PlanningHandler) Heatmap(c *gin.Context) {
	var query dto.HeatmapQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid heatmap query"))
		return
	}
	heatmap, cacheHit, err := h.service.Heatmap(c.Request.Context(), query, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, heatmap, middleware.Meta(c))
}
