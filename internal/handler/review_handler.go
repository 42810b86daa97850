package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

type reviewService interface {
	Find(ctx context.Context, dataType models.ReviewType, reference string) (*models.Review, error)
	Decide(ctx context.Context, dataType models.ReviewType, reference string, req dto.ReviewDecisionRequest, reviewer string) (*models.Review, error)
}

// ReviewHandler exposes the review engine.
type ReviewHandler struct {
	service reviewService
}

// NewReviewHandler constructs the handler.
func NewReviewHandler(svc reviewService) *ReviewHandler {
	return &ReviewHandler{service: svc}
}

// Get godoc
// @Summary Get the review of a record
// @Tags Reviews
// @Produce json
// @Param type path string true "Data type"
// @Param reference path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reviews/{type}/{reference} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.service.Find(c.Request.Context(), models.ReviewType(c.Param("type")), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, review)
}

// Decide returns the handler resolving the review of dataType for the record in :id.
//
// @Summary Approve or reject a record
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body dto.ReviewDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /{resource}/{id}/review [put]
func (h *ReviewHandler) Decide(dataType models.ReviewType) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewer, ok := reviewerFromContext(c)
		if !ok {
			return
		}
		var req dto.ReviewDecisionRequest
		if !bindJSON(c, &req) {
			return
		}
		review, err := h.service.Decide(c.Request.Context(), dataType, c.Param("id"), req, reviewer)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, review)
	}
}
