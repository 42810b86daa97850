package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/service"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

// EarlyCloseHandler serves requests to close a control week before its end.
type EarlyCloseHandler struct {
	service *service.EarlyCloseService
}

// NewEarlyCloseHandler constructs the handler.
func NewEarlyCloseHandler(svc *service.EarlyCloseService) *EarlyCloseHandler {
	return &EarlyCloseHandler{service: svc}
}

// Get godoc
// @Summary Get early-close request
// @Tags Early close
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /early-close-requests/{id} [get]
func (h *EarlyCloseHandler) Get(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.Get(c.Request.Context(), c.Param("id")))
}

// Create godoc
// @Summary Ask to close the open control week early
// @Description Reviewers are notified by mail; the request is withdrawn when mail fails.
// @Tags Early close
// @Accept json
// @Produce json
// @Param payload body dto.CreateEarlyCloseRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /early-close-requests [post]
func (h *EarlyCloseHandler) Create(c *gin.Context) {
	var req dto.CreateEarlyCloseRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.Request(c.Request.Context(), req, claimsFromContext(c)))
}

// Review godoc
// @Summary Approve or reject an early-close request
// @Description Approval closes the week and drops its pending assignment requests. A failed outcome mail answers 502 with the applied outcome in data.
// @Tags Early close
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.ReviewDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /early-close-requests/{id}/review [put]
func (h *EarlyCloseHandler) Review(c *gin.Context) {
	reviewer, ok := reviewerFromContext(c)
	if !ok {
		return
	}
	var req dto.ReviewDecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	outcome, err := h.service.Review(c.Request.Context(), c.Param("id"), req, reviewer)
	if err != nil && outcome != nil {
		appErr := appErrors.FromError(err)
		_ = c.Error(err)
		c.JSON(appErr.Status, response.Envelope{Data: outcome, Error: appErr})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}
