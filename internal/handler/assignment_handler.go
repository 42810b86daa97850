package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/service"
)

// AssignmentHandler serves weekly assignments and change requests.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Get godoc
// @Summary Get assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.Get(c.Request.Context(), c.Param("id")))
}

// Create godoc
// @Summary Assign weekly hours
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.Create(c.Request.Context(), req))
}

// Update godoc
// @Summary Update assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.UpdateAssignmentRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusOK)(h.service.Update(c.Request.Context(), c.Param("id"), req))
}

// Delete godoc
// @Summary Delete assignment
// @Tags Assignments
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	deleted(c, h.service.Delete(c.Request.Context(), c.Param("id")))
}

// GetRequest godoc
// @Summary Get assignment change request
// @Tags Assignments
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-requests/{id} [get]
func (h *AssignmentHandler) GetRequest(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.GetRequest(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// CreateRequest godoc
// @Summary Request a change of weekly hours
// @Description The control week of the person must be open.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentChangeRequest true "Change payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignment-requests [post]
func (h *AssignmentHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateAssignmentChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.RequestChange(c.Request.Context(), req, claimsFromContext(c)))
}

// ReviewRequest godoc
// @Summary Approve or reject an assignment change request
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.ReviewDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /assignment-requests/{id}/review [put]
func (h *AssignmentHandler) ReviewRequest(c *gin.Context) {
	reviewer, ok := reviewerFromContext(c)
	if !ok {
		return
	}
	var req dto.ReviewDecisionRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusOK)(h.service.ReviewRequest(c.Request.Context(), c.Param("id"), req, reviewer))
}

// DeleteRequest godoc
// @Summary Withdraw a pending change request
// @Tags Assignments
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Router /assignment-requests/{id} [delete]
func (h *AssignmentHandler) DeleteRequest(c *gin.Context) {
	deleted(c, h.service.DeleteRequest(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}
