package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/service"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

// ControlWeekHandler serves weekly time-control periods.
type ControlWeekHandler struct {
	service *service.ControlWeekService
}

// NewControlWeekHandler constructs the handler.
func NewControlWeekHandler(svc *service.ControlWeekService) *ControlWeekHandler {
	return &ControlWeekHandler{service: svc}
}

// Get godoc
// @Summary Get control week
// @Tags Control weeks
// @Produce json
// @Param id path string true "Control week ID"
// @Success 200 {object} response.Envelope
// @Router /control-weeks/{id} [get]
func (h *ControlWeekHandler) Get(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// Open godoc
// @Summary Open the control week containing a date
// @Tags Control weeks
// @Accept json
// @Produce json
// @Param payload body dto.OpenControlWeekRequest true "Week payload"
// @Success 201 {object} response.Envelope
// @Router /control-weeks [post]
func (h *ControlWeekHandler) Open(c *gin.Context) {
	var req dto.OpenControlWeekRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.Open(c.Request.Context(), req, claimsFromContext(c)))
}

// Current godoc
// @Summary Current open control week of a person
// @Description Defaults to the caller's person.
// @Tags Control weeks
// @Produce json
// @Param person_id query string false "Person ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /control-weeks/current [get]
func (h *ControlWeekHandler) Current(c *gin.Context) {
	claims := claimsFromContext(c)
	personID := c.Query("person_id")
	if personID == "" && claims != nil {
		personID = claims.PersonID
	}
	if personID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "person_id is required"))
		return
	}
	reply(c, http.StatusOK)(h.service.Current(c.Request.Context(), personID, claims))
}

// Close godoc
// @Summary Close a control week
// @Tags Control weeks
// @Produce json
// @Param id path string true "Control week ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /control-weeks/{id}/close [post]
func (h *ControlWeekHandler) Close(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.Close(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}
