package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/service"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

// PersonHandler handles person endpoints.
type PersonHandler struct {
	service *service.PersonService
}

// NewPersonHandler constructs a person handler.
func NewPersonHandler(svc *service.PersonService) *PersonHandler {
	return &PersonHandler{service: svc}
}

// Get godoc
// @Summary Get person by id
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person)
}

// Create godoc
// @Summary Create person
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body dto.CreatePersonRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Router /persons [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if !bindJSON(c, &req) {
		return
	}
	person, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// Update godoc
// @Summary Update person
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body dto.UpdatePersonRequest true "Person payload"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if !bindJSON(c, &req) {
		return
	}
	person, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person)
}

// Delete godoc
// @Summary Delete person
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
