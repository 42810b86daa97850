package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/service"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

// ProjectHandler serves projects, their budgets and the role catalog.
type ProjectHandler struct {
	service *service.ProjectService
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// GetProject godoc
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.service.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project)
}

// CreateProject godoc
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body dto.CreateProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.service.CreateProject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// UpdateProject godoc
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param payload body dto.UpdateProjectRequest true "Project payload"
// @Success 200 {object} response.Envelope
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := h.service.UpdateProject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete project
// @Tags Projects
// @Param id path string true "Project ID"
// @Success 200 {object} response.Envelope
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.service.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// GetBudget godoc
// @Summary Get budget
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} response.Envelope
// @Router /budgets/{id} [get]
func (h *ProjectHandler) GetBudget(c *gin.Context) {
	budget, err := h.service.GetBudget(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, budget)
}

// CreateBudget godoc
// @Summary Create budget
// @Tags Budgets
// @Accept json
// @Produce json
// @Param payload body dto.CreateBudgetRequest true "Budget payload"
// @Success 201 {object} response.Envelope
// @Router /budgets [post]
func (h *ProjectHandler) CreateBudget(c *gin.Context) {
	var req dto.CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.service.CreateBudget(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, budget)
}

// UpdateBudget godoc
// @Summary Update budget
// @Tags Budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param payload body dto.UpdateBudgetRequest true "Budget payload"
// @Success 200 {object} response.Envelope
// @Router /budgets/{id} [put]
func (h *ProjectHandler) UpdateBudget(c *gin.Context) {
	var req dto.UpdateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}
	budget, err := h.service.UpdateBudget(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, budget)
}

// DeleteBudget godoc
// @Summary Delete budget
// @Tags Budgets
// @Param id path string true "Budget ID"
// @Success 200 {object} response.Envelope
// @Router /budgets/{id} [delete]
func (h *ProjectHandler) DeleteBudget(c *gin.Context) {
	if err := h.service.DeleteBudget(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// GetRole godoc
// @Summary Get role
// @Tags Roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} response.Envelope
// @Router /roles/{id} [get]
func (h *ProjectHandler) GetRole(c *gin.Context) {
	role, err := h.service.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role)
}

// CreateRole godoc
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Param payload body dto.CreateRoleRequest true "Role payload"
// @Success 201 {object} response.Envelope
// @Router /roles [post]
func (h *ProjectHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.service.CreateRole(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, role)
}

// UpdateRole godoc
// @Summary Update role
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param payload body dto.UpdateRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Router /roles/{id} [put]
func (h *ProjectHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.service.UpdateRole(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, role)
}

// DeleteRole godoc
// @Summary Delete role
// @Tags Roles
// @Param id path string true "Role ID"
// @Success 200 {object} response.Envelope
// @Router /roles/{id} [delete]
func (h *ProjectHandler) DeleteRole(c *gin.Context) {
	if err := h.service.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}
