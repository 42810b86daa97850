package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/service"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

// HRHandler serves the reviewed HR records of people.
type HRHandler struct {
	service *service.HRService
}

// NewHRHandler constructs the handler.
func NewHRHandler(svc *service.HRService) *HRHandler {
	return &HRHandler{service: svc}
}

// reply writes the result of a service call returning (value, error).
func reply(c *gin.Context, status int) func(interface{}, error) {
	return func(v interface{}, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, status, v)
	}
}

func deleted(c *gin.Context, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c)
}

// GetIdentification godoc
// @Summary Get identification
// @Tags HR
// @Produce json
// @Param id path string true "Identification ID"
// @Success 200 {object} response.Envelope
// @Router /identifications/{id} [get]
func (h *HRHandler) GetIdentification(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.GetIdentification(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// CreateIdentification godoc
// @Summary Create identification and request its review
// @Tags HR
// @Accept json
// @Produce json
// @Param payload body dto.CreateIdentificationRequest true "Identification payload"
// @Success 201 {object} response.Envelope
// @Router /identifications [post]
func (h *HRHandler) CreateIdentification(c *gin.Context) {
	var req dto.CreateIdentificationRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.CreateIdentification(c.Request.Context(), req, claimsFromContext(c)))
}

// UpdateIdentification godoc
// @Summary Update identification and request its review again
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Identification ID"
// @Param payload body dto.UpdateIdentificationRequest true "Identification payload"
// @Success 200 {object} response.Envelope
// @Router /identifications/{id} [put]
func (h *HRHandler) UpdateIdentification(c *gin.Context) {
	var req dto.UpdateIdentificationRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusOK)(h.service.UpdateIdentification(c.Request.Context(), c.Param("id"), req, claimsFromContext(c)))
}

// DeleteIdentification godoc
// @Summary Delete identification
// @Tags HR
// @Param id path string true "Identification ID"
// @Success 200 {object} response.Envelope
// @Router /identifications/{id} [delete]
func (h *HRHandler) DeleteIdentification(c *gin.Context) {
	deleted(c, h.service.DeleteIdentification(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// GetResidence godoc
// @Summary Get residence
// @Tags HR
// @Produce json
// @Param id path string true "Residence ID"
// @Success 200 {object} response.Envelope
// @Router /residences/{id} [get]
func (h *HRHandler) GetResidence(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.GetResidence(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// CreateResidence godoc
// @Summary Create residence and request its review
// @Description Reviewers are mailed synchronously; a delivery failure discards the record and returns 502.
// @Tags HR
// @Accept json
// @Produce json
// @Param payload body dto.CreateResidenceRequest true "Residence payload"
// @Success 201 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /residences [post]
func (h *HRHandler) CreateResidence(c *gin.Context) {
	var req dto.CreateResidenceRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.CreateResidence(c.Request.Context(), req, claimsFromContext(c)))
}

// UpdateResidence godoc
// @Summary Update residence and request its review again
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Residence ID"
// @Param payload body dto.UpdateResidenceRequest true "Residence payload"
// @Success 200 {object} response.Envelope
// @Router /residences/{id} [put]
func (h *HRHandler) UpdateResidence(c *gin.Context) {
	var req dto.UpdateResidenceRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusOK)(h.service.UpdateResidence(c.Request.Context(), c.Param("id"), req, claimsFromContext(c)))
}

// DeleteResidence godoc
// @Summary Delete residence
// @Tags HR
// @Param id path string true "Residence ID"
// @Success 200 {object} response.Envelope
// @Router /residences/{id} [delete]
func (h *HRHandler) DeleteResidence(c *gin.Context) {
	deleted(c, h.service.DeleteResidence(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// GetCertification godoc
// @Summary Get certification
// @Tags HR
// @Produce json
// @Param id path string true "Certification ID"
// @Success 200 {object} response.Envelope
// @Router /certifications/{id} [get]
func (h *HRHandler) GetCertification(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.GetCertification(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// CreateCertification godoc
// @Summary Create certification and request its review
// @Tags HR
// @Accept json
// @Produce json
// @Param payload body dto.CreateCertificationRequest true "Certification payload"
// @Success 201 {object} response.Envelope
// @Router /certifications [post]
func (h *HRHandler) CreateCertification(c *gin.Context) {
	var req dto.CreateCertificationRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.CreateCertification(c.Request.Context(), req, claimsFromContext(c)))
}

// UpdateCertification godoc
// @Summary Update certification
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Certification ID"
// @Param payload body dto.UpdateCertificationRequest true "Certification payload"
// @Success 200 {object} response.Envelope
// @Router /certifications/{id} [put]
func (h *HRHandler) UpdateCertification(c *gin.Context) {
	var req dto.UpdateCertificationRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusOK)(h.service.UpdateCertification(c.Request.Context(), c.Param("id"), req, claimsFromContext(c)))
}

// DeleteCertification godoc
// @Summary Delete certification
// @Tags HR
// @Param id path string true "Certification ID"
// @Success 200 {object} response.Envelope
// @Router /certifications/{id} [delete]
func (h *HRHandler) DeleteCertification(c *gin.Context) {
	deleted(c, h.service.DeleteCertification(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// GetLaboralExperience godoc
// @Summary Get laboral experience
// @Tags HR
// @Produce json
// @Param id path string true "Experience ID"
// @Success 200 {object} response.Envelope
// @Router /laboral-experiences/{id} [get]
func (h *HRHandler) GetLaboralExperience(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.GetLaboralExperience(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// CreateLaboralExperience godoc
// @Summary Create laboral experience
// @Tags HR
// @Accept json
// @Produce json
// @Param payload body dto.CreateLaboralExperienceRequest true "Experience payload"
// @Success 201 {object} response.Envelope
// @Router /laboral-experiences [post]
func (h *HRHandler) CreateLaboralExperience(c *gin.Context) {
	var req dto.CreateLaboralExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.CreateLaboralExperience(c.Request.Context(), req, claimsFromContext(c)))
}

// UpdateLaboralExperience godoc
// @Summary Update laboral experience
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Experience ID"
// @Param payload body dto.UpdateLaboralExperienceRequest true "Experience payload"
// @Success 200 {object} response.Envelope
// @Router /laboral-experiences/{id} [put]
func (h *HRHandler) UpdateLaboralExperience(c *gin.Context) {
	var req dto.UpdateLaboralExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusOK)(h.service.UpdateLaboralExperience(c.Request.Context(), c.Param("id"), req, claimsFromContext(c)))
}

// DeleteLaboralExperience godoc
// @Summary Delete laboral experience
// @Tags HR
// @Param id path string true "Experience ID"
// @Success 200 {object} response.Envelope
// @Router /laboral-experiences/{id} [delete]
func (h *HRHandler) DeleteLaboralExperience(c *gin.Context) {
	deleted(c, h.service.DeleteLaboralExperience(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// GetProjectExperience godoc
// @Summary Get project experience
// @Tags HR
// @Produce json
// @Param id path string true "Experience ID"
// @Success 200 {object} response.Envelope
// @Router /project-experiences/{id} [get]
func (h *HRHandler) GetProjectExperience(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.GetProjectExperience(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// CreateProjectExperience godoc
// @Summary Create project experience
// @Tags HR
// @Accept json
// @Produce json
// @Param payload body dto.CreateProjectExperienceRequest true "Experience payload"
// @Success 201 {object} response.Envelope
// @Router /project-experiences [post]
func (h *HRHandler) CreateProjectExperience(c *gin.Context) {
	var req dto.CreateProjectExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusCreated)(h.service.CreateProjectExperience(c.Request.Context(), req, claimsFromContext(c)))
}

// UpdateProjectExperience godoc
// @Summary Update project experience
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Experience ID"
// @Param payload body dto.UpdateProjectExperienceRequest true "Experience payload"
// @Success 200 {object} response.Envelope
// @Router /project-experiences/{id} [put]
func (h *HRHandler) UpdateProjectExperience(c *gin.Context) {
	var req dto.UpdateProjectExperienceRequest
	if !bindJSON(c, &req) {
		return
	}
	reply(c, http.StatusOK)(h.service.UpdateProjectExperience(c.Request.Context(), c.Param("id"), req, claimsFromContext(c)))
}

// DeleteProjectExperience godoc
// @Summary Delete project experience
// @Tags HR
// @Param id path string true "Experience ID"
// @Success 200 {object} response.Envelope
// @Router /project-experiences/{id} [delete]
func (h *HRHandler) DeleteProjectExperience(c *gin.Context) {
	deleted(c, h.service.DeleteProjectExperience(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}
