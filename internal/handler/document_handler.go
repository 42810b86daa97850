package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/service"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/response"
)

// DocumentHandler serves support document uploads and downloads.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// Upload godoc
// @Summary Upload a support document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param person_id formData string true "Person ID"
// @Param kind formData string true "Document kind"
// @Param file formData file true "Content"
// @Success 201 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload form"))
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	defer file.Close()

	reply(c, http.StatusCreated)(h.service.Upload(c.Request.Context(), req, header.Filename, header.Header.Get("Content-Type"), file, claimsFromContext(c)))
}

// Get godoc
// @Summary Get document metadata with a signed download link
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	reply(c, http.StatusOK)(h.service.Get(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}

// Download godoc
// @Summary Download document content
// @Description Authorised by the signed token only.
// @Tags Documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, file, err := h.service.Open(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Filename),
		"Cache-Control":       "private, no-store",
	}
	c.DataFromReader(http.StatusOK, doc.SizeBytes, doc.MimeType, file, headers)
}

// Delete godoc
// @Summary Delete document
// @Tags Documents
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	deleted(c, h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)))
}
