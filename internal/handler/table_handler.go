package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resource-planner-api/internal/models"
	"github.com/noah-isme/resource-planner-api/internal/service"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/response"
	"github.com/noah-isme/resource-planner-api/pkg/table"
)

type tableService interface {
	Query(ctx context.Context, resource string, req table.Request, actor *models.JWTClaims) (*table.Result, error)
	Export(ctx context.Context, resource string, req table.Request, format service.ExportFormat, actor *models.JWTClaims) (*service.ExportFile, error)
}

// TableHandler serves POST <resource>/table listings and their exports.
type TableHandler struct {
	service tableService
}

// NewTableHandler constructs the handler.
func NewTableHandler(svc tableService) *TableHandler {
	return &TableHandler{service: svc}
}

// bindTable accepts an empty body as an unfiltered, unpaginated request.
func bindTable(c *gin.Context) (table.Request, bool) {
	var req table.Request
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		// chunked requests report an unknown length, so an empty body shows up as EOF
		if errors.Is(err, io.EOF) {
			return table.Request{}, true
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid table request"))
		return req, false
	}
	return req, true
}

// Query returns the listing handler for resource.
//
// @Summary List rows of a resource
// @Description Body {order, page, rows, search}; search is a case-insensitive substring match per column, rows null disables paging.
// @Tags Tables
// @Accept json
// @Produce json
// @Param resource path string true "Resource"
// @Param payload body table.Request false "Table request"
// @Success 200 {object} table.Result
// @Router /{resource}/table [post]
func (h *TableHandler) Query(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindTable(c)
		if !ok {
			return
		}
		result, err := h.service.Query(c.Request.Context(), resource, req, claimsFromContext(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Table(c, result)
	}
}

// Export returns the handler rendering the listing of resource as a file.
//
// @Summary Export rows of a resource
// @Tags Tables
// @Accept json
// @Produce text/csv,application/pdf
// @Param resource path string true "Resource"
// @Param format query string false "csv or pdf"
// @Param payload body table.Request false "Table request"
// @Success 200 {file} file
// @Router /{resource}/table/export [post]
func (h *TableHandler) Export(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindTable(c)
		if !ok {
			return
		}
		format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportFormatCSV))))
		file, err := h.service.Export(c.Request.Context(), resource, req, format, claimsFromContext(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		c.Data(http.StatusOK, file.ContentType, file.Data)
	}
}
