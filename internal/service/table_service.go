package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/export"
	"github.com/noah-isme/resource-planner-api/pkg/table"
)

// ExportFormat enumerates table export encodings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type tableQuerier interface {
	Query(ctx context.Context, def table.Definition, req table.Request) (*table.Result, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered table export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TableService serves the generic listing and export endpoints.
type TableService struct {
	repo        tableQuerier
	definitions map[string]table.Definition
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewTableService constructs the service over definitions keyed by resource.
func NewTableService(repo tableQuerier, definitions map[string]table.Definition, logger *zap.Logger) *TableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableService{
		repo:        repo,
		definitions: definitions,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Query lists resource rows. Employees only see rows of their own person when the
// resource has a person_id column.
func (s *TableService) Query(ctx context.Context, resource string, req table.Request, actor *models.JWTClaims) (*table.Result, error) {
	def, ok := s.definitions[resource]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown table "+resource)
	}
	req, err := scopeTable(def, req, actor)
	if err != nil {
		return nil, err
	}
	result, err := s.repo.Query(ctx, def, req)
	if err != nil {
		if errors.Is(err, table.ErrUnknownColumn) || errors.Is(err, table.ErrInvalidPaging) {
			return nil, invalid(err, err.Error())
		}
		return nil, appErrors.Internal(err, "failed to query "+resource)
	}
	return result, nil
}

// Export renders the rows Query would return as CSV or PDF.
func (s *TableService) Export(ctx context.Context, resource string, req table.Request, format ExportFormat, actor *models.JWTClaims) (*ExportFile, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	result, err := s.Query(ctx, resource, req, actor)
	if err != nil {
		return nil, err
	}
	def := s.definitions[resource]
	dataset := export.DatasetFromRows(def.Columns, result.Data)

	file := &ExportFile{Filename: fmt.Sprintf("%s_%s.%s", strings.ReplaceAll(resource, "-", "_"), time.Now().UTC().Format("20060102_150405"), format)}
	switch format {
	case ExportFormatPDF:
		file.ContentType = "application/pdf"
		file.Data, err = s.pdf.Render(dataset, strings.ReplaceAll(resource, "-", " "))
	default:
		file.ContentType = "text/csv"
		file.Data, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	s.logger.Debug("table exported", zap.String("resource", resource), zap.String("format", string(format)), zap.Int("rows", len(result.Data)))
	return file, nil
}

// Resources lists the registered table names.
func (s *TableService) Resources() []string {
	names := make([]string, 0, len(s.definitions))
	for name := range s.definitions {
		names = append(names, name)
	}
	return names
}

func scopeTable(def table.Definition, req table.Request, actor *models.JWTClaims) (table.Request, error) {
	if actor == nil {
		return req, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleEmployee {
		return req, nil
	}
	if !def.Allows("person_id") || actor.PersonID == "" {
		return req, appErrors.Clone(appErrors.ErrForbidden, "listing not available")
	}
	search := make(map[string]string, len(req.Search)+1)
	for k, v := range req.Search {
		search[k] = v
	}
	search["person_id"] = actor.PersonID
	req.Search = search
	return req, nil
}
