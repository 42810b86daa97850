package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const documentColumns = `id, person_id, kind, filename, storage_path, mime_type, size_bytes, created_at`

// DocumentRepository persists support document metadata.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// FindByID returns a document by identifier.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := getOne(ctx, r.db, &doc, "find document", `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create inserts document metadata.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO documents (` + documentColumns + `)
	VALUES (:id, :person_id, :kind, :filename, :storage_path, :mime_type, :size_bytes, :created_at)`
	return namedExecOne(ctx, r.db, "create document", query, doc)
}

// Delete removes document metadata.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete document", `DELETE FROM documents WHERE id = $1`, id)
}
