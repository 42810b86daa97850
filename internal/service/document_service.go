package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/storage"
)

type documentStore interface {
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, id string) error
}

type fileStore interface {
	Put(relPath string, r io.Reader, limit int64) (int64, error)
	Open(relPath string) (*os.File, error)
	Remove(relPath string) error
}

type urlSigner interface {
	Sign(documentID string) (storage.Grant, error)
	Verify(token, documentID string) error
}

// DocumentConfig bounds uploads and shapes download links.
type DocumentConfig struct {
	APIPrefix    string
	MaxSizeBytes int64
	AllowedMIMEs []string
}

// DocumentService stores support documents and hands out signed download links.
type DocumentService struct {
	repo      documentStore
	files     fileStore
	signer    urlSigner
	people    personReader
	reviews   reviewEngine
	cfg       DocumentConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDocumentService constructs the service.
func NewDocumentService(repo documentStore, files fileStore, signer urlSigner, people personReader, reviews reviewEngine, cfg DocumentConfig, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	return &DocumentService{repo: repo, files: files, signer: signer, people: people, reviews: reviews, cfg: cfg, validator: validate, logger: logger}
}

// ReviewCategory registers documents with the review engine.
func (s *DocumentService) ReviewCategory() ReviewCategory {
	return ReviewCategory{
		Type:   models.ReviewTypeDocument,
		Label:  "documento de respaldo",
		Policy: NotifyNone,
		Owner: func(ctx context.Context, reference string) (string, error) {
			doc, err := s.repo.FindByID(ctx, reference)
			if err != nil {
				return "", err
			}
			return doc.PersonID, nil
		},
	}
}

// Upload stores content under the person and submits the document for review.
func (s *DocumentService) Upload(ctx context.Context, req dto.UploadDocumentRequest, filename, contentType string, content io.Reader, actor *models.JWTClaims) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid document payload")
	}
	if err := actFor(actor, req.PersonID); err != nil {
		return nil, err
	}
	if _, err := s.people.FindByID(ctx, req.PersonID); err != nil {
		return nil, loadFailed(err, "person")
	}
	filename = cleanFilename(filename)
	if filename == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	head, err := readHead(content)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to read document")
	}
	detected := mimetype.Detect(head)
	mimeType := mediaType(detected.String())
	if declared := mediaType(contentType); declared != "" && declared != "application/octet-stream" && !detected.Is(declared) {
		s.logger.Warn("declared document type differs from content",
			zap.String("declared", declared), zap.String("detected", mimeType), zap.String("filename", filename))
	}
	if !s.mimeAllowed(detected) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not allowed", mimeType))
	}
	content = io.MultiReader(bytes.NewReader(head), content)

	doc := &models.Document{
		ID:       uuid.NewString(),
		PersonID: req.PersonID,
		Kind:     strings.TrimSpace(req.Kind),
		Filename: filename,
		MimeType: mimeType,
	}
	doc.StoragePath = path.Join("persons", doc.PersonID, doc.ID+strings.ToLower(filepath.Ext(filename)))

	size, err := s.files.Put(doc.StoragePath, content, s.cfg.MaxSizeBytes)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxSizeBytes))
		}
		return nil, appErrors.Internal(err, "failed to store document")
	}
	doc.SizeBytes = size

	if err := s.repo.Create(ctx, doc); err != nil {
		s.removeFile(doc)
		return nil, writeFailed(err, "create", "document")
	}
	review, err := s.reviews.RequestReview(ctx, models.ReviewTypeDocument, doc.ID)
	if err != nil {
		if delErr := s.repo.Delete(ctx, doc.ID); delErr != nil {
			s.logger.Error("failed to drop document after review error", zap.String("document_id", doc.ID), zap.Error(delErr))
		}
		s.removeFile(doc)
		return nil, err
	}
	doc.Review = review
	return doc, nil
}

// Get returns document metadata with a signed download link.
func (s *DocumentService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.DocumentDownload, error) {
	doc, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	doc.Review = s.reviews.Attach(ctx, models.ReviewTypeDocument, doc.ID)
	grant, err := s.signer.Sign(doc.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign download link")
	}
	link := fmt.Sprintf("%s/documents/%s/download?token=%s", strings.TrimRight(s.cfg.APIPrefix, "/"), doc.ID, url.QueryEscape(grant.Token))
	return &models.DocumentDownload{Document: doc, URL: link, ExpiresAt: grant.ExpiresAt}, nil
}

// Open verifies token and returns the document with a handle to its content. The
// caller closes the file.
func (s *DocumentService) Open(ctx context.Context, id, token string) (*models.Document, *os.File, error) {
	if err := s.signer.Verify(token, id); err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, loadFailed(err, "document")
	}
	file, err := s.files.Open(doc.StoragePath)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to open document")
	}
	return doc, file, nil
}

// Delete removes the review, the metadata and then the stored file.
func (s *DocumentService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	doc, err := s.load(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, models.ReviewTypeDocument, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeFailed(err, "delete", "document")
	}
	s.removeFile(doc)
	return nil
}

func (s *DocumentService) load(ctx context.Context, id string, actor *models.JWTClaims) (*models.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "document")
	}
	if err := actFor(actor, doc.PersonID); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) removeFile(doc *models.Document) {
	if err := s.files.Remove(doc.StoragePath); err != nil {
		s.logger.Warn("failed to remove document file", zap.String("path", doc.StoragePath), zap.Error(err))
	}
}

// mimeAllowed matches the sniffed type, or one of its aliases, against the allow-list.
func (s *DocumentService) mimeAllowed(detected *mimetype.MIME) bool {
	if len(s.cfg.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range s.cfg.AllowedMIMEs {
		if detected.Is(strings.ToLower(strings.TrimSpace(allowed))) {
			return true
		}
	}
	return false
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// sniffLen matches the amount of input mimetype inspects by default.
const sniffLen = 3072

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	return head[:n], nil
}

// mediaType drops parameters such as charset.
func mediaType(contentType string) string {
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return parsed
}
