package service

import (
	"context"
	"database/sql"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/storage"
)

type documentRepoStub struct {
	docs map[string]*models.Document
}

func (r *documentRepoStub) FindByID(ctx context.Context, id string) (*models.Document, error) {
	if doc, ok := r.docs[id]; ok {
		dup := *doc
		return &dup, nil
	}
	return nil, sql.ErrNoRows
}

func (r *documentRepoStub) Create(ctx context.Context, doc *models.Document) error {
	dup := *doc
	r.docs[doc.ID] = &dup
	return nil
}

func (r *documentRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.docs, id)
	return nil
}

type documentFixture struct {
	svc     *DocumentService
	repo    *documentRepoStub
	reviews *reviewRepoStub
	dir     string
}

func newDocumentFixture(t *testing.T, cfg DocumentConfig) *documentFixture {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := &documentRepoStub{docs: map[string]*models.Document{}}
	reviewRepo := newReviewRepoStub()
	people := &personStub{people: map[string]*models.Person{
		hrPersonID: {ID: hrPersonID, Name: "Ana", Email: "ana@example.com"},
	}}
	engine := NewReviewService(reviewRepo, people, &mailStub{}, nil, nil, nil, nil)
	svc := NewDocumentService(repo, files, storage.NewSignedURLSigner("secret", time.Minute), people, engine, cfg, nil, nil)
	engine.Register(svc.ReviewCategory())
	return &documentFixture{svc: svc, repo: repo, reviews: reviewRepo, dir: dir}
}

func uploadPayload() dto.UploadDocumentRequest {
	return dto.UploadDocumentRequest{PersonID: hrPersonID, Kind: "certificado"}
}

func TestDocumentServiceUploadAndDownload(t *testing.T) {
	f := newDocumentFixture(t, DocumentConfig{APIPrefix: "/api/v1", AllowedMIMEs: []string{"application/pdf"}})
	ctx := context.Background()

	doc, err := f.svc.Upload(ctx, uploadPayload(), "../../Título.PDF", "application/pdf; charset=binary", strings.NewReader("%PDF-1.4"), employee(hrPersonID))
	require.NoError(t, err)
	assert.Equal(t, "Título.PDF", doc.Filename)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.EqualValues(t, 8, doc.SizeBytes)
	assert.Equal(t, filepath.Join("persons", hrPersonID, doc.ID+".pdf"), filepath.FromSlash(doc.StoragePath))
	require.NotNil(t, doc.Review)
	assert.Equal(t, models.ReviewStatusPending, doc.Review.Status)

	link, err := f.svc.Get(ctx, doc.ID, employee(hrPersonID))
	require.NoError(t, err)
	parsed, err := url.Parse(link.URL)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/documents/"+doc.ID+"/download", parsed.Path)
	require.NotNil(t, link.Document.Review)

	stored, file, err := f.svc.Open(ctx, doc.ID, parsed.Query().Get("token"))
	require.NoError(t, err)
	defer file.Close()
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))
	assert.Equal(t, doc.ID, stored.ID)

	_, _, err = f.svc.Open(ctx, doc.ID, "forged.token")
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestDocumentServiceRejectsDisallowedAndOversized(t *testing.T) {
	f := newDocumentFixture(t, DocumentConfig{MaxSizeBytes: 4, AllowedMIMEs: []string{"application/pdf"}})
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, uploadPayload(), "script.sh", "text/x-sh", strings.NewReader("echo"), employee(hrPersonID))
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Upload(ctx, uploadPayload(), "big.pdf", "application/pdf", strings.NewReader("%PDF-1.4 0123456789"), employee(hrPersonID))
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.repo.docs)
	assert.Empty(t, f.reviews.reviews)

	_, err = f.svc.Upload(ctx, uploadPayload(), "ok.pdf", "application/pdf", strings.NewReader("ok"), employee(planPerson))
	require.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestDocumentServiceSniffsContentType(t *testing.T) {
	f := newDocumentFixture(t, DocumentConfig{AllowedMIMEs: []string{"application/pdf"}})
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, uploadPayload(), "evil.pdf", "application/pdf", strings.NewReader("#!/bin/sh\nrm -rf /\n"), employee(hrPersonID))
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, f.repo.docs)
	assert.Empty(t, f.reviews.reviews)

	body := "%PDF-1.4\n" + strings.Repeat("x", 2*sniffLen)
	doc, err := f.svc.Upload(ctx, uploadPayload(), "informe", "application/octet-stream", strings.NewReader(body), employee(hrPersonID))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.EqualValues(t, len(body), doc.SizeBytes)

	stored, err := os.ReadFile(filepath.Join(f.dir, filepath.FromSlash(doc.StoragePath)))
	require.NoError(t, err)
	assert.Equal(t, body, string(stored))
}

func TestDocumentServiceDeleteRemovesEverything(t *testing.T) {
	f := newDocumentFixture(t, DocumentConfig{})
	ctx := context.Background()
	doc, err := f.svc.Upload(ctx, uploadPayload(), "cv.txt", "", strings.NewReader("hola"), employee(hrPersonID))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", doc.MimeType)

	require.NoError(t, f.svc.Delete(ctx, doc.ID, employee(hrPersonID)))
	assert.Empty(t, f.repo.docs)
	assert.Empty(t, f.reviews.reviews)
	_, statErr := os.Stat(filepath.Join(f.dir, filepath.FromSlash(doc.StoragePath)))
	assert.True(t, os.IsNotExist(statErr))

	_, err = f.svc.Get(ctx, doc.ID, employee(hrPersonID))
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}
