package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type residenceRepoStub struct {
	items map[string]models.Residence
}

func (r *residenceRepoStub) FindByID(ctx context.Context, id string) (*models.Residence, error) {
	if item, ok := r.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (r *residenceRepoStub) Create(ctx context.Context, item *models.Residence) error {
	item.ID = uuid.NewString()
	r.items[item.ID] = *item
	return nil
}

func (r *residenceRepoStub) Update(ctx context.Context, item *models.Residence) error {
	r.items[item.ID] = *item
	return nil
}

func (r *residenceRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

type certificationRepoStub struct {
	items map[string]models.Certification
}

func (r *certificationRepoStub) FindByID(ctx context.Context, id string) (*models.Certification, error) {
	if item, ok := r.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

func (r *certificationRepoStub) Create(ctx context.Context, item *models.Certification) error {
	item.ID = uuid.NewString()
	r.items[item.ID] = *item
	return nil
}

func (r *certificationRepoStub) Update(ctx context.Context, item *models.Certification) error {
	r.items[item.ID] = *item
	return nil
}

func (r *certificationRepoStub) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func mustParse(raw string) time.Time {
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		panic(err)
	}
	return t
}

const hrPersonID = "5f0c8c7e-8d4a-4c6f-9a59-0c1f3f0e2a11"

func newTestHRService(t *testing.T, mail *mailStub) (*HRService, *residenceRepoStub, *certificationRepoStub, *reviewRepoStub) {
	t.Helper()
	people := &personStub{people: map[string]*models.Person{
		hrPersonID: {ID: hrPersonID, Name: "Ana", Email: "ana@example.com"},
	}}
	residences := &residenceRepoStub{items: map[string]models.Residence{}}
	certs := &certificationRepoStub{items: map[string]models.Certification{}}
	reviewRepo := newReviewRepoStub()

	svc := NewHRService(HRStores{Residences: residences, Certifications: certs}, people, nil, nil, nil)
	reviews := NewReviewService(reviewRepo, people, mail, nil, nil, nil, nil)
	reviews.Register(svc.ReviewCategories()...)
	svc.reviews = reviews
	return svc, residences, certs, reviewRepo
}

func employee(personID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: "u-1", PersonID: personID, Role: models.RoleEmployee}
}

func residencePayload() dto.CreateResidenceRequest {
	since := models.NewDate(mustParse("2022-03-01"))
	return dto.CreateResidenceRequest{PersonID: hrPersonID, Country: "CL", City: "Santiago", Address: " Av. Siempre Viva 742 ", Since: &since}
}

func TestHRServiceCreateResidenceRequestsReview(t *testing.T) {
	mail := &mailStub{}
	svc, residences, _, reviewRepo := newTestHRService(t, mail)

	item, err := svc.CreateResidence(context.Background(), residencePayload(), employee(hrPersonID))
	require.NoError(t, err)
	assert.Equal(t, "Av. Siempre Viva 742", item.Address)
	require.NotNil(t, item.Review)
	assert.Equal(t, models.ReviewStatusPending, item.Review.Status)
	assert.Len(t, residences.items, 1)
	assert.Len(t, reviewRepo.reviews, 1)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Ana", mail.sent[0].data.PersonName)
}

func TestHRServiceCreateResidenceMailFailureLeavesNothing(t *testing.T) {
	svc, residences, _, reviewRepo := newTestHRService(t, &mailStub{failErr: errors.New("smtp down")})

	_, err := svc.CreateResidence(context.Background(), residencePayload(), employee(hrPersonID))
	require.ErrorIs(t, err, appErrors.ErrNotificationFailed)
	assert.Empty(t, residences.items)
	assert.Empty(t, reviewRepo.reviews)
}

func TestHRServiceUpdateResidenceMailFailureKeepsApprovedData(t *testing.T) {
	mail := &mailStub{}
	svc, residences, _, reviewRepo := newTestHRService(t, mail)
	actor := employee(hrPersonID)

	item, err := svc.CreateResidence(context.Background(), residencePayload(), actor)
	require.NoError(t, err)
	reviewRepo.reviews[reviewKey(models.ReviewTypeResidence, item.ID)].Status = models.ReviewStatusApproved

	mail.failErr = errors.New("smtp down")
	city := "Valparaiso"
	_, err = svc.UpdateResidence(context.Background(), item.ID, dto.UpdateResidenceRequest{City: &city}, actor)
	require.ErrorIs(t, err, appErrors.ErrNotificationFailed)

	assert.Equal(t, "Santiago", residences.items[item.ID].City)
	assert.Equal(t, models.ReviewStatusApproved, reviewRepo.reviews[reviewKey(models.ReviewTypeResidence, item.ID)].Status)

	mail.failErr = nil
	updated, err := svc.UpdateResidence(context.Background(), item.ID, dto.UpdateResidenceRequest{City: &city}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Valparaiso", residences.items[item.ID].City)
	assert.Equal(t, models.ReviewStatusPending, updated.Review.Status)
}

func TestHRServiceEmployeeCannotActForOthers(t *testing.T) {
	svc, _, _, _ := newTestHRService(t, &mailStub{})
	_, err := svc.CreateResidence(context.Background(), residencePayload(), employee("someone-else"))
	require.ErrorIs(t, err, appErrors.ErrForbidden)

	hr := &models.JWTClaims{UserID: "u-2", Role: models.RoleHR}
	_, err = svc.CreateResidence(context.Background(), residencePayload(), hr)
	require.NoError(t, err)
}

func TestHRServiceCertificationLifecycle(t *testing.T) {
	mail := &mailStub{}
	svc, _, certs, reviewRepo := newTestHRService(t, mail)
	issued := models.NewDate(mustParse("2023-01-10"))
	actor := employee(hrPersonID)

	item, err := svc.CreateCertification(context.Background(), dto.CreateCertificationRequest{
		PersonID: hrPersonID, Name: "CKA", Issuer: "CNCF", IssuedAt: &issued,
	}, actor)
	require.NoError(t, err)
	assert.True(t, mail.sent[0].async)

	stored := reviewRepo.reviews[reviewKey(models.ReviewTypeCertification, item.ID)]
	stored.Status = models.ReviewStatusApproved

	name := "CKAD"
	updated, err := svc.UpdateCertification(context.Background(), item.ID, dto.UpdateCertificationRequest{Name: &name}, actor)
	require.NoError(t, err)
	assert.Equal(t, "CKAD", updated.Name)
	assert.Equal(t, "CNCF", updated.Issuer)
	assert.Equal(t, models.ReviewStatusPending, updated.Review.Status)

	require.NoError(t, svc.DeleteCertification(context.Background(), item.ID, actor))
	assert.Empty(t, certs.items)
	assert.Empty(t, reviewRepo.reviews)

	_, err = svc.GetCertification(context.Background(), item.ID, actor)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestHRServiceRejectsInvertedDates(t *testing.T) {
	svc, _, _, _ := newTestHRService(t, &mailStub{})
	issued := models.NewDate(mustParse("2023-01-10"))
	expires := models.NewDate(mustParse("2022-01-10"))

	_, err := svc.CreateCertification(context.Background(), dto.CreateCertificationRequest{
		PersonID: hrPersonID, Name: "CKA", Issuer: "CNCF", IssuedAt: &issued, ExpiresAt: &expires,
	}, employee(hrPersonID))
	require.ErrorIs(t, err, appErrors.ErrValidation)
}
