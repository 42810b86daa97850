package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	"github.com/noah-isme/resource-planner-api/internal/repository"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
	"github.com/noah-isme/resource-planner-api/pkg/mailer"
)

type reviewRepoStub struct {
	reviews map[string]*models.Review
	deleted []string
}

func newReviewRepoStub() *reviewRepoStub {
	return &reviewRepoStub{reviews: make(map[string]*models.Review)}
}

func reviewKey(t models.ReviewType, ref string) string { return string(t) + "/" + ref }

func (r *reviewRepoStub) FindByTypeAndData(ctx context.Context, dataType models.ReviewType, reference string) (*models.Review, error) {
	if rv, ok := r.reviews[reviewKey(dataType, reference)]; ok {
		dup := *rv
		return &dup, nil
	}
	return nil, sql.ErrNoRows
}

func (r *reviewRepoStub) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	dup := *review
	r.reviews[reviewKey(review.DataType, review.DataReference)] = &dup
	return nil
}

func (r *reviewRepoStub) Save(ctx context.Context, review *models.Review) error {
	key := reviewKey(review.DataType, review.DataReference)
	if _, ok := r.reviews[key]; !ok {
		return sql.ErrNoRows
	}
	dup := *review
	r.reviews[key] = &dup
	return nil
}

func (r *reviewRepoStub) Delete(ctx context.Context, id string) error {
	for key, rv := range r.reviews {
		if rv.ID == id {
			delete(r.reviews, key)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return sql.ErrNoRows
}

type personStub struct {
	people map[string]*models.Person
}

func (p *personStub) FindByID(ctx context.Context, id string) (*models.Person, error) {
	if person, ok := p.people[id]; ok {
		return person, nil
	}
	return nil, sql.ErrNoRows
}

type sentMail struct {
	event mailer.Event
	to    []string
	data  mailer.TemplateData
	async bool
}

type mailStub struct {
	sent    []sentMail
	failErr error
}

func (m *mailStub) Send(ctx context.Context, event mailer.Event, to []string, data mailer.TemplateData) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.sent = append(m.sent, sentMail{event: event, to: to, data: data})
	return nil
}

func (m *mailStub) Enqueue(ctx context.Context, event mailer.Event, to []string, data mailer.TemplateData) error {
	m.sent = append(m.sent, sentMail{event: event, to: to, data: data, async: true})
	return nil
}

func (m *mailStub) Reviewers() []string { return []string{"rrhh@example.com"} }

type publisherStub struct {
	notes map[string][]repository.Notification
}

func (p *publisherStub) PublishPerson(ctx context.Context, personID string, note repository.Notification) error {
	if p.notes == nil {
		p.notes = make(map[string][]repository.Notification)
	}
	p.notes[personID] = append(p.notes[personID], note)
	return nil
}

func ownedBy(personID string) OwnerLookup {
	return func(context.Context, string) (string, error) { return personID, nil }
}

func newTestReviewService(repo *reviewRepoStub, mail *mailStub, pub *publisherStub) *ReviewService {
	people := &personStub{people: map[string]*models.Person{
		"p-1": {ID: "p-1", Name: "Ana", Email: "ana@example.com"},
	}}
	var publisher personPublisher
	if pub != nil {
		publisher = pub
	}
	svc := NewReviewService(repo, people, mail, publisher, nil, nil, nil)
	svc.Register(
		ReviewCategory{Type: models.ReviewTypeIdentification, Label: "identificación", Policy: NotifyNone, Owner: ownedBy("p-1")},
		ReviewCategory{Type: models.ReviewTypeCertification, Label: "certificación", Policy: NotifyAsync, Owner: ownedBy("p-1")},
		ReviewCategory{Type: models.ReviewTypeResidence, Label: "residencia", Policy: NotifyRequired, Owner: ownedBy("p-1")},
	)
	return svc
}

func approve(v bool, obs string) dto.ReviewDecisionRequest {
	req := dto.ReviewDecisionRequest{Approved: &v}
	if obs != "" {
		req.Observations = &obs
	}
	return req
}

func TestReviewServiceRequestReviewCreatesPending(t *testing.T) {
	repo := newReviewRepoStub()
	mail := &mailStub{}
	pub := &publisherStub{}
	svc := newTestReviewService(repo, mail, pub)

	review, err := svc.RequestReview(context.Background(), models.ReviewTypeIdentification, "id-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Empty(t, mail.sent)
	require.Len(t, pub.notes["p-1"], 1)
	assert.Equal(t, "pending", pub.notes["p-1"][0].Status)

	again, err := svc.RequestReview(context.Background(), models.ReviewTypeIdentification, "id-1")
	require.NoError(t, err)
	assert.Equal(t, review.ID, again.ID)
	assert.Len(t, repo.reviews, 1)
}

func TestReviewServiceRequestReviewResetsDecision(t *testing.T) {
	repo := newReviewRepoStub()
	svc := newTestReviewService(repo, &mailStub{}, nil)
	reviewer, comments := "u-9", "foto borrosa"
	repo.reviews[reviewKey(models.ReviewTypeIdentification, "id-1")] = &models.Review{
		ID: "r-1", DataType: models.ReviewTypeIdentification, DataReference: "id-1",
		Status: models.ReviewStatusRejected, Reviewer: &reviewer, Comments: &comments,
	}

	review, err := svc.RequestReview(context.Background(), models.ReviewTypeIdentification, "id-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusPending, review.Status)
	assert.Nil(t, review.Comments)
	assert.Nil(t, review.Reviewer)
}

func TestReviewServiceRequiredMailFailureRemovesCreatedReview(t *testing.T) {
	repo := newReviewRepoStub()
	svc := newTestReviewService(repo, &mailStub{failErr: errors.New("smtp down")}, nil)

	_, err := svc.RequestReview(context.Background(), models.ReviewTypeResidence, "res-1")
	require.ErrorIs(t, err, appErrors.ErrNotificationFailed)
	assert.Empty(t, repo.reviews)
	assert.Len(t, repo.deleted, 1)
}

func TestReviewServiceDecideApproveAsyncMail(t *testing.T) {
	repo := newReviewRepoStub()
	mail := &mailStub{}
	svc := newTestReviewService(repo, mail, nil)
	_, err := svc.RequestReview(context.Background(), models.ReviewTypeCertification, "c-1")
	require.NoError(t, err)

	review, err := svc.Decide(context.Background(), models.ReviewTypeCertification, "c-1", approve(true, ""), "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, review.Status)
	require.NotNil(t, review.Reviewer)
	assert.Equal(t, "u-1", *review.Reviewer)

	require.Len(t, mail.sent, 2)
	assert.Equal(t, mailer.EventReviewRequested, mail.sent[0].event)
	assert.Equal(t, mailer.EventReviewApproved, mail.sent[1].event)
	assert.True(t, mail.sent[1].async)
	assert.Equal(t, []string{"ana@example.com"}, mail.sent[1].to)
}

func TestReviewServiceDecideRejectNeedsObservations(t *testing.T) {
	repo := newReviewRepoStub()
	svc := newTestReviewService(repo, &mailStub{}, nil)
	_, err := svc.RequestReview(context.Background(), models.ReviewTypeIdentification, "id-1")
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), models.ReviewTypeIdentification, "id-1", approve(false, "  "), "u-1")
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, msgObservationsRequired, appErrors.FromError(err).Message)

	review, err := svc.Decide(context.Background(), models.ReviewTypeIdentification, "id-1", approve(false, "vencido"), "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, review.Status)
	require.NotNil(t, review.Comments)
	assert.Equal(t, "vencido", *review.Comments)
}

func TestReviewServiceDecideRequiredMailFailureRevertsToPending(t *testing.T) {
	repo := newReviewRepoStub()
	mail := &mailStub{}
	svc := newTestReviewService(repo, mail, nil)
	_, err := svc.RequestReview(context.Background(), models.ReviewTypeResidence, "res-1")
	require.NoError(t, err)

	mail.failErr = errors.New("smtp down")
	_, err = svc.Decide(context.Background(), models.ReviewTypeResidence, "res-1", approve(true, ""), "u-1")
	require.ErrorIs(t, err, appErrors.ErrNotificationFailed)

	stored := repo.reviews[reviewKey(models.ReviewTypeResidence, "res-1")]
	assert.Equal(t, models.ReviewStatusPending, stored.Status)
	assert.Nil(t, stored.Reviewer)
}

func TestReviewServiceFindMissing(t *testing.T) {
	svc := newTestReviewService(newReviewRepoStub(), &mailStub{}, nil)

	_, err := svc.Find(context.Background(), models.ReviewTypeIdentification, "nope")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, msgReviewNotFound, appErrors.FromError(err).Message)

	_, err = svc.Decide(context.Background(), models.ReviewTypeIdentification, "nope", approve(true, ""), "u-1")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestReviewServiceUnknownType(t *testing.T) {
	svc := newTestReviewService(newReviewRepoStub(), &mailStub{}, nil)
	_, err := svc.RequestReview(context.Background(), models.ReviewType("pets"), "x")
	require.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestReviewServiceDelete(t *testing.T) {
	repo := newReviewRepoStub()
	svc := newTestReviewService(repo, &mailStub{}, nil)
	_, err := svc.RequestReview(context.Background(), models.ReviewTypeIdentification, "id-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), models.ReviewTypeIdentification, "id-1"))
	assert.Empty(t, repo.reviews)
	require.NoError(t, svc.Delete(context.Background(), models.ReviewTypeIdentification, "id-1"))
}
