package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resource-planner-api/internal/dto"
	"github.com/noah-isme/resource-planner-api/internal/models"
	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

type identificationStore interface {
	FindByID(ctx context.Context, id string) (*models.Identification, error)
	Create(ctx context.Context, item *models.Identification) error
	Update(ctx context.Context, item *models.Identification) error
	Delete(ctx context.Context, id string) error
}

type residenceStore interface {
	FindByID(ctx context.Context, id string) (*models.Residence, error)
	Create(ctx context.Context, item *models.Residence) error
	Update(ctx context.Context, item *models.Residence) error
	Delete(ctx context.Context, id string) error
}

type certificationStore interface {
	FindByID(ctx context.Context, id string) (*models.Certification, error)
	Create(ctx context.Context, item *models.Certification) error
	Update(ctx context.Context, item *models.Certification) error
	Delete(ctx context.Context, id string) error
}

type laboralExperienceStore interface {
	FindByID(ctx context.Context, id string) (*models.LaboralExperience, error)
	Create(ctx context.Context, item *models.LaboralExperience) error
	Update(ctx context.Context, item *models.LaboralExperience) error
	Delete(ctx context.Context, id string) error
}

type projectExperienceStore interface {
	FindByID(ctx context.Context, id string) (*models.ProjectExperience, error)
	Create(ctx context.Context, item *models.ProjectExperience) error
	Update(ctx context.Context, item *models.ProjectExperience) error
	Delete(ctx context.Context, id string) error
}

type reviewEngine interface {
	RequestReview(ctx context.Context, dataType models.ReviewType, reference string) (*models.Review, error)
	Delete(ctx context.Context, dataType models.ReviewType, reference string) error
	Attach(ctx context.Context, dataType models.ReviewType, reference string) *models.Review
}

// HRStores groups the repositories of the reviewed HR categories.
type HRStores struct {
	Identifications    identificationStore
	Residences         residenceStore
	Certifications     certificationStore
	LaboralExperiences laboralExperienceStore
	ProjectExperiences projectExperienceStore
}

// HRService manages the personal data categories that go through review. Every create
// or update resubmits the record for review and every delete drops its review.
type HRService struct {
	stores    HRStores
	people    personReader
	reviews   reviewEngine
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHRService constructs the service.
func NewHRService(stores HRStores, people personReader, reviews reviewEngine, validate *validator.Validate, logger *zap.Logger) *HRService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HRService{stores: stores, people: people, reviews: reviews, validator: validate, logger: logger}
}

// ReviewCategories describes the HR categories for the review engine.
func (s *HRService) ReviewCategories() []ReviewCategory {
	return []ReviewCategory{
		{Type: models.ReviewTypeIdentification, Label: "identificación", Policy: NotifyNone, Owner: func(ctx context.Context, ref string) (string, error) {
			item, err := s.stores.Identifications.FindByID(ctx, ref)
			if err != nil {
				return "", err
			}
			return item.PersonID, nil
		}},
		{Type: models.ReviewTypeResidence, Label: "residencia", Policy: NotifyRequired, Owner: func(ctx context.Context, ref string) (string, error) {
			item, err := s.stores.Residences.FindByID(ctx, ref)
			if err != nil {
				return "", err
			}
			return item.PersonID, nil
		}},
		{Type: models.ReviewTypeCertification, Label: "certificación", Policy: NotifyAsync, Owner: func(ctx context.Context, ref string) (string, error) {
			item, err := s.stores.Certifications.FindByID(ctx, ref)
			if err != nil {
				return "", err
			}
			return item.PersonID, nil
		}},
		{Type: models.ReviewTypeLaboralExperience, Label: "experiencia laboral", Policy: NotifyAsync, Owner: func(ctx context.Context, ref string) (string, error) {
			item, err := s.stores.LaboralExperiences.FindByID(ctx, ref)
			if err != nil {
				return "", err
			}
			return item.PersonID, nil
		}},
		{Type: models.ReviewTypeProjectExperience, Label: "experiencia en proyectos", Policy: NotifyNone, Owner: func(ctx context.Context, ref string) (string, error) {
			item, err := s.stores.ProjectExperiences.FindByID(ctx, ref)
			if err != nil {
				return "", err
			}
			return item.PersonID, nil
		}},
	}
}

func (s *HRService) checkPerson(ctx context.Context, actor *models.JWTClaims, personID string) error {
	if err := actFor(actor, personID); err != nil {
		return err
	}
	if _, err := s.people.FindByID(ctx, personID); err != nil {
		return loadFailed(err, "person")
	}
	return nil
}

// submit requests review of a freshly created record. When the request fails the record
// is removed so nothing is left without its review.
func (s *HRService) submit(ctx context.Context, dataType models.ReviewType, id string, remove func(context.Context, string) error) (*models.Review, error) {
	review, err := s.reviews.RequestReview(ctx, dataType, id)
	if err != nil {
		if delErr := remove(ctx, id); delErr != nil {
			s.logger.Error("failed to remove record after review request failure", zap.String("type", string(dataType)), zap.String("id", id), zap.Error(delErr))
		}
		return nil, err
	}
	return review, nil
}

func (s *HRService) drop(ctx context.Context, dataType models.ReviewType, id string, remove func(context.Context, string) error) error {
	if err := s.reviews.Delete(ctx, dataType, id); err != nil {
		return err
	}
	if err := remove(ctx, id); err != nil {
		return writeFailed(err, "delete", string(dataType))
	}
	return nil
}

// GetIdentification returns an identification with its review.
func (s *HRService) GetIdentification(ctx context.Context, id string, actor *models.JWTClaims) (*models.Identification, error) {
	item, err := s.stores.Identifications.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "identification")
	}
	if err := actFor(actor, item.PersonID); err != nil {
		return nil, err
	}
	item.Review = s.reviews.Attach(ctx, models.ReviewTypeIdentification, item.ID)
	return item, nil
}

// CreateIdentification stores an identification and submits it for review.
func (s *HRService) CreateIdentification(ctx context.Context, req dto.CreateIdentificationRequest, actor *models.JWTClaims) (*models.Identification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid identification payload")
	}
	if req.IssuedAt != nil && !validRange(*req.IssuedAt, req.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expires_at must not precede issued_at")
	}
	if err := s.checkPerson(ctx, actor, req.PersonID); err != nil {
		return nil, err
	}
	item := &models.Identification{
		PersonID:     req.PersonID,
		DocumentType: strings.TrimSpace(req.DocumentType),
		Number:       strings.TrimSpace(req.Number),
		IssuedAt:     req.IssuedAt,
		ExpiresAt:    req.ExpiresAt,
		DocumentID:   req.DocumentID,
	}
	if err := s.stores.Identifications.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create identification")
	}
	review, err := s.submit(ctx, models.ReviewTypeIdentification, item.ID, s.stores.Identifications.Delete)
	if err != nil {
		return nil, err
	}
	item.Review = review
	return item, nil
}

// UpdateIdentification applies a partial update and resubmits for review.
func (s *HRService) UpdateIdentification(ctx context.Context, id string, req dto.UpdateIdentificationRequest, actor *models.JWTClaims) (*models.Identification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid identification payload")
	}
	item, err := s.GetIdentification(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	setString(&item.DocumentType, req.DocumentType)
	setString(&item.Number, req.Number)
	if req.IssuedAt != nil {
		item.IssuedAt = req.IssuedAt
	}
	if req.ExpiresAt != nil {
		item.ExpiresAt = req.ExpiresAt
	}
	if req.DocumentID != nil {
		item.DocumentID = req.DocumentID
	}
	if item.IssuedAt != nil && !validRange(*item.IssuedAt, item.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expires_at must not precede issued_at")
	}
	if err := s.stores.Identifications.Update(ctx, item); err != nil {
		return nil, writeFailed(err, "update", "identification")
	}
	if item.Review, err = s.reviews.RequestReview(ctx, models.ReviewTypeIdentification, item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteIdentification removes an identification and its review.
func (s *HRService) DeleteIdentification(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.GetIdentification(ctx, id, actor); err != nil {
		return err
	}
	return s.drop(ctx, models.ReviewTypeIdentification, id, s.stores.Identifications.Delete)
}

// GetResidence returns a residence with its review.
func (s *HRService) GetResidence(ctx context.Context, id string, actor *models.JWTClaims) (*models.Residence, error) {
	item, err := s.stores.Residences.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "residence")
	}
	if err := actFor(actor, item.PersonID); err != nil {
		return nil, err
	}
	item.Review = s.reviews.Attach(ctx, models.ReviewTypeResidence, item.ID)
	return item, nil
}

// CreateResidence stores a residence and submits it for review. Residence reviews
// must notify reviewers; on delivery failure the residence is not kept.
func (s *HRService) CreateResidence(ctx context.Context, req dto.CreateResidenceRequest, actor *models.JWTClaims) (*models.Residence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid residence payload")
	}
	if err := s.checkPerson(ctx, actor, req.PersonID); err != nil {
		return nil, err
	}
	item := &models.Residence{
		PersonID:   req.PersonID,
		Country:    strings.TrimSpace(req.Country),
		City:       strings.TrimSpace(req.City),
		Address:    strings.TrimSpace(req.Address),
		Since:      *req.Since,
		DocumentID: req.DocumentID,
	}
	if err := s.stores.Residences.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create residence")
	}
	review, err := s.submit(ctx, models.ReviewTypeResidence, item.ID, s.stores.Residences.Delete)
	if err != nil {
		return nil, err
	}
	item.Review = review
	return item, nil
}

// UpdateResidence applies a partial update and resubmits for review.
func (s *HRService) UpdateResidence(ctx context.Context, id string, req dto.UpdateResidenceRequest, actor *models.JWTClaims) (*models.Residence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid residence payload")
	}
	item, err := s.GetResidence(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	previous := *item
	setString(&item.Country, req.Country)
	setString(&item.City, req.City)
	setString(&item.Address, req.Address)
	if req.Since != nil {
		item.Since = *req.Since
	}
	if req.DocumentID != nil {
		item.DocumentID = req.DocumentID
	}
	if err := s.stores.Residences.Update(ctx, item); err != nil {
		return nil, writeFailed(err, "update", "residence")
	}
	if item.Review, err = s.reviews.RequestReview(ctx, models.ReviewTypeResidence, item.ID); err != nil {
		// the review keeps its previous state, so the data must too
		if rbErr := s.stores.Residences.Update(ctx, &previous); rbErr != nil {
			s.logger.Error("failed to roll back residence", zap.String("residence_id", id), zap.Error(rbErr))
		}
		return nil, err
	}
	return item, nil
}

// DeleteResidence removes a residence and its review.
func (s *HRService) DeleteResidence(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.GetResidence(ctx, id, actor); err != nil {
		return err
	}
	return s.drop(ctx, models.ReviewTypeResidence, id, s.stores.Residences.Delete)
}

// GetCertification returns a certification with its review.
func (s *HRService) GetCertification(ctx context.Context, id string, actor *models.JWTClaims) (*models.Certification, error) {
	item, err := s.stores.Certifications.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "certification")
	}
	if err := actFor(actor, item.PersonID); err != nil {
		return nil, err
	}
	item.Review = s.reviews.Attach(ctx, models.ReviewTypeCertification, item.ID)
	return item, nil
}

// CreateCertification stores a certification and submits it for review.
func (s *HRService) CreateCertification(ctx context.Context, req dto.CreateCertificationRequest, actor *models.JWTClaims) (*models.Certification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid certification payload")
	}
	if !validRange(*req.IssuedAt, req.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expires_at must not precede issued_at")
	}
	if err := s.checkPerson(ctx, actor, req.PersonID); err != nil {
		return nil, err
	}
	item := &models.Certification{
		PersonID:   req.PersonID,
		Name:       strings.TrimSpace(req.Name),
		Issuer:     strings.TrimSpace(req.Issuer),
		IssuedAt:   *req.IssuedAt,
		ExpiresAt:  req.ExpiresAt,
		DocumentID: req.DocumentID,
	}
	if err := s.stores.Certifications.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create certification")
	}
	review, err := s.submit(ctx, models.ReviewTypeCertification, item.ID, s.stores.Certifications.Delete)
	if err != nil {
		return nil, err
	}
	item.Review = review
	return item, nil
}

// UpdateCertification applies a partial update and resubmits for review.
func (s *HRService) UpdateCertification(ctx context.Context, id string, req dto.UpdateCertificationRequest, actor *models.JWTClaims) (*models.Certification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid certification payload")
	}
	item, err := s.GetCertification(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	setString(&item.Name, req.Name)
	setString(&item.Issuer, req.Issuer)
	if req.IssuedAt != nil {
		item.IssuedAt = *req.IssuedAt
	}
	if req.ExpiresAt != nil {
		item.ExpiresAt = req.ExpiresAt
	}
	if req.DocumentID != nil {
		item.DocumentID = req.DocumentID
	}
	if !validRange(item.IssuedAt, item.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expires_at must not precede issued_at")
	}
	if err := s.stores.Certifications.Update(ctx, item); err != nil {
		return nil, writeFailed(err, "update", "certification")
	}
	if item.Review, err = s.reviews.RequestReview(ctx, models.ReviewTypeCertification, item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteCertification removes a certification and its review.
func (s *HRService) DeleteCertification(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.GetCertification(ctx, id, actor); err != nil {
		return err
	}
	return s.drop(ctx, models.ReviewTypeCertification, id, s.stores.Certifications.Delete)
}

// GetLaboralExperience returns a previous job with its review.
func (s *HRService) GetLaboralExperience(ctx context.Context, id string, actor *models.JWTClaims) (*models.LaboralExperience, error) {
	item, err := s.stores.LaboralExperiences.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "laboral experience")
	}
	if err := actFor(actor, item.PersonID); err != nil {
		return nil, err
	}
	item.Review = s.reviews.Attach(ctx, models.ReviewTypeLaboralExperience, item.ID)
	return item, nil
}

// CreateLaboralExperience stores a previous job and submits it for review.
func (s *HRService) CreateLaboralExperience(ctx context.Context, req dto.CreateLaboralExperienceRequest, actor *models.JWTClaims) (*models.LaboralExperience, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid laboral experience payload")
	}
	if !validRange(*req.StartDate, req.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if err := s.checkPerson(ctx, actor, req.PersonID); err != nil {
		return nil, err
	}
	item := &models.LaboralExperience{
		PersonID:   req.PersonID,
		Company:    strings.TrimSpace(req.Company),
		Position:   strings.TrimSpace(req.Position),
		StartDate:  *req.StartDate,
		EndDate:    req.EndDate,
		Functions:  strings.TrimSpace(req.Functions),
		DocumentID: req.DocumentID,
	}
	if err := s.stores.LaboralExperiences.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create laboral experience")
	}
	review, err := s.submit(ctx, models.ReviewTypeLaboralExperience, item.ID, s.stores.LaboralExperiences.Delete)
	if err != nil {
		return nil, err
	}
	item.Review = review
	return item, nil
}

// UpdateLaboralExperience applies a partial update and resubmits for review.
func (s *HRService) UpdateLaboralExperience(ctx context.Context, id string, req dto.UpdateLaboralExperienceRequest, actor *models.JWTClaims) (*models.LaboralExperience, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid laboral experience payload")
	}
	item, err := s.GetLaboralExperience(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	setString(&item.Company, req.Company)
	setString(&item.Position, req.Position)
	setString(&item.Functions, req.Functions)
	if req.StartDate != nil {
		item.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		item.EndDate = req.EndDate
	}
	if req.DocumentID != nil {
		item.DocumentID = req.DocumentID
	}
	if !validRange(item.StartDate, item.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if err := s.stores.LaboralExperiences.Update(ctx, item); err != nil {
		return nil, writeFailed(err, "update", "laboral experience")
	}
	if item.Review, err = s.reviews.RequestReview(ctx, models.ReviewTypeLaboralExperience, item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteLaboralExperience removes a previous job and its review.
func (s *HRService) DeleteLaboralExperience(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.GetLaboralExperience(ctx, id, actor); err != nil {
		return err
	}
	return s.drop(ctx, models.ReviewTypeLaboralExperience, id, s.stores.LaboralExperiences.Delete)
}

// GetProjectExperience returns a project experience with its review.
func (s *HRService) GetProjectExperience(ctx context.Context, id string, actor *models.JWTClaims) (*models.ProjectExperience, error) {
	item, err := s.stores.ProjectExperiences.FindByID(ctx, id)
	if err != nil {
		return nil, loadFailed(err, "project experience")
	}
	if err := actFor(actor, item.PersonID); err != nil {
		return nil, err
	}
	item.Review = s.reviews.Attach(ctx, models.ReviewTypeProjectExperience, item.ID)
	return item, nil
}

// CreateProjectExperience stores a project experience and submits it for review.
func (s *HRService) CreateProjectExperience(ctx context.Context, req dto.CreateProjectExperienceRequest, actor *models.JWTClaims) (*models.ProjectExperience, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid project experience payload")
	}
	if !validRange(*req.StartDate, req.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if err := s.checkPerson(ctx, actor, req.PersonID); err != nil {
		return nil, err
	}
	item := &models.ProjectExperience{
		PersonID:    req.PersonID,
		ProjectName: strings.TrimSpace(req.ProjectName),
		Client:      strings.TrimSpace(req.Client),
		Role:        strings.TrimSpace(req.Role),
		StartDate:   *req.StartDate,
		EndDate:     req.EndDate,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.stores.ProjectExperiences.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "failed to create project experience")
	}
	review, err := s.submit(ctx, models.ReviewTypeProjectExperience, item.ID, s.stores.ProjectExperiences.Delete)
	if err != nil {
		return nil, err
	}
	item.Review = review
	return item, nil
}

// UpdateProjectExperience applies a partial update and resubmits for review.
func (s *HRService) UpdateProjectExperience(ctx context.Context, id string, req dto.UpdateProjectExperienceRequest, actor *models.JWTClaims) (*models.ProjectExperience, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid project experience payload")
	}
	item, err := s.GetProjectExperience(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	setString(&item.ProjectName, req.ProjectName)
	setString(&item.Client, req.Client)
	setString(&item.Role, req.Role)
	setString(&item.Description, req.Description)
	if req.StartDate != nil {
		item.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		item.EndDate = req.EndDate
	}
	if !validRange(item.StartDate, item.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}
	if err := s.stores.ProjectExperiences.Update(ctx, item); err != nil {
		return nil, writeFailed(err, "update", "project experience")
	}
	if item.Review, err = s.reviews.RequestReview(ctx, models.ReviewTypeProjectExperience, item.ID); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteProjectExperience removes a project experience and its review.
func (s *HRService) DeleteProjectExperience(ctx context.Context, id string, actor *models.JWTClaims) error {
	if _, err := s.GetProjectExperience(ctx, id, actor); err != nil {
		return err
	}
	return s.drop(ctx, models.ReviewTypeProjectExperience, id, s.stores.ProjectExperiences.Delete)
}
