package dto

import "github.com/noah-isme/resource-planner-api/internal/models"

// CreateIdentificationRequest payload for an identity document.
type CreateIdentificationRequest struct {
	PersonID     string       `json:"person_id" validate:"required,uuid"`
	DocumentType string       `json:"document_type" validate:"required,max=40"`
	Number       string       `json:"number" validate:"required,max=60"`
	IssuedAt     *models.Date `json:"issued_at"`
	ExpiresAt    *models.Date `json:"expires_at"`
	DocumentID   *string      `json:"document_id" validate:"omitempty,uuid"`
}

// UpdateIdentificationRequest partial update; any change resubmits for review.
type UpdateIdentificationRequest struct {
	DocumentType *string      `json:"document_type" validate:"omitempty,min=1,max=40"`
	Number       *string      `json:"number" validate:"omitempty,min=1,max=60"`
	IssuedAt     *models.Date `json:"issued_at"`
	ExpiresAt    *models.Date `json:"expires_at"`
	DocumentID   *string      `json:"document_id" validate:"omitempty,uuid"`
}

// CreateResidenceRequest payload for a residence declaration.
type CreateResidenceRequest struct {
	PersonID   string       `json:"person_id" validate:"required,uuid"`
	Country    string       `json:"country" validate:"required,max=80"`
	City       string       `json:"city" validate:"required,max=120"`
	Address    string       `json:"address" validate:"required,max=300"`
	Since      *models.Date `json:"since" validate:"required"`
	DocumentID *string      `json:"document_id" validate:"omitempty,uuid"`
}

// UpdateResidenceRequest partial update of a residence.
type UpdateResidenceRequest struct {
	Country    *string      `json:"country" validate:"omitempty,min=1,max=80"`
	City       *string      `json:"city" validate:"omitempty,min=1,max=120"`
	Address    *string      `json:"address" validate:"omitempty,min=1,max=300"`
	Since      *models.Date `json:"since"`
	DocumentID *string      `json:"document_id" validate:"omitempty,uuid"`
}

// CreateCertificationRequest payload for a certification.
type CreateCertificationRequest struct {
	PersonID   string       `json:"person_id" validate:"required,uuid"`
	Name       string       `json:"name" validate:"required,max=200"`
	Issuer     string       `json:"issuer" validate:"required,max=200"`
	IssuedAt   *models.Date `json:"issued_at" validate:"required"`
	ExpiresAt  *models.Date `json:"expires_at"`
	DocumentID *string      `json:"document_id" validate:"omitempty,uuid"`
}

// UpdateCertificationRequest partial update of a certification.
type UpdateCertificationRequest struct {
	Name       *string      `json:"name" validate:"omitempty,min=1,max=200"`
	Issuer     *string      `json:"issuer" validate:"omitempty,min=1,max=200"`
	IssuedAt   *models.Date `json:"issued_at"`
	ExpiresAt  *models.Date `json:"expires_at"`
	DocumentID *string      `json:"document_id" validate:"omitempty,uuid"`
}

// CreateLaboralExperienceRequest payload for a previous job.
type CreateLaboralExperienceRequest struct {
	PersonID   string       `json:"person_id" validate:"required,uuid"`
	Company    string       `json:"company" validate:"required,max=200"`
	Position   string       `json:"position" validate:"required,max=200"`
	StartDate  *models.Date `json:"start_date" validate:"required"`
	EndDate    *models.Date `json:"end_date"`
	Functions  string       `json:"functions" validate:"max=4000"`
	DocumentID *string      `json:"document_id" validate:"omitempty,uuid"`
}

// UpdateLaboralExperienceRequest partial update of a previous job.
type UpdateLaboralExperienceRequest struct {
	Company    *string      `json:"company" validate:"omitempty,min=1,max=200"`
	Position   *string      `json:"position" validate:"omitempty,min=1,max=200"`
	StartDate  *models.Date `json:"start_date"`
	EndDate    *models.Date `json:"end_date"`
	Functions  *string      `json:"functions" validate:"omitempty,max=4000"`
	DocumentID *string      `json:"document_id" validate:"omitempty,uuid"`
}

// CreateProjectExperienceRequest payload for a project experience.
type CreateProjectExperienceRequest struct {
	PersonID    string       `json:"person_id" validate:"required,uuid"`
	ProjectName string       `json:"project_name" validate:"required,max=200"`
	Client      string       `json:"client" validate:"max=200"`
	Role        string       `json:"role" validate:"required,max=120"`
	StartDate   *models.Date `json:"start_date" validate:"required"`
	EndDate     *models.Date `json:"end_date"`
	Description string       `json:"description" validate:"max=4000"`
}

// UpdateProjectExperienceRequest partial update of a project experience.
type UpdateProjectExperienceRequest struct {
	ProjectName *string      `json:"project_name" validate:"omitempty,min=1,max=200"`
	Client      *string      `json:"client" validate:"omitempty,max=200"`
	Role        *string      `json:"role" validate:"omitempty,min=1,max=120"`
	StartDate   *models.Date `json:"start_date"`
	EndDate     *models.Date `json:"end_date"`
	Description *string      `json:"description" validate:"omitempty,max=4000"`
}

// UploadDocumentRequest carries the multipart form fields of an upload.
type UploadDocumentRequest struct {
	PersonID string `form:"person_id" validate:"required,uuid"`
	Kind     string `form:"kind" validate:"required,max=60"`
}
