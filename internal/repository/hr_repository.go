package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const (
	identificationColumns    = `id, person_id, document_type, number, issued_at, expires_at, document_id, created_at, updated_at`
	residenceColumns         = `id, person_id, country, city, address, since, document_id, created_at, updated_at`
	certificationColumns     = `id, person_id, name, issuer, issued_at, expires_at, document_id, created_at, updated_at`
	laboralExperienceColumns = `id, person_id, company, position, start_date, end_date, functions, document_id, created_at, updated_at`
	projectExperienceColumns = `id, person_id, project_name, client, role, start_date, end_date, description, created_at, updated_at`
)

func stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	*created, *updated = now, now
}

// IdentificationRepository persists identity documents.
type IdentificationRepository struct {
	db *sqlx.DB
}

// NewIdentificationRepository creates a new IdentificationRepository.
func NewIdentificationRepository(db *sqlx.DB) *IdentificationRepository {
	return &IdentificationRepository{db: db}
}

// FindByID returns an identification by identifier.
func (r *IdentificationRepository) FindByID(ctx context.Context, id string) (*models.Identification, error) {
	var item models.Identification
	if err := getOne(ctx, r.db, &item, "find identification", `SELECT `+identificationColumns+` FROM identifications WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts an identification.
func (r *IdentificationRepository) Create(ctx context.Context, item *models.Identification) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	const query = `INSERT INTO identifications (` + identificationColumns + `)
	VALUES (:id, :person_id, :document_type, :number, :issued_at, :expires_at, :document_id, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create identification", query, item)
}

// Update persists every mutable column.
func (r *IdentificationRepository) Update(ctx context.Context, item *models.Identification) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE identifications SET document_type = :document_type, number = :number, issued_at = :issued_at,
	expires_at = :expires_at, document_id = :document_id, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update identification", query, item)
}

// Delete removes an identification.
func (r *IdentificationRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete identification", `DELETE FROM identifications WHERE id = $1`, id)
}

// ResidenceRepository persists residence declarations.
type ResidenceRepository struct {
	db *sqlx.DB
}

// NewResidenceRepository creates a new ResidenceRepository.
func NewResidenceRepository(db *sqlx.DB) *ResidenceRepository {
	return &ResidenceRepository{db: db}
}

// FindByID returns a residence by identifier.
func (r *ResidenceRepository) FindByID(ctx context.Context, id string) (*models.Residence, error) {
	var item models.Residence
	if err := getOne(ctx, r.db, &item, "find residence", `SELECT `+residenceColumns+` FROM residences WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a residence.
func (r *ResidenceRepository) Create(ctx context.Context, item *models.Residence) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	const query = `INSERT INTO residences (` + residenceColumns + `)
	VALUES (:id, :person_id, :country, :city, :address, :since, :document_id, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create residence", query, item)
}

// Update persists every mutable column.
func (r *ResidenceRepository) Update(ctx context.Context, item *models.Residence) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE residences SET country = :country, city = :city, address = :address, since = :since,
	document_id = :document_id, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update residence", query, item)
}

// Delete removes a residence.
func (r *ResidenceRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete residence", `DELETE FROM residences WHERE id = $1`, id)
}

// CertificationRepository persists certifications.
type CertificationRepository struct {
	db *sqlx.DB
}

// NewCertificationRepository creates a new CertificationRepository.
func NewCertificationRepository(db *sqlx.DB) *CertificationRepository {
	return &CertificationRepository{db: db}
}

// FindByID returns a certification by identifier.
func (r *CertificationRepository) FindByID(ctx context.Context, id string) (*models.Certification, error) {
	var item models.Certification
	if err := getOne(ctx, r.db, &item, "find certification", `SELECT `+certificationColumns+` FROM certifications WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a certification.
func (r *CertificationRepository) Create(ctx context.Context, item *models.Certification) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	const query = `INSERT INTO certifications (` + certificationColumns + `)
	VALUES (:id, :person_id, :name, :issuer, :issued_at, :expires_at, :document_id, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create certification", query, item)
}

// Update persists every mutable column.
func (r *CertificationRepository) Update(ctx context.Context, item *models.Certification) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE certifications SET name = :name, issuer = :issuer, issued_at = :issued_at, expires_at = :expires_at,
	document_id = :document_id, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update certification", query, item)
}

// Delete removes a certification.
func (r *CertificationRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete certification", `DELETE FROM certifications WHERE id = $1`, id)
}

// LaboralExperienceRepository persists previous jobs.
type LaboralExperienceRepository struct {
	db *sqlx.DB
}

// NewLaboralExperienceRepository creates a new LaboralExperienceRepository.
func NewLaboralExperienceRepository(db *sqlx.DB) *LaboralExperienceRepository {
	return &LaboralExperienceRepository{db: db}
}

// FindByID returns a laboral experience by identifier.
func (r *LaboralExperienceRepository) FindByID(ctx context.Context, id string) (*models.LaboralExperience, error) {
	var item models.LaboralExperience
	if err := getOne(ctx, r.db, &item, "find laboral experience", `SELECT `+laboralExperienceColumns+` FROM laboral_experiences WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a laboral experience.
func (r *LaboralExperienceRepository) Create(ctx context.Context, item *models.LaboralExperience) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	const query = `INSERT INTO laboral_experiences (` + laboralExperienceColumns + `)
	VALUES (:id, :person_id, :company, :position, :start_date, :end_date, :functions, :document_id, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create laboral experience", query, item)
}

// Update persists every mutable column.
func (r *LaboralExperienceRepository) Update(ctx context.Context, item *models.LaboralExperience) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE laboral_experiences SET company = :company, position = :position, start_date = :start_date,
	end_date = :end_date, functions = :functions, document_id = :document_id, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update laboral experience", query, item)
}

// Delete removes a laboral experience.
func (r *LaboralExperienceRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete laboral experience", `DELETE FROM laboral_experiences WHERE id = $1`, id)
}

// ProjectExperienceRepository persists project experiences.
type ProjectExperienceRepository struct {
	db *sqlx.DB
}

// NewProjectExperienceRepository creates a new ProjectExperienceRepository.
func NewProjectExperienceRepository(db *sqlx.DB) *ProjectExperienceRepository {
	return &ProjectExperienceRepository{db: db}
}

// FindByID returns a project experience by identifier.
func (r *ProjectExperienceRepository) FindByID(ctx context.Context, id string) (*models.ProjectExperience, error) {
	var item models.ProjectExperience
	if err := getOne(ctx, r.db, &item, "find project experience", `SELECT `+projectExperienceColumns+` FROM project_experiences WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a project experience.
func (r *ProjectExperienceRepository) Create(ctx context.Context, item *models.ProjectExperience) error {
	stamp(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	const query = `INSERT INTO project_experiences (` + projectExperienceColumns + `)
	VALUES (:id, :person_id, :project_name, :client, :role, :start_date, :end_date, :description, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create project experience", query, item)
}

// Update persists every mutable column.
func (r *ProjectExperienceRepository) Update(ctx context.Context, item *models.ProjectExperience) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE project_experiences SET project_name = :project_name, client = :client, role = :role,
	start_date = :start_date, end_date = :end_date, description = :description, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update project experience", query, item)
}

// Delete removes a project experience.
func (r *ProjectExperienceRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete project experience", `DELETE FROM project_experiences WHERE id = $1`, id)
}
