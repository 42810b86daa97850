package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/resource-planner-api/internal/models"
)

const personColumns = `id, name, email, position, active, created_at, updated_at`

// PersonRepository provides database access for persons.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository creates a new PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// FindByID returns a person by identifier.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	var person models.Person
	if err := getOne(ctx, r.db, &person, "find person", `SELECT `+personColumns+` FROM persons WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// Create inserts a person.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	person.CreatedAt, person.UpdatedAt = now, now
	const query = `INSERT INTO persons (` + personColumns + `)
	VALUES (:id, :name, :email, :position, :active, :created_at, :updated_at)`
	return namedExecOne(ctx, r.db, "create person", query, person)
}

// Update persists every mutable column of person.
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now().UTC()
	const query = `UPDATE persons SET name = :name, email = :email, position = :position, active = :active, updated_at = :updated_at WHERE id = :id`
	return namedExecOne(ctx, r.db, "update person", query, person)
}

// Delete removes a person.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	return execOne(ctx, r.db, "delete person", `DELETE FROM persons WHERE id = $1`, id)
}
