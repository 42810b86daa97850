package models

import "time"

// Identification is a person's identity document.
type Identification struct {
	ID           string    `db:"id" json:"id"`
	PersonID     string    `db:"person_id" json:"person_id"`
	DocumentType string    `db:"document_type" json:"document_type"`
	Number       string    `db:"number" json:"number"`
	IssuedAt     *Date     `db:"issued_at" json:"issued_at,omitempty"`
	ExpiresAt    *Date     `db:"expires_at" json:"expires_at,omitempty"`
	DocumentID   *string   `db:"document_id" json:"document_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	Review       *Review   `db:"-" json:"review,omitempty"`
}

// Residence is a person's declared address.
type Residence struct {
	ID         string    `db:"id" json:"id"`
	PersonID   string    `db:"person_id" json:"person_id"`
	Country    string    `db:"country" json:"country"`
	City       string    `db:"city" json:"city"`
	Address    string    `db:"address" json:"address"`
	Since      Date      `db:"since" json:"since"`
	DocumentID *string   `db:"document_id" json:"document_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	Review     *Review   `db:"-" json:"review,omitempty"`
}

// Certification is a professional certificate held by a person.
type Certification struct {
	ID         string    `db:"id" json:"id"`
	PersonID   string    `db:"person_id" json:"person_id"`
	Name       string    `db:"name" json:"name"`
	Issuer     string    `db:"issuer" json:"issuer"`
	IssuedAt   Date      `db:"issued_at" json:"issued_at"`
	ExpiresAt  *Date     `db:"expires_at" json:"expires_at,omitempty"`
	DocumentID *string   `db:"document_id" json:"document_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	Review     *Review   `db:"-" json:"review,omitempty"`
}

// LaboralExperience is a previous job.
type LaboralExperience struct {
	ID         string    `db:"id" json:"id"`
	PersonID   string    `db:"person_id" json:"person_id"`
	Company    string    `db:"company" json:"company"`
	Position   string    `db:"position" json:"position"`
	StartDate  Date      `db:"start_date" json:"start_date"`
	EndDate    *Date     `db:"end_date" json:"end_date,omitempty"`
	Functions  string    `db:"functions" json:"functions"`
	DocumentID *string   `db:"document_id" json:"document_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	Review     *Review   `db:"-" json:"review,omitempty"`
}

// ProjectExperience is a project a person took part in.
type ProjectExperience struct {
	ID          string    `db:"id" json:"id"`
	PersonID    string    `db:"person_id" json:"person_id"`
	ProjectName string    `db:"project_name" json:"project_name"`
	Client      string    `db:"client" json:"client"`
	Role        string    `db:"role" json:"role"`
	StartDate   Date      `db:"start_date" json:"start_date"`
	EndDate     *Date     `db:"end_date" json:"end_date,omitempty"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	Review      *Review   `db:"-" json:"review,omitempty"`
}
