package dto

import "github.com/noah-isme/resource-planner-api/internal/models"

// CreatePersonRequest payload for creating a person.
type CreatePersonRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position" validate:"max=120"`
	Active   *bool  `json:"active"`
}

// UpdatePersonRequest partial update; omitted fields keep their values.
type UpdatePersonRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Position *string `json:"position" validate:"omitempty,max=120"`
	Active   *bool   `json:"active"`
}

// CreateProjectRequest payload for creating a project.
type CreateProjectRequest struct {
	Code      string       `json:"code" validate:"required,max=40"`
	Name      string       `json:"name" validate:"required,max=200"`
	Client    string       `json:"client" validate:"max=200"`
	StartDate *models.Date `json:"start_date" validate:"required"`
	EndDate   *models.Date `json:"end_date"`
	Active    *bool        `json:"active"`
}

// UpdateProjectRequest partial update of a project.
type UpdateProjectRequest struct {
	Code      *string      `json:"code" validate:"omitempty,min=1,max=40"`
	Name      *string      `json:"name" validate:"omitempty,min=1,max=200"`
	Client    *string      `json:"client" validate:"omitempty,max=200"`
	StartDate *models.Date `json:"start_date"`
	EndDate   *models.Date `json:"end_date"`
	Active    *bool        `json:"active"`
}

// CreateBudgetRequest payload for creating a budget line.
type CreateBudgetRequest struct {
	ProjectID string       `json:"project_id" validate:"required,uuid"`
	Name      string       `json:"name" validate:"required,max=200"`
	Amount    float64      `json:"amount" validate:"gte=0"`
	Currency  string       `json:"currency" validate:"required,len=3"`
	StartDate *models.Date `json:"start_date" validate:"required"`
	EndDate   *models.Date `json:"end_date"`
}

// UpdateBudgetRequest partial update of a budget line.
type UpdateBudgetRequest struct {
	Name      *string      `json:"name" validate:"omitempty,min=1,max=200"`
	Amount    *float64     `json:"amount" validate:"omitempty,gte=0"`
	Currency  *string      `json:"currency" validate:"omitempty,len=3"`
	StartDate *models.Date `json:"start_date"`
	EndDate   *models.Date `json:"end_date"`
}

// CreateRoleRequest payload for a catalog role.
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateRoleRequest partial update of a role.
type UpdateRoleRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
