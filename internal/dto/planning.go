package dto

import "github.com/noah-isme/resource-planner-api/internal/models"

// CreateAssignmentRequest payload for allocating weekly hours.
type CreateAssignmentRequest struct {
	PersonID  string       `json:"person_id" validate:"required,uuid"`
	ProjectID string       `json:"project_id" validate:"required,uuid"`
	RoleID    string       `json:"role_id" validate:"required,uuid"`
	Week      *models.Date `json:"week" validate:"required"`
	Hours     float64      `json:"hours" validate:"gt=0,lte=80"`
}

// UpdateAssignmentRequest partial update of an assignment.
type UpdateAssignmentRequest struct {
	RoleID *string  `json:"role_id" validate:"omitempty,uuid"`
	Hours  *float64 `json:"hours" validate:"omitempty,gt=0,lte=80"`
}

// CreateAssignmentChangeRequest asks for a change of weekly hours.
type CreateAssignmentChangeRequest struct {
	PersonID  string       `json:"person_id" validate:"omitempty,uuid"`
	ProjectID string       `json:"project_id" validate:"required,uuid"`
	RoleID    string       `json:"role_id" validate:"required,uuid"`
	Week      *models.Date `json:"week" validate:"required"`
	Hours     float64      `json:"hours" validate:"gte=0,lte=80"`
}

// OpenControlWeekRequest opens a control week for a person.
type OpenControlWeekRequest struct {
	PersonID string       `json:"person_id" validate:"required,uuid"`
	Week     *models.Date `json:"week" validate:"required"`
}

// CreateEarlyCloseRequest asks to close the caller's open control week early.
type CreateEarlyCloseRequest struct {
	PersonID string `json:"person_id" validate:"omitempty,uuid"`
	Message  string `json:"message" validate:"max=1000"`
}

// HeatmapQuery carries the planning view query string.
type HeatmapQuery struct {
	From     string `form:"from" validate:"required,datetime=2006-01-02"`
	To       string `form:"to" validate:"required,datetime=2006-01-02"`
	PersonID string `form:"person_id" validate:"omitempty,uuid"`
}
