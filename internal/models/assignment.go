package models

import "time"

// MaxWeeklyHours bounds a single assignment.
const MaxWeeklyHours = 80

// Assignment allocates a person's hours to a project role for one week.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	PersonID  string    `db:"person_id" json:"person_id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	RoleID    string    `db:"role_id" json:"role_id"`
	Week      Date      `db:"week" json:"week"`
	Hours     float64   `db:"hours" json:"hours"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RequestStatus captures workflow states for assignment-change requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// AssignmentRequest asks for a change of weekly hours, pending manager review.
type AssignmentRequest struct {
	ID           string        `db:"id" json:"id"`
	PersonID     string        `db:"person_id" json:"person_id"`
	ProjectID    string        `db:"project_id" json:"project_id"`
	RoleID       string        `db:"role_id" json:"role_id"`
	Week         Date          `db:"week" json:"week"`
	Hours        float64       `db:"hours" json:"hours"`
	Status       RequestStatus `db:"status" json:"status"`
	RequestedBy  string        `db:"requested_by" json:"requested_by"`
	Reviewer     *string       `db:"reviewer" json:"reviewer,omitempty"`
	Observations *string       `db:"observations" json:"observations,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}
