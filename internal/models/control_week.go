package models

import "time"

// ControlWeekState is the open/closed state of a weekly time-control period.
type ControlWeekState string

const (
	ControlWeekOpen   ControlWeekState = "open"
	ControlWeekClosed ControlWeekState = "closed"
)

// ControlWeek is a person's weekly time-tracking period.
type ControlWeek struct {
	ID        string           `db:"id" json:"id"`
	PersonID  string           `db:"person_id" json:"person_id"`
	Week      Date             `db:"week" json:"week"`
	State     ControlWeekState `db:"state" json:"state"`
	ClosedAt  *time.Time       `db:"closed_at" json:"closed_at,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the week still accepts changes.
func (w *ControlWeek) IsOpen() bool {
	return w != nil && w.State == ControlWeekOpen
}

// EarlyCloseRequest asks to close a control week before it ends.
type EarlyCloseRequest struct {
	ID          string    `db:"id" json:"id"`
	WeekControl string    `db:"week_control" json:"week_control"`
	Message     string    `db:"message" json:"message"`
	RequestedBy string    `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// EarlyCloseOutcome reports how an early-close request was resolved.
type EarlyCloseOutcome struct {
	RequestID         string       `json:"request_id"`
	Approved          bool         `json:"approved"`
	Week              *ControlWeek `json:"week"`
	DeletedRequests   int64        `json:"deleted_assignment_requests"`
	NotificationError string       `json:"notification_error,omitempty"`
}
