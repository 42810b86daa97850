package models

import "time"

// ReviewType enumerates the data categories that go through review.
type ReviewType string

const (
	ReviewTypeIdentification    ReviewType = "identification"
	ReviewTypeResidence         ReviewType = "residence"
	ReviewTypeCertification     ReviewType = "certification"
	ReviewTypeLaboralExperience ReviewType = "laboral_experience"
	ReviewTypeProjectExperience ReviewType = "project_experience"
	ReviewTypeDocument          ReviewType = "document"
)

// ReviewStatus captures the approval state of a review.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Review is the approval record of one (data type, reference) pair.
type Review struct {
	ID            string       `db:"id" json:"id"`
	DataType      ReviewType   `db:"data_type" json:"data_type"`
	DataReference string       `db:"data_reference" json:"data_reference"`
	Status        ReviewStatus `db:"status" json:"status"`
	Comments      *string      `db:"comments" json:"comments"`
	Reviewer      *string      `db:"reviewer" json:"reviewer"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// RequestReview resets the review to pending, clearing any previous decision.
func (r *Review) RequestReview() {
	r.Status = ReviewStatusPending
	r.Comments = nil
	r.Reviewer = nil
}

// Approve marks the review approved by reviewer and clears comments.
func (r *Review) Approve(reviewer string) {
	r.Status = ReviewStatusApproved
	r.Reviewer = &reviewer
	r.Comments = nil
}

// UpdateComments rejects the review with the reviewer's observations.
func (r *Review) UpdateComments(reviewer, observations string) {
	r.Status = ReviewStatusRejected
	r.Reviewer = &reviewer
	r.Comments = &observations
}
