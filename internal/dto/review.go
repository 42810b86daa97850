package dto

// ReviewDecisionRequest carries a reviewer's decision. Observations are required when
// the decision is a rejection.
type ReviewDecisionRequest struct {
	Approved     *bool   `json:"approved" validate:"required"`
	Observations *string `json:"observations" validate:"omitempty,max=2000"`
}

// Rejected reports whether the decision rejects the item.
func (r ReviewDecisionRequest) Rejected() bool {
	return r.Approved != nil && !*r.Approved
}

// ObservationText returns the trimmed observations, or "".
func (r ReviewDecisionRequest) ObservationText() string {
	if r.Observations == nil {
		return ""
	}
	return trim(*r.Observations)
}
