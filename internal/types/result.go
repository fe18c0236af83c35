package types

import "time"

// ResultRecord is one discovered job posting. The descriptive and score fields
// are immutable once created; only the interaction fields mutate afterwards.
type ResultRecord struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Hub         string `json:"hub"`
	Description string `json:"description"`
	URL         string `json:"url"`

	// Salary data, either extracted verbatim from the posting (verified) or
	// inferred with a confidence percentage.
	SalaryRange      string  `json:"salary_range,omitempty"`
	SalaryVerified   bool    `json:"salary_verified"`
	SalaryConfidence float64 `json:"salary_confidence,omitempty"`

	// Dual scores in [0,100], validated at the boundary and never recomputed.
	MatchScore      float64 `json:"match_score"`
	HireProbability float64 `json:"hire_probability"`

	GhostJob     bool  `json:"ghost_job"`
	DiscoveredAt int64 `json:"discovered_at"` // epoch millis

	// Interaction state. LastInteractedAt is set iff Interacted is true.
	Interacted       bool   `json:"interacted"`
	LastInteractedAt *int64 `json:"last_interacted_at,omitempty"` // epoch millis
	ViewedAt         *int64 `json:"viewed_at,omitempty"`          // epoch millis, first view only
}

// MarkInteracted sets the interacted flag and refreshes the interaction
// timestamp, regardless of previous state.
func (r *ResultRecord) MarkInteracted(at time.Time) {
	ms := at.UnixMilli()
	r.Interacted = true
	r.LastInteractedAt = &ms
}

// MarkViewed stamps the first-view time. Later views keep the original stamp.
func (r *ResultRecord) MarkViewed(at time.Time) {
	if r.ViewedAt != nil {
		return
	}
	ms := at.UnixMilli()
	r.ViewedAt = &ms
}

// Validate checks the record's invariants before it is stored. Score fields
// outside [0,100] and records missing identity or location fields are
// rejected at the boundary.
func (r *ResultRecord) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "id", Message: "must not be empty"}
	}
	if r.Company == "" {
		return &ValidationError{Field: "company", Message: "must not be empty"}
	}
	if r.Role == "" {
		return &ValidationError{Field: "role", Message: "must not be empty"}
	}
	if r.URL == "" {
		return &ValidationError{Field: "url", Message: "must not be empty"}
	}
	if r.MatchScore < 0 || r.MatchScore > 100 {
		return &ValidationError{Field: "match_score", Message: "must be in [0,100]"}
	}
	if r.HireProbability < 0 || r.HireProbability > 100 {
		return &ValidationError{Field: "hire_probability", Message: "must be in [0,100]"}
	}
	if r.SalaryConfidence < 0 || r.SalaryConfidence > 100 {
		return &ValidationError{Field: "salary_confidence", Message: "must be in [0,100]"}
	}
	if r.Interacted != (r.LastInteractedAt != nil) {
		return &ValidationError{Field: "last_interacted_at", Message: "must be set iff interacted"}
	}
	return nil
}
