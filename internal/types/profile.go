// Package types provides type definitions for structured data used throughout the jobflow system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Seniority levels recognized by the profile analyzer.
const (
	SeniorityJunior    = "Junior"
	SeniorityMid       = "Mid"
	SenioritySenior    = "Senior"
	SeniorityLead      = "Lead"
	SeniorityPrincipal = "Principal"
)

// ValidSeniority reports whether s is one of the recognized seniority levels.
func ValidSeniority(s string) bool {
	switch s {
	case SeniorityJunior, SeniorityMid, SenioritySenior, SeniorityLead, SeniorityPrincipal:
		return true
	}
	return false
}

// StrategicParameters are the user/AI-curated lists that scope a discovery request.
type StrategicParameters struct {
	Titles   []string `json:"titles"`
	Hubs     []string `json:"hubs"`
	Keywords []string `json:"keywords"`
}

// Clone returns a deep copy of the parameters. Sessions snapshot their
// parameters with this so later profile edits never alter past sessions.
func (p StrategicParameters) Clone() StrategicParameters {
	return StrategicParameters{
		Titles:   append([]string(nil), p.Titles...),
		Hubs:     append([]string(nil), p.Hubs...),
		Keywords: append([]string(nil), p.Keywords...),
	}
}

// IsEmpty reports whether no search scope has been configured yet.
func (p StrategicParameters) IsEmpty() bool {
	return len(p.Titles) == 0 && len(p.Hubs) == 0 && len(p.Keywords) == 0
}

// UserProfile is the per-user record: identity, resume text, strategic
// parameters and the ordered history of search sessions (newest first).
type UserProfile struct {
	ID         uuid.UUID           `json:"id"`
	Email      string              `json:"email"`
	Name       string              `json:"name,omitempty"`
	ResumeText string              `json:"resume_text,omitempty"`
	Skills     []string            `json:"skills,omitempty"`
	Seniority  string              `json:"seniority,omitempty"`
	Parameters StrategicParameters `json:"strategic_parameters"`
	History    []SearchSession     `json:"history"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// AppendSession returns nothing; it prepends the session to History so the
// newest session is always first. Persistence is the caller's responsibility.
func (u *UserProfile) AppendSession(s SearchSession) {
	u.History = append([]SearchSession{s}, u.History...)
}

// Session finds a session in History by ID.
func (u *UserProfile) Session(sessionID string) (*SearchSession, error) {
	for i := range u.History {
		if u.History[i].ID == sessionID {
			return &u.History[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "session", ID: sessionID}
}

// RecordInteraction marks the result in the given session as interacted-with
// at the given time. Repeated interactions refresh the timestamp; the
// interacted flag never reverts. Returns a NotFoundError if either the session
// or the result does not exist. It does not persist or re-rank.
func (u *UserProfile) RecordInteraction(sessionID, resultID string, at time.Time) error {
	session, err := u.Session(sessionID)
	if err != nil {
		return err
	}
	return session.RecordInteraction(resultID, at)
}

// NotFoundError signals that a lookup by ID found nothing. It is always
// recoverable; callers decide how to surface it.
type NotFoundError struct {
	Kind string // "profile", "session" or "result"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ValidationError signals that an input violates an invariant before mutation.
// Invalid records are rejected at the boundary, never stored.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// UpstreamError signals that an external collaborator (profile analyzer or job
// discovery) failed, timed out, or returned malformed data. It is distinct
// from NotFoundError: a dependency failure, not a "nothing here" condition.
type UpstreamError struct {
	Collaborator string
	Cause        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Collaborator, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
