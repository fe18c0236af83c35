package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SearchSession groups the results of one discovery request together with a
// snapshot of the parameters that produced it. ID, CreatedAt and Parameters
// are immutable once the session is appended to a profile's history; only the
// interaction fields of individual results may change afterwards.
type SearchSession struct {
	ID         string              `json:"id"`
	CreatedAt  int64               `json:"created_at"` // epoch millis
	Parameters StrategicParameters `json:"parameters"`
	Results    []ResultRecord      `json:"results"`
}

// NewSearchSession stamps a fresh session with a time-based unique ID and
// creation timestamp. Parameters are deep-copied so the caller's copy stays
// independent; results keep the order the discovery collaborator returned
// them in (display order is always recomputed by the ranking policy).
// The ID keeps its sortable time prefix but carries a random suffix: session
// IDs are a global primary key, and concurrent requests on a coarse clock
// could otherwise mint the same nanosecond stamp.
func NewSearchSession(params StrategicParameters, results []ResultRecord) SearchSession {
	now := time.Now()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return SearchSession{
		ID:         fmt.Sprintf("s_%d_%s", now.UnixNano(), suffix),
		CreatedAt:  now.UnixMilli(),
		Parameters: params.Clone(),
		Results:    append([]ResultRecord(nil), results...),
	}
}

// Result finds a result in the session by ID.
func (s *SearchSession) Result(resultID string) (*ResultRecord, error) {
	for i := range s.Results {
		if s.Results[i].ID == resultID {
			return &s.Results[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "result", ID: resultID}
}

// RecordInteraction marks a result as interacted-with at the given time.
// Idempotent with respect to the flag; the timestamp always moves forward to
// the latest call. Returns a NotFoundError if the result does not exist so
// callers can detect stale references instead of silently no-opping.
func (s *SearchSession) RecordInteraction(resultID string, at time.Time) error {
	result, err := s.Result(resultID)
	if err != nil {
		return err
	}
	result.MarkInteracted(at)
	return nil
}
