package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhe931/jobflow/internal/types"
)

// MarkInteracted records an interaction with a result. The interacted flag is
// idempotent; the timestamp always moves to the latest call. Ownership is
// enforced through the session's user. Returns a NotFoundError when the
// session or result doesn't exist.
func (db *DB) MarkInteracted(ctx context.Context, userID uuid.UUID, sessionID, resultID string, at time.Time) error {
	owned, err := db.sessionOwned(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !owned {
		return &types.NotFoundError{Kind: "session", ID: sessionID}
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE search_results
		 SET interacted = TRUE, last_interacted_at = $1
		 WHERE session_id = $2 AND id = $3`,
		at.UnixMilli(), sessionID, resultID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark result interacted: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.NotFoundError{Kind: "result", ID: resultID}
	}
	return nil
}

// MarkViewed stamps the first view of a result. Later views keep the original
// stamp. Same NotFound semantics as MarkInteracted.
func (db *DB) MarkViewed(ctx context.Context, userID uuid.UUID, sessionID, resultID string, at time.Time) error {
	owned, err := db.sessionOwned(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !owned {
		return &types.NotFoundError{Kind: "session", ID: sessionID}
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE search_results
		 SET viewed_at = COALESCE(viewed_at, $1)
		 WHERE session_id = $2 AND id = $3`,
		at.UnixMilli(), sessionID, resultID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark result viewed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.NotFoundError{Kind: "result", ID: resultID}
	}
	return nil
}

func (db *DB) sessionOwned(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM search_sessions WHERE id = $1 AND user_id = $2)`,
		sessionID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check session ownership: %w", err)
	}
	return exists, nil
}

// PurgeOldSessions deletes sessions (and their results, via cascade) created
// before the cutoff. Returns the number of sessions removed.
func (db *DB) PurgeOldSessions(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	result, err := db.pool.Exec(ctx,
		`DELETE FROM search_sessions WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge old sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
