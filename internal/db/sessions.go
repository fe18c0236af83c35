package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mhe931/jobflow/internal/types"
)

const resultColumns = `id, company, role, hub, description, url,
	salary_range, salary_verified, salary_confidence,
	match_score, hire_probability, ghost_job, discovered_at,
	interacted, last_interacted_at, viewed_at`

// SaveSession persists a session and all its results in one transaction.
// Result rows carry their original position so stored order survives reload.
func (db *DB) SaveSession(ctx context.Context, userID uuid.UUID, session types.SearchSession) error {
	paramsJSON, err := json.Marshal(session.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal session parameters: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO search_sessions (id, user_id, created_at, parameters)
		 VALUES ($1, $2, $3, $4)`,
		session.ID, userID, session.CreatedAt, paramsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i, r := range session.Results {
		_, err = tx.Exec(ctx,
			`INSERT INTO search_results (session_id, position, `+resultColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			session.ID, i,
			r.ID, r.Company, r.Role, r.Hub, r.Description, r.URL,
			r.SalaryRange, r.SalaryVerified, r.SalaryConfidence,
			r.MatchScore, r.HireProbability, r.GhostJob, r.DiscoveredAt,
			r.Interacted, r.LastInteractedAt, r.ViewedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// ListSessions returns a user's sessions newest first, results included in
// their stored order.
func (db *DB) ListSessions(ctx context.Context, userID uuid.UUID) ([]types.SearchSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, created_at, parameters
		 FROM search_sessions WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.SearchSession
	for rows.Next() {
		var s types.SearchSession
		var paramsJSON []byte
		if err := rows.Scan(&s.ID, &s.CreatedAt, &paramsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if err := json.Unmarshal(paramsJSON, &s.Parameters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session parameters: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	for i := range sessions {
		sessions[i].Results, err = db.listResults(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// GetSession loads one session owned by the given user. Returns nil, nil if
// the session does not exist or belongs to someone else.
func (db *DB) GetSession(ctx context.Context, userID uuid.UUID, sessionID string) (*types.SearchSession, error) {
	var s types.SearchSession
	var paramsJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, created_at, parameters
		 FROM search_sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&s.ID, &s.CreatedAt, &paramsJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if err := json.Unmarshal(paramsJSON, &s.Parameters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session parameters: %w", err)
	}

	s.Results, err = db.listResults(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) listResults(ctx context.Context, sessionID string) ([]types.ResultRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM search_results WHERE session_id = $1
		 ORDER BY position ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []types.ResultRecord
	for rows.Next() {
		var r types.ResultRecord
		if err := rows.Scan(
			&r.ID, &r.Company, &r.Role, &r.Hub, &r.Description, &r.URL,
			&r.SalaryRange, &r.SalaryVerified, &r.SalaryConfidence,
			&r.MatchScore, &r.HireProbability, &r.GhostJob, &r.DiscoveredAt,
			&r.Interacted, &r.LastInteractedAt, &r.ViewedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}
