package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mhe931/jobflow/internal/types"
)

// User represents a user account row
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUser inserts a new user and returns its ID
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, email, passwordHash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil, nil if not found.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email. Returns nil, nil if not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// UpdateResume stores the cleaned resume text together with the analyzed
// skills and seniority.
func (db *DB) UpdateResume(ctx context.Context, userID uuid.UUID, resumeText string, skills []string, seniority string) error {
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE users
		 SET resume_text = $1, skills = $2, seniority = $3, updated_at = NOW()
		 WHERE id = $4`,
		resumeText, skillsJSON, seniority, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.NotFoundError{Kind: "profile", ID: userID.String()}
	}
	return nil
}

// UpdateParameters replaces the user's strategic parameters
func (db *DB) UpdateParameters(ctx context.Context, userID uuid.UUID, params types.StrategicParameters) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE users SET parameters = $1, updated_at = NOW() WHERE id = $2`,
		paramsJSON, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update parameters: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.NotFoundError{Kind: "profile", ID: userID.String()}
	}
	return nil
}

// GetProfile loads the full profile for a user: identity, resume analysis,
// parameters and the session history (newest first). Returns nil, nil if the
// user does not exist.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	var p types.UserProfile
	var skillsJSON, paramsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, email, name, resume_text, skills, seniority, parameters, created_at, updated_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&p.ID, &p.Email, &p.Name, &p.ResumeText, &skillsJSON, &p.Seniority, &paramsJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal(skillsJSON, &p.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(paramsJSON, &p.Parameters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parameters: %w", err)
	}

	p.History, err = db.ListSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetAPIKey stores the user's encrypted Gemini API key
func (db *DB) SetAPIKey(ctx context.Context, userID uuid.UUID, ciphertext []byte) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users SET api_key_ciphertext = $1, updated_at = NOW() WHERE id = $2`,
		ciphertext, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set api key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &types.NotFoundError{Kind: "profile", ID: userID.String()}
	}
	return nil
}

// GetAPIKey retrieves the user's encrypted API key. Returns nil, nil when no
// key is stored.
func (db *DB) GetAPIKey(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var ciphertext []byte
	err := db.pool.QueryRow(ctx,
		`SELECT api_key_ciphertext FROM users WHERE id = $1`,
		userID,
	).Scan(&ciphertext)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get api key: %w", err)
	}
	return ciphertext, nil
}

// ClearAPIKey removes the stored API key
func (db *DB) ClearAPIKey(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET api_key_ciphertext = NULL, updated_at = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear api key: %w", err)
	}
	return nil
}
