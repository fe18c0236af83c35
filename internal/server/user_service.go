// Package server provides the HTTP REST API for jobflow.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhe931/jobflow/internal/config"
	"github.com/mhe931/jobflow/internal/db"
	"github.com/mhe931/jobflow/internal/types"
)

// Store is the persistence surface the HTTP layer depends on. *db.DB
// implements it; tests substitute an in-memory fake.
type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateResume(ctx context.Context, userID uuid.UUID, resumeText string, skills []string, seniority string) error
	UpdateParameters(ctx context.Context, userID uuid.UUID, params types.StrategicParameters) error
	SetAPIKey(ctx context.Context, userID uuid.UUID, ciphertext []byte) error
	GetAPIKey(ctx context.Context, userID uuid.UUID) ([]byte, error)
	ClearAPIKey(ctx context.Context, userID uuid.UUID) error
	SaveSession(ctx context.Context, userID uuid.UUID, session types.SearchSession) error
	ListSessions(ctx context.Context, userID uuid.UUID) ([]types.SearchSession, error)
	GetSession(ctx context.Context, userID uuid.UUID, sessionID string) (*types.SearchSession, error)
	MarkInteracted(ctx context.Context, userID uuid.UUID, sessionID, resultID string, at time.Time) error
	MarkViewed(ctx context.Context, userID uuid.UUID, sessionID, resultID string, at time.Time) error
}

// UserService provides business logic for user authentication operations
type UserService struct {
	store          Store
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store Store, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// toAPIUser converts db.User to types.User, excluding the password hash
func toAPIUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:          dbUser.ID,
		Name:        dbUser.Name,
		Email:       dbUser.Email,
		PasswordSet: dbUser.PasswordHash != "",
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
	}
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.store.CreateUser(ctx, req.Name, req.Email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	dbUser, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return toAPIUser(dbUser), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Security: Always return a generic error whether the user is missing or
	// the password is wrong.
	if dbUser == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toAPIUser(dbUser), nil
}
