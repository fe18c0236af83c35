package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateUserRequest represents the request to register a new user with password authentication.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user for API responses (avoids import cycle with db package).
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PasswordSet bool      `json:"password_set"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateResumeRequest supplies resume content either directly or by URL.
// Exactly one of Text or URL must be set.
type UpdateResumeRequest struct {
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty" validate:"omitempty,url"`
}

// UpdateParametersRequest carries user edits to the strategic parameters.
type UpdateParametersRequest struct {
	Titles   []string `json:"titles" validate:"required,min=1,dive,min=1"`
	Hubs     []string `json:"hubs" validate:"required,min=1,dive,min=1"`
	Keywords []string `json:"keywords" validate:"dive,min=1"`
}

// SetAPIKeyRequest carries the user's own Gemini API key (BYOK).
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key" validate:"required,min=20"`
}

// asValidationError converts a go-playground validation failure into the
// domain taxonomy so callers map it to a 400, not an internal error.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		}
	}
	return &ValidationError{Field: "request", Message: err.Error()}
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	validate := validator.New()
	return asValidationError(validate.Struct(r))
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return asValidationError(validate.Struct(r))
}

// Validate validates the UpdateResumeRequest using the validator.
func (r *UpdateResumeRequest) Validate() error {
	if (r.Text == "") == (r.URL == "") {
		return &ValidationError{Field: "text", Message: "exactly one of text or url is required"}
	}
	validate := validator.New()
	return asValidationError(validate.Struct(r))
}

// Validate validates the UpdateParametersRequest using the validator.
func (r *UpdateParametersRequest) Validate() error {
	validate := validator.New()
	return asValidationError(validate.Struct(r))
}

// Validate validates the SetAPIKeyRequest using the validator.
func (r *SetAPIKeyRequest) Validate() error {
	validate := validator.New()
	return asValidationError(validate.Struct(r))
}
