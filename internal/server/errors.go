// Package server provides the HTTP REST API for jobflow.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mhe931/jobflow/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Domain errors map per the taxonomy: missing entities are 404, rejected
// input is 400, collaborator failures are 502, everything else (store
// failures included) is 500.
func HTTPStatus(err error) int {
	var (
		notFound   *types.NotFoundError
		validation *types.ValidationError
		upstream   *types.UpstreamError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	}

	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
