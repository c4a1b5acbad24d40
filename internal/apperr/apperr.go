// Package apperr defines the error taxonomy shared by the store and the
// HTTP handlers. Deeper layers wrap one of these sentinels with
// fmt.Errorf("%w: %v", ...) and handlers map them to a status code with
// Status, so no failure path needs its own ad-hoc status logic.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrAuthenticationRequired means the request carries no valid session.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrForbidden means the actor lacks the role or ownership for the action.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation means malformed input, e.g. an empty comment.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the referenced idea/comment/user no longer exists.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint was hit, e.g. a duplicate
	// category name. For vote toggles the constraint race is benign: the
	// toggle already happened and the ledger treats it as a no-op.
	ErrConflict = errors.New("conflict")
	// ErrTransaction means a multi-row operation could not complete atomically
	// and was rolled back in full.
	ErrTransaction = errors.New("transaction failed")
)

// Status maps an error to the HTTP status code it should be reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
