package portal

import (
	"errors"
	"fmt"
)

// ErrMissingAgencyCode is returned before any request is made when the
// mandatory agency code is absent or blank.
var ErrMissingAgencyCode = errors.New("agency code (codigoOrgao) is required")

// AuthError means the portal rejected the API key (401/403). It is fatal
// for the current query and is never retried.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("portal rejected the API key (status %d): token invalid or expired", e.Status)
}

// APIError is any other non-success response from the portal. It carries
// the status code and response body so the caller can show the upstream
// message. No partial result accompanies it.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("portal request failed with status %d: %s", e.Status, e.Body)
}
