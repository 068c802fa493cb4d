package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("already exists")
	ErrValidation            = errors.New("validation failed")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrUpstream              = errors.New("upstream service error")
	ErrInvalidResponseShape  = errors.New("invalid response shape")
	ErrUnknownResponseKind   = errors.New("unknown response kind")
	ErrMissingConfiguration  = errors.New("missing configuration")
	ErrSecretProvisionFailed = errors.New("secret provisioning failed")
)

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// UpstreamError is a non-2xx answer from the AI service or GitHub.
// The status and body are surfaced to the caller verbatim.
type UpstreamError struct {
	Service string
	Status  int
	Body    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

// StatusCode forwards the upstream status. A status that is not an error
// status (the upstream answered 2xx/3xx but not the expected code) maps to 502.
func (e *UpstreamError) StatusCode() int {
	if e.Status < 400 || e.Status > 599 {
		return http.StatusBadGateway
	}
	return e.Status
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// InvalidResponseShapeError means the AI service answered 200 with a body that
// is not a single-key JSON object of a known value type.
type InvalidResponseShapeError struct {
	Reason string
}

func (e *InvalidResponseShapeError) Error() string {
	return "invalid response format from generate-code: " + e.Reason
}

func (e *InvalidResponseShapeError) StatusCode() int      { return http.StatusInternalServerError }
func (e *InvalidResponseShapeError) Is(target error) bool { return target == ErrInvalidResponseShape }

// UnknownResponseKindError means the AI response key is not a recognized variant.
type UnknownResponseKindError struct {
	Key string
}

func (e *UnknownResponseKindError) Error() string {
	return fmt.Sprintf("unknown response key: %s", e.Key)
}

func (e *UnknownResponseKindError) StatusCode() int      { return http.StatusInternalServerError }
func (e *UnknownResponseKindError) Is(target error) bool { return target == ErrUnknownResponseKind }

// MissingConfigurationError is raised before any outbound call when a required
// setting (e.g. GITHUB_TOKEN) is absent.
type MissingConfigurationError struct {
	Setting string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

func (e *MissingConfigurationError) StatusCode() int      { return http.StatusInternalServerError }
func (e *MissingConfigurationError) Is(target error) bool { return target == ErrMissingConfiguration }

// SecretProvisionError names the deployment secret whose upload failed.
// Secrets uploaded before it are left in place.
type SecretProvisionError struct {
	Secret string
	Err    error
}

func (e *SecretProvisionError) Error() string {
	return fmt.Sprintf("failed to add secret %s: %v", e.Secret, e.Err)
}

func (e *SecretProvisionError) Unwrap() error        { return e.Err }
func (e *SecretProvisionError) StatusCode() int      { return http.StatusInternalServerError }
func (e *SecretProvisionError) Is(target error) bool { return target == ErrSecretProvisionFailed }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (room, repository)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
