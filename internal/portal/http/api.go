package http

import (
	"time"

	"github.com/silveracademy/familyportal/internal/portal/domain"
)

// ErrorResponse is the uniform error body across all endpoints.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// codeRejected is the single response used for every public redemption
// failure. Unknown codes and codes at capacity must be byte-identical
// on the wire so callers cannot probe which codes exist.
var codeRejected = ErrorResponse{
	Error:            "invalid_code",
	ErrorDescription: "This code is invalid or no longer available.",
}

type ValidateRequest struct {
	Code string `json:"code"`
}

type ValidateResponse struct {
	Valid       bool               `json:"valid"`
	StudentHint domain.StudentHint `json:"student_hint"`
}

type SignupRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type SignupResponse struct {
	AccountCreated bool               `json:"account_created"`
	StudentHint    domain.StudentHint `json:"student_hint"`
}

type AddChildRequest struct {
	Code string `json:"code"`
}

type AddChildResponse struct {
	StudentID   string             `json:"student_id"`
	StudentHint domain.StudentHint `json:"student_hint"`
}

type UpdateCodeRequest struct {
	MaxLinks  *int       `json:"max_links,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

type RegenerateRequest struct {
	MaxLinks  int        `json:"max_links,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RegenerateResponse carries the plaintext. It is shown exactly once;
// afterwards only the last4 fragment is recoverable through the API.
type RegenerateResponse struct {
	Code      string     `json:"code"`
	CodeLast4 string     `json:"code_last4"`
	MaxLinks  int        `json:"max_links"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
