package core

import (
	"encoding/json"
	"time"
)

// FailureKind classifies a failed invocation.
type FailureKind string

const (
	// Validation failures: surfaced before admission, never consume quota.
	FailureMissingArgument  FailureKind = "missing_argument"
	FailureInvalidArgument  FailureKind = "invalid_argument"
	FailureUnknownOperation FailureKind = "unknown_operation"

	// Upstream failures: the call was admitted and sent, quota was spent.
	FailureRateLimited FailureKind = "rate_limited"
	FailureClientError FailureKind = "client_error"
	FailureServerError FailureKind = "server_error"

	// Network failures.
	FailureTimeout    FailureKind = "timeout"
	FailureConnection FailureKind = "connection_error"
	FailureCanceled   FailureKind = "canceled"
)

// IsValidation reports whether the kind belongs to the validation class,
// meaning the invocation was rejected before any upstream call.
func (k FailureKind) IsValidation() bool {
	switch k {
	case FailureMissingArgument, FailureInvalidArgument, FailureUnknownOperation:
		return true
	default:
		return false
	}
}

// Failure describes why an invocation did not produce an upstream payload.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// CallRequest is a single caller invocation: operation name plus the raw
// argument mapping exactly as supplied.
type CallRequest struct {
	Operation string            `json:"operation"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// Provenance captures metadata about how an invocation was resolved.
type Provenance struct {
	CallID      string    `json:"call_id"`
	Operation   string    `json:"operation"`
	Class       string    `json:"class,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
	ResolvedAt  time.Time `json:"resolved_at"`
	UpstreamURL string    `json:"upstream_url,omitempty"`
	ToolVersion string    `json:"tool_version,omitempty"`
}

// CallResult is the outcome of a single invocation: either the raw upstream
// payload or a classified failure, never both.
type CallResult struct {
	Payload    json.RawMessage `json:"payload,omitempty"`
	Failure    *Failure        `json:"failure,omitempty"`
	StatusCode int             `json:"status_code,omitempty"`
	Provenance Provenance      `json:"provenance"`
}

// Succeeded reports whether the invocation produced an upstream payload.
func (r *CallResult) Succeeded() bool {
	return r != nil && r.Failure == nil
}
