package engine

import (
	"encoding/json"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
)

// Payload is the uniform outward shape for every invocation: the raw
// upstream payload on success, or a structured error callers can branch on
// without string matching. Exactly one of the two fields is set.
type Payload struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *core.Failure   `json:"error,omitempty"`
}

// Wrap converts a call result into the outward payload.
func Wrap(result *core.CallResult) Payload {
	if result == nil {
		return Payload{Error: &core.Failure{
			Kind:    core.FailureConnection,
			Message: "no result produced",
		}}
	}

	if result.Failure != nil {
		return Payload{Error: result.Failure}
	}

	payload := result.Payload
	if len(payload) == 0 {
		// Absence of data must stay visible as a failure, never masquerade
		// as an empty success.
		return Payload{Error: &core.Failure{
			Kind:    core.FailureServerError,
			Message: "upstream returned an empty response body",
		}}
	}

	return Payload{Result: payload}
}

// WrapFailure builds an outward payload for a failure that happened before
// any call result existed (validation rejections).
func WrapFailure(failure *core.Failure) Payload {
	return Payload{Error: failure}
}
