package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/catwhisperingninja/cat-dexscreener/internal/errors"
)

// maxInvokeBodyBytes bounds the request body; argument maps are tiny.
const maxInvokeBodyBytes = 1 << 20

// InvokeRequest is the invocation body. Both the arguments form and the
// older tool_name/method plus params form are accepted.
type InvokeRequest struct {
	ToolName  string            `json:"tool_name,omitempty"`
	Method    string            `json:"method,omitempty"`
	Arguments map[string]string `json:"arguments,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
}

// operation resolves the operation name from the body, preferring tool_name.
func (req *InvokeRequest) operation() string {
	if name := strings.TrimSpace(req.ToolName); name != "" {
		return name
	}
	return strings.TrimSpace(req.Method)
}

// arguments resolves the argument map from the body, preferring arguments.
func (req *InvokeRequest) arguments() map[string]string {
	if req.Arguments != nil {
		return req.Arguments
	}
	return req.Params
}

// InvokeHandler executes an operation named in the request body.
// The response is always a 200 with a result-or-error envelope; HTTP error
// statuses are reserved for transport problems like an unreadable body.
func InvokeHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeInvokeBody(w, r)
	if !ok {
		return
	}

	operation := req.operation()
	if operation == "" {
		respondWithError(w, r, apperrors.NewInvalidInputError("request body must name an operation via tool_name or method"))
		return
	}

	invoke(w, r, operation, req.arguments())
}

// InvokeOperationHandler executes the operation named in the URL path.
// An empty body is accepted for operations without required arguments.
func InvokeOperationHandler(w http.ResponseWriter, r *http.Request) {
	operation := chi.URLParam(r, "operation")

	req, ok := decodeInvokeBody(w, r)
	if !ok {
		return
	}

	invoke(w, r, operation, req.arguments())
}

func invoke(w http.ResponseWriter, r *http.Request, operation string, args map[string]string) {
	if gateway == nil {
		respondWithError(w, r, apperrors.NewInternalError("gateway not initialized"))
		return
	}

	payload := gateway.Invoke(r.Context(), operation, args)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeInvokeBody parses the request body, treating an empty body as an
// empty argument map. Returns false after writing an error response.
func decodeInvokeBody(w http.ResponseWriter, r *http.Request) (*InvokeRequest, bool) {
	var req InvokeRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxInvokeBodyBytes))
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "unable to read request body"))
		return nil, false
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return &req, true
	}

	if err := json.Unmarshal(body, &req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "request body must be a JSON invocation object"))
		return nil, false
	}

	return &req, true
}
