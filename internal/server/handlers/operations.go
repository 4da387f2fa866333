package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	apperrors "github.com/catwhisperingninja/cat-dexscreener/internal/errors"
)

// OperationSummary is the catalog entry exposed to callers.
type OperationSummary struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Class       string              `json:"class"`
	Required    []string            `json:"required,omitempty"`
	Aliases     map[string][]string `json:"aliases,omitempty"`
}

// OperationsResponse lists the catalog alongside live per-class quota usage.
type OperationsResponse struct {
	Operations []OperationSummary `json:"operations"`
	Classes    []core.ClassUsage  `json:"classes"`
}

// OperationsHandler returns the operation catalog and current window usage.
func OperationsHandler(w http.ResponseWriter, r *http.Request) {
	if gateway == nil {
		respondWithError(w, r, apperrors.NewInternalError("gateway not initialized"))
		return
	}

	specs := gateway.Registry.Operations()
	summaries := make([]OperationSummary, 0, len(specs))
	for _, spec := range specs {
		summaries = append(summaries, OperationSummary{
			Name:        spec.Name,
			Description: spec.Description,
			Class:       spec.Class,
			Required:    spec.Required,
			Aliases:     spec.Aliases,
		})
	}

	response := OperationsResponse{
		Operations: summaries,
		Classes:    gateway.Usage(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}
