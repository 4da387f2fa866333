package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

func TestOperationsHandlerListsCatalogAndUsage(t *testing.T) {
	limiter, err := engine.NewRateLimiter(map[string]core.LimiterClass{
		engine.ClassTokenMetadata: {Capacity: 60, Window: time.Minute},
		engine.ClassDexData:       {Capacity: 300, Window: time.Minute},
	})
	if err != nil {
		t.Fatalf("failed to build limiter: %v", err)
	}

	SetGateway(engine.NewGateway(&engine.Dispatcher{Limiter: limiter}))
	t.Cleanup(func() { SetGateway(nil) })

	req := httptest.NewRequest(http.MethodGet, "/operations", nil)
	rec := httptest.NewRecorder()

	OperationsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp OperationsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Operations) != 7 {
		t.Fatalf("expected 7 operations, got %d", len(resp.Operations))
	}

	if resp.Operations[0].Name != "get_latest_token_profiles" {
		t.Fatalf("unexpected first operation: %s", resp.Operations[0].Name)
	}

	byName := make(map[string]OperationSummary, len(resp.Operations))
	for _, op := range resp.Operations {
		byName[op.Name] = op
	}

	orders, ok := byName["get_token_orders"]
	if !ok {
		t.Fatal("expected get_token_orders in catalog")
	}
	if len(orders.Required) != 2 {
		t.Fatalf("expected 2 required arguments, got %v", orders.Required)
	}
	if len(orders.Aliases["tokenAddress"]) == 0 {
		t.Fatal("expected alias spellings for tokenAddress")
	}

	if len(resp.Classes) != 2 {
		t.Fatalf("expected 2 limiter classes, got %d", len(resp.Classes))
	}
	for _, usage := range resp.Classes {
		if usage.Capacity == 0 {
			t.Fatalf("expected non-zero capacity for class %s", usage.Class)
		}
	}
}

func TestOperationsHandlerGatewayNotInitialized(t *testing.T) {
	SetGateway(nil)

	req := httptest.NewRequest(http.MethodGet, "/operations", nil)
	rec := httptest.NewRecorder()

	OperationsHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
