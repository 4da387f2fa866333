package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

func setupInvokeGateway(t *testing.T, upstream http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	limiter, err := engine.NewRateLimiter(map[string]core.LimiterClass{
		engine.ClassTokenMetadata: {Capacity: 60, Window: time.Minute},
		engine.ClassDexData:       {Capacity: 300, Window: time.Minute},
	})
	if err != nil {
		t.Fatalf("failed to build limiter: %v", err)
	}

	SetGateway(engine.NewGateway(&engine.Dispatcher{
		Limiter: limiter,
		Client:  server.Client(),
		BaseURL: server.URL,
	}))
	t.Cleanup(func() { SetGateway(nil) })
}

func decodePayload(t *testing.T, rec *httptest.ResponseRecorder) engine.Payload {
	t.Helper()

	var payload engine.Payload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return payload
}

func TestInvokeHandlerSuccess(t *testing.T) {
	setupInvokeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/search" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"pairs":[]}`))
	})

	body := `{"tool_name":"search_pairs","arguments":{"query":"SOL"}}`
	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()

	InvokeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	payload := decodePayload(t, rec)
	if payload.Error != nil {
		t.Fatalf("expected success, got error %s: %s", payload.Error.Kind, payload.Error.Message)
	}
	if string(payload.Result) != `{"pairs":[]}` {
		t.Fatalf("unexpected result: %s", payload.Result)
	}
}

func TestInvokeHandlerMethodAndParamsForm(t *testing.T) {
	setupInvokeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/v1/solana/ABC" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	body := `{"method":"get_token_orders","params":{"chain_id":"solana","contractAddress":"ABC"}}`
	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()

	InvokeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if payload := decodePayload(t, rec); payload.Error != nil {
		t.Fatalf("expected success, got %s", payload.Error.Message)
	}
}

func TestInvokeHandlerValidationFailureStillHTTP200(t *testing.T) {
	setupInvokeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be reached")
	})

	body := `{"tool_name":"get_pair","arguments":{"chainId":"solana"}}`
	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()

	InvokeHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	payload := decodePayload(t, rec)
	if payload.Error == nil {
		t.Fatal("expected error payload")
	}
	if payload.Error.Kind != core.FailureMissingArgument {
		t.Fatalf("expected missing_argument, got %s", payload.Error.Kind)
	}
}

func TestInvokeHandlerMissingOperationName(t *testing.T) {
	setupInvokeGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"arguments":{}}`))
	rec := httptest.NewRecorder()

	InvokeHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestInvokeHandlerMalformedBody(t *testing.T) {
	setupInvokeGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	InvokeHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestInvokeOperationHandlerPathName(t *testing.T) {
	setupInvokeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token-profiles/latest/v1" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	router := chi.NewRouter()
	router.Post("/invoke/{operation}", InvokeOperationHandler)

	// Empty body is valid for operations without required arguments.
	req := httptest.NewRequest(http.MethodPost, "/invoke/get_latest_token_profiles", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if payload := decodePayload(t, rec); payload.Error != nil {
		t.Fatalf("expected success, got %s", payload.Error.Message)
	}
}

func TestInvokeHandlerGatewayNotInitialized(t *testing.T) {
	SetGateway(nil)

	body := `{"tool_name":"search_pairs","arguments":{"query":"SOL"}}`
	req := httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(body))
	rec := httptest.NewRecorder()

	InvokeHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
