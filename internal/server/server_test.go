package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
	apperrors "github.com/catwhisperingninja/cat-dexscreener/internal/errors"
)

func newTestServer(t *testing.T, upstreamURL string, client *http.Client) *Server {
	t.Helper()

	limiter, err := engine.NewRateLimiter(map[string]core.LimiterClass{
		engine.ClassTokenMetadata: {Capacity: 60, Window: time.Minute},
		engine.ClassDexData:       {Capacity: 300, Window: time.Minute},
	})
	if err != nil {
		t.Fatalf("failed to build limiter: %v", err)
	}

	gw := engine.NewGateway(&engine.Dispatcher{
		Limiter: limiter,
		Client:  client,
		BaseURL: upstreamURL,
	})
	return New("127.0.0.1", 0, gw)
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1", &http.Client{Timeout: time.Second})

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected error code NOT_FOUND, got %s", body.Error.Code)
	}
}

func TestServerRejectsWrongMethodOnInvoke(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1", &http.Client{Timeout: time.Second})

	req := httptest.NewRequest(http.MethodGet, "/invoke", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestServerInvokeRoundTrip(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/pairs/solana/PAIR" {
			t.Errorf("unexpected upstream path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"pair":{}}`))
	}))
	defer upstream.Close()

	srv := newTestServer(t, upstream.URL, upstream.Client())

	body := `{"arguments":{"chainId":"solana","pairId":"PAIR"}}`
	req := httptest.NewRequest(http.MethodPost, "/invoke/get_pair", strings.NewReader(body))
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload engine.Payload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Error != nil {
		t.Fatalf("expected success, got %s: %s", payload.Error.Kind, payload.Error.Message)
	}
}

func TestServerOperationsRoute(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1", &http.Client{Timeout: time.Second})

	req := httptest.NewRequest(http.MethodGet, "/operations", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
