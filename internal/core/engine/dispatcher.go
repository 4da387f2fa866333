package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/metrics"
)

// DefaultBaseURL is the public DexScreener API host.
const DefaultBaseURL = "https://api.dexscreener.com"

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 10 * time.Second

// Upstream responses are opaque payloads; cap reads so a misbehaving server
// cannot pin memory.
const maxResponseBytes = 8 << 20

// CallJournal records completed invocations. Implementations must tolerate
// concurrent use; recording is best-effort and never affects results.
type CallJournal interface {
	RecordCall(ctx context.Context, entry core.JournalEntry) error
}

// Dispatcher performs the admitted upstream call for a resolved operation.
// It awaits the class limiter, issues exactly one HTTP GET, and classifies
// the outcome. It never retries: a blind retry would double-spend a scarce
// quota slot, so retry policy stays with the caller.
type Dispatcher struct {
	Limiter     *RateLimiter
	Client      *http.Client
	BaseURL     string
	Journal     CallJournal
	ToolVersion string
	Clock       func() time.Time
}

// Execute awaits admission for the call's class, issues the upstream GET, and
// returns a classified result. Failures are returned, never raised: every
// error is scoped to this single invocation.
func (d *Dispatcher) Execute(ctx context.Context, call *ResolvedCall) *core.CallResult {
	if ctx == nil {
		ctx = context.Background()
	}

	requestedAt := d.now()
	upstreamURL := d.baseURL() + call.RequestURI

	provenance := core.Provenance{
		CallID:      uuid.New().String(),
		Operation:   call.Operation,
		Class:       call.Class,
		RequestedAt: requestedAt,
		UpstreamURL: upstreamURL,
		ToolVersion: d.ToolVersion,
	}

	if d.Limiter != nil {
		if err := d.Limiter.AwaitSlot(ctx, call.Class); err != nil {
			// Abandoned before admission: no quota was spent.
			return d.finish(ctx, d.failure(provenance, classifyAwaitError(err), err.Error()))
		}
		metrics.RecordAdmissionWait(call.Class, d.now().Sub(requestedAt))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, upstreamURL, nil)
	if err != nil {
		return d.finish(ctx, d.failure(provenance, core.FailureConnection, err.Error()))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client().Do(req)
	if err != nil {
		kind := core.FailureConnection
		if isTimeout(err) {
			kind = core.FailureTimeout
		} else if errors.Is(err, context.Canceled) {
			kind = core.FailureCanceled
		}
		return d.finish(ctx, d.failure(provenance, kind, err.Error()))
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		kind := core.FailureConnection
		if isTimeout(err) {
			kind = core.FailureTimeout
		}
		result := d.failure(provenance, kind, err.Error())
		result.StatusCode = resp.StatusCode
		return d.finish(ctx, result)
	}

	return d.finish(ctx, d.classify(provenance, resp, body))
}

func (d *Dispatcher) classify(provenance core.Provenance, resp *http.Response, body []byte) *core.CallResult {
	provenance.ResolvedAt = d.now()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &core.CallResult{
			Payload:    body,
			StatusCode: resp.StatusCode,
			Provenance: provenance,
		}
	}

	var failure core.Failure
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		failure = core.Failure{
			Kind:    core.FailureRateLimited,
			Message: rateLimitedMessage(resp),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		failure = core.Failure{
			Kind:    core.FailureClientError,
			Message: upstreamMessage(resp.StatusCode, body),
		}
	default:
		failure = core.Failure{
			Kind:    core.FailureServerError,
			Message: upstreamMessage(resp.StatusCode, body),
		}
	}

	return &core.CallResult{
		Failure:    &failure,
		StatusCode: resp.StatusCode,
		Provenance: provenance,
	}
}

func (d *Dispatcher) failure(provenance core.Provenance, kind core.FailureKind, message string) *core.CallResult {
	provenance.ResolvedAt = d.now()
	return &core.CallResult{
		Failure:    &core.Failure{Kind: kind, Message: message},
		Provenance: provenance,
	}
}

// finish records the outcome in the journal before handing it back.
func (d *Dispatcher) finish(ctx context.Context, result *core.CallResult) *core.CallResult {
	if d == nil || d.Journal == nil || result == nil {
		return result
	}

	entry := core.JournalEntry{
		CallID:      result.Provenance.CallID,
		Operation:   result.Provenance.Operation,
		Class:       result.Provenance.Class,
		StatusCode:  result.StatusCode,
		RequestedAt: result.Provenance.RequestedAt,
		DurationMS:  result.Provenance.ResolvedAt.Sub(result.Provenance.RequestedAt).Milliseconds(),
	}
	if result.Failure != nil {
		entry.FailureKind = string(result.Failure.Kind)
	}

	_ = d.Journal.RecordCall(ctx, entry)
	return result
}

func (d *Dispatcher) baseURL() string {
	if d != nil && d.BaseURL != "" {
		return strings.TrimSuffix(d.BaseURL, "/")
	}
	return DefaultBaseURL
}

func (d *Dispatcher) client() *http.Client {
	if d != nil && d.Client != nil {
		return d.Client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (d *Dispatcher) now() time.Time {
	if d != nil && d.Clock != nil {
		return d.Clock()
	}
	return time.Now().UTC()
}

func classifyAwaitError(err error) core.FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return core.FailureTimeout
	case errors.Is(err, context.Canceled):
		return core.FailureCanceled
	default:
		// Not a context error, e.g. an unknown limiter class. That is a
		// wiring bug, not a caller cancellation.
		return core.FailureConnection
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func rateLimitedMessage(resp *http.Response) string {
	message := "upstream rate limit exceeded"
	if retry := resp.Header.Get("Retry-After"); retry != "" {
		message = fmt.Sprintf("%s, retry after %s", message, retry)
	}
	return message
}

func upstreamMessage(statusCode int, body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	if snippet == "" {
		return fmt.Sprintf("upstream returned HTTP %d", statusCode)
	}
	return fmt.Sprintf("upstream returned HTTP %d: %s", statusCode, snippet)
}
