package metrics

import (
	"strconv"
	"time"

	"github.com/catwhisperingninja/cat-dexscreener/internal/observability"
)

// Gateway metrics following Prometheus conventions
var (
	InvocationsTotal   = "gateway_invocations_total"
	UpstreamCallsTotal = "gateway_upstream_calls_total"
	AdmissionWait      = "gateway_admission_wait_ms"

	// Health check metrics
	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	// Server lifecycle metrics
	ServerStartTime = "app_server_start_time_seconds"
	ServerUptime    = "app_server_uptime_seconds"
)

// RecordInvocation records one gateway invocation and its outcome
// ("success" or a failure kind).
func RecordInvocation(operation string, outcome string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			InvocationsTotal,
			1,
			map[string]string{
				"operation": operation,
				"outcome":   outcome,
			},
		)
	}
}

// RecordUpstreamCall records an admitted upstream call per limiter class.
// A status of zero means the call never produced an HTTP response.
func RecordUpstreamCall(class string, status int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			UpstreamCallsTotal,
			1,
			map[string]string{
				"class":  class,
				"status": strconv.Itoa(status),
			},
		)
	}
}

// RecordAdmissionWait records how long a caller was suspended waiting for a
// quota slot.
func RecordAdmissionWait(class string, wait time.Duration) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Histogram(
			AdmissionWait,
			wait,
			map[string]string{
				"class": class,
			},
		)
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			HealthCheckTotal,
			1,
			map[string]string{
				"check":  checkName,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			HealthCheckDuration,
			duration,
			map[string]string{
				"check": checkName,
			},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}

// SetServerUptime records the server uptime in seconds
func SetServerUptime(seconds int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerUptime,
			float64(seconds),
			nil,
		)
	}
}
