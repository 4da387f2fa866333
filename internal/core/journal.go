package core

import "time"

// JournalEntry is one row of the invocation journal. It records that a call
// happened and how it ended; upstream payloads are never stored.
type JournalEntry struct {
	CallID      string    `json:"call_id"`
	Operation   string    `json:"operation"`
	Class       string    `json:"class"`
	StatusCode  int       `json:"status_code,omitempty"`
	FailureKind string    `json:"failure_kind,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	RequestedAt time.Time `json:"requested_at"`
}
