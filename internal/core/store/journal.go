package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
)

// RecordCall appends one entry to the invocation journal.
func (s *Store) RecordCall(ctx context.Context, entry core.JournalEntry) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if strings.TrimSpace(entry.CallID) == "" {
		return errors.New("call id is required")
	}
	if strings.TrimSpace(entry.Operation) == "" {
		return errors.New("operation is required")
	}

	var statusCode sql.NullInt64
	if entry.StatusCode != 0 {
		statusCode = sql.NullInt64{Int64: int64(entry.StatusCode), Valid: true}
	}
	var failureKind sql.NullString
	if entry.FailureKind != "" {
		failureKind = sql.NullString{String: entry.FailureKind, Valid: true}
	}

	requestedAt := entry.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = time.Now().UTC()
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO call_journal (call_id, operation, class, status_code, failure_kind, duration_ms, requested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(call_id) DO NOTHING
	`, entry.CallID, entry.Operation, entry.Class, statusCode, failureKind, entry.DurationMS, requestedAt.Unix())
	if err != nil {
		return fmt.Errorf("record call: %w", err)
	}

	return nil
}

// ListCalls returns the most recent journal entries, newest first. An
// optional operation filter narrows the listing; limit caps the row count.
func (s *Store) ListCalls(ctx context.Context, operation string, limit int) ([]core.JournalEntry, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT call_id, operation, class, status_code, failure_kind, duration_ms, requested_at
		FROM call_journal
	`
	args := []any{}

	operation = strings.TrimSpace(operation)
	if operation != "" {
		query += " WHERE operation = ?"
		args = append(args, operation)
	}

	query += " ORDER BY requested_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	var entries []core.JournalEntry
	for rows.Next() {
		var (
			entry       core.JournalEntry
			statusCode  sql.NullInt64
			failureKind sql.NullString
			requestedAt int64
		)
		if err := rows.Scan(&entry.CallID, &entry.Operation, &entry.Class, &statusCode, &failureKind, &entry.DurationMS, &requestedAt); err != nil {
			return nil, fmt.Errorf("scan call journal row: %w", err)
		}
		if statusCode.Valid {
			entry.StatusCode = int(statusCode.Int64)
		}
		if failureKind.Valid {
			entry.FailureKind = failureKind.String
		}
		entry.RequestedAt = time.Unix(requestedAt, 0).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate call journal: %w", err)
	}

	return entries, nil
}

// PruneCalls deletes journal entries older than the cutoff and reports how
// many rows were removed.
func (s *Store) PruneCalls(ctx context.Context, olderThan time.Time) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.DB.ExecContext(ctx, `
		DELETE FROM call_journal WHERE requested_at < ?
	`, olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune calls: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune calls: %w", err)
	}

	return removed, nil
}
