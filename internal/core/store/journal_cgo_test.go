//go:build cgo

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/catwhisperingninja/cat-dexscreener/internal/config"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
)

func openMemoryStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	db, err := Open(ctx, config.StoreConfig{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func journalEntry(callID string, requestedAt time.Time) core.JournalEntry {
	return core.JournalEntry{
		CallID:      callID,
		Operation:   "search_pairs",
		Class:       "dex-data",
		StatusCode:  200,
		DurationMS:  42,
		RequestedAt: requestedAt,
	}
}

func TestRecordAndListCalls(t *testing.T) {
	db := openMemoryStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.RecordCall(ctx, journalEntry("call-1", now.Add(-2*time.Minute))))
	require.NoError(t, db.RecordCall(ctx, journalEntry("call-2", now.Add(-time.Minute))))

	failed := core.JournalEntry{
		CallID:      "call-3",
		Operation:   "get_pair",
		Class:       "dex-data",
		FailureKind: "rate_limited",
		DurationMS:  7,
		RequestedAt: now,
	}
	require.NoError(t, db.RecordCall(ctx, failed))

	entries, err := db.ListCalls(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	require.Equal(t, "call-3", entries[0].CallID)
	require.Equal(t, "rate_limited", entries[0].FailureKind)
	require.Equal(t, 0, entries[0].StatusCode)
	require.Equal(t, "call-1", entries[2].CallID)
	require.Equal(t, 200, entries[2].StatusCode)
}

func TestRecordCallDuplicateIgnored(t *testing.T) {
	db := openMemoryStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, db.RecordCall(ctx, journalEntry("call-1", now)))
	require.NoError(t, db.RecordCall(ctx, journalEntry("call-1", now)))

	entries, err := db.ListCalls(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRecordCallValidation(t *testing.T) {
	db := openMemoryStore(t)
	ctx := context.Background()

	err := db.RecordCall(ctx, core.JournalEntry{Operation: "search_pairs"})
	require.Error(t, err)

	err = db.RecordCall(ctx, core.JournalEntry{CallID: "call-1"})
	require.Error(t, err)
}

func TestListCallsOperationFilterAndLimit(t *testing.T) {
	db := openMemoryStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, db.RecordCall(ctx, journalEntry("call-1", now.Add(-3*time.Minute))))
	require.NoError(t, db.RecordCall(ctx, journalEntry("call-2", now.Add(-2*time.Minute))))

	other := journalEntry("call-3", now.Add(-time.Minute))
	other.Operation = "get_pair"
	require.NoError(t, db.RecordCall(ctx, other))

	entries, err := db.ListCalls(ctx, "search_pairs", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.Equal(t, "search_pairs", entry.Operation)
	}

	entries, err = db.ListCalls(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "call-3", entries[0].CallID)
}

func TestPruneCalls(t *testing.T) {
	db := openMemoryStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, db.RecordCall(ctx, journalEntry("old-1", now.Add(-48*time.Hour))))
	require.NoError(t, db.RecordCall(ctx, journalEntry("old-2", now.Add(-25*time.Hour))))
	require.NoError(t, db.RecordCall(ctx, journalEntry("fresh", now)))

	pruned, err := db.PruneCalls(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(2), pruned)

	entries, err := db.ListCalls(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "fresh", entries[0].CallID)
}

func TestCheckHealth(t *testing.T) {
	db := openMemoryStore(t)
	require.NoError(t, db.CheckHealth(context.Background()))
}
