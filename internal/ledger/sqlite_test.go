package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cre8worthy/appraise-cli/internal/model"
)

func newTestInteractions(t *testing.T) *SQLiteInteractions {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteInteractions(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_RecordAndList(t *testing.T) {
	s := newTestInteractions(t)
	ctx := context.Background()

	err := s.Record(ctx, model.Interaction{
		Kind:     "market_demand",
		Prompt:   "Rate from 1 to 10",
		Response: "7",
		Duration: 1200 * time.Millisecond,
	})
	require.NoError(t, err)

	got, err := s.Interactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, "market_demand", got[0].Kind)
	assert.Equal(t, "7", got[0].Response)
	assert.InDelta(t, 1.2, got[0].Duration.Seconds(), 0.001)
}

func TestSQLite_OrderIsReverseChronological(t *testing.T) {
	s := newTestInteractions(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Record(ctx, model.Interaction{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Kind:      "general",
			Prompt:    "p",
			Response:  string(rune('a' + i)),
		}))
	}

	got, err := s.Interactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Response)
	assert.Equal(t, "b", got[1].Response)
	assert.Equal(t, "a", got[2].Response)
}

func TestSQLite_OrderWithinSameSecond(t *testing.T) {
	s := newTestInteractions(t)
	ctx := context.Background()

	// Fractional seconds where one is a prefix of the other: a trimmed
	// encoding would sort these backwards.
	base := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)
	require.NoError(t, s.Record(ctx, model.Interaction{
		Timestamp: base.Add(500 * time.Millisecond),
		Kind:      "general",
		Prompt:    "p",
		Response:  "older",
	}))
	require.NoError(t, s.Record(ctx, model.Interaction{
		Timestamp: base.Add(510 * time.Millisecond),
		Kind:      "general",
		Prompt:    "p",
		Response:  "newer",
	}))

	got, err := s.Interactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Response)
	assert.Equal(t, "older", got[1].Response)
}

func TestSQLite_FailureRowsAreKept(t *testing.T) {
	s := newTestInteractions(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, model.Interaction{
		Kind:     "market_demand",
		Prompt:   "Rate from 1 to 10",
		Response: "API Error: connection refused",
		Duration: 30 * time.Millisecond,
	}))

	got, err := s.Interactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Response, "API Error")
}

func TestSQLite_EmptyLedger(t *testing.T) {
	s := newTestInteractions(t)

	got, err := s.Interactions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
