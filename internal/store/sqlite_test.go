package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrad-tracker/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadSplitsEmptyOnFreshDatabase(t *testing.T) {
	s := newTestStore(t)

	splits, err := s.LoadSplits(context.Background())
	require.NoError(t, err)
	assert.Empty(t, splits)
}

func TestSaveAndLoadSplits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []models.StockSplit{
		{ID: "sp1", Security: "ACL.N0000", SplitDate: "2024-02-01", Ratio: 2},
		{ID: "sp2", Security: "JKH.N0000", SplitDate: "2024-05-10", SplitDateTime: "2024-05-10 09:00:00", Ratio: 1.5},
	}
	require.NoError(t, s.SaveSplits(ctx, in))

	out, err := s.LoadSplits(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveSplitsReplacesPreviousList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSplits(ctx, []models.StockSplit{
		{ID: "sp1", Security: "ACL.N0000", SplitDate: "2024-02-01", Ratio: 2},
	}))
	require.NoError(t, s.SaveSplits(ctx, []models.StockSplit{
		{ID: "sp2", Security: "JKH.N0000", SplitDate: "2024-05-10", Ratio: 3},
	}))

	out, err := s.LoadSplits(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "sp2", out[0].ID)
}

func TestSaveEmptyListRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSplits(ctx, []models.StockSplit{
		{ID: "sp1", Security: "ACL.N0000", SplitDate: "2024-02-01", Ratio: 2},
	}))
	require.NoError(t, s.SaveSplits(ctx, []models.StockSplit{}))

	out, err := s.LoadSplits(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}
