package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndListByUser(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "imports.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, Record{
		ID: "r1", UserID: "u1", Filename: "a.csv",
		Fills: 10, Trades: 4, Unmatched: 1, Rejections: 2,
		CreatedAt: 100,
	}))
	require.NoError(t, s.Insert(ctx, Record{
		ID: "r2", UserID: "u1", Filename: "b.csv", CreatedAt: 200,
	}))
	require.NoError(t, s.Insert(ctx, Record{
		ID: "r3", UserID: "u2", Filename: "c.csv", CreatedAt: 300,
	}))

	recs, err := s.ListByUser(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "r2", recs[0].ID) // 最近的在前
	assert.Equal(t, "r1", recs[1].ID)
	assert.Equal(t, 4, recs[1].Trades)
	assert.Equal(t, 1, recs[1].Unmatched)
}

func TestInsertFillsCreatedAt(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "imports.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, Record{ID: "r1", UserID: "u1", Filename: "a.csv"}))
	recs, err := s.ListByUser(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotZero(t, recs[0].CreatedAt)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "imports.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Error(t, s.Insert(context.Background(), Record{ID: "r1", UserID: "u1", Filename: "a.csv"}))
}
