package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damo/twistytimer-core/penalty"
	"github.com/damo/twistytimer-core/solve"
)

func newTestSolve(t *testing.T) solve.Solve {
	t.Helper()
	s, err := solve.New(12300, solve.Cube333, "normal", 1000, "R U R'", penalty.NoPenalties, "")
	require.NoError(t, err)
	return s
}

func TestMemStoreAddAssignsIDAndPersists(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	s := newTestSolve(t)

	id, err := m.Add(ctx, s)
	require.NoError(t, err)
	assert.NotEqual(t, solve.NoID, id)

	got, ok, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got.ID())
	assert.Equal(t, s.ExactTimeMs(), got.ExactTimeMs())
}

func TestMemStoreMintsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	s := newTestSolve(t)

	id1, err := m.Add(ctx, s)
	require.NoError(t, err)
	id2, err := m.Add(ctx, s)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestMemStoreUpdateRequiresExistingID(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	s := newTestSolve(t).WithID(999)
	require.Error(t, m.Update(ctx, s))
}

func TestMemStoreUpdateOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	s := newTestSolve(t)
	id, err := m.Add(ctx, s)
	require.NoError(t, err)

	updated := s.WithID(id).WithComment("nice")
	require.NoError(t, m.Update(ctx, updated))

	got, ok, err := m.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "nice", got.Comment())
}

func TestMemStoreDeleteAndExists(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	s := newTestSolve(t)
	id, err := m.Add(ctx, s)
	require.NoError(t, err)

	ok, err := m.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Delete(ctx, id))

	ok, err = m.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.Error(t, m.Delete(ctx, id))
}

func TestMemStoreGetMissingReportsNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemStore()
	_, ok, err := m.Get(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}
