package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meta(user, text string) map[string]string {
	return map[string]string{MetaUserID: user, MetaText: text}
}

func TestStore_QueryEmptyCollection(t *testing.T) {
	s := NewMemoryStore()

	matches, err := s.Query(context.Background(), []float32{1, 0, 0}, 5, "u1")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_QueryRanksAndScopes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.Upsert(ctx, "a", []float32{1, 0, 0}, meta("u1", "I love tea"))
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.Upsert(ctx, "b", []float32{0, 1, 0}, meta("u1", "I ride a bike"))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, "c", []float32{1, 0, 0}, meta("u2", "someone else"))
	require.NoError(t, err)

	matches, err := s.Query(ctx, []float32{0.9, 0.1, 0}, 5, "u1")
	require.NoError(t, err)
	require.Len(t, matches, 2, "topK clamped to collection size")
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "I love tea", matches[0].Text)
	assert.Equal(t, "u1", matches[0].UserID)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Upsert(ctx, "a", []float32{1, 0}, meta("u1", "old"))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, "a", []float32{0, 1}, meta("u1", "new"))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count("u1"))
	matches, err := s.Query(ctx, []float32{0, 1}, 1, "u1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Text)
}

func TestStore_UpsertRequiresUser(t *testing.T) {
	ok, err := NewMemoryStore().Upsert(context.Background(), "a", []float32{1}, map[string]string{MetaText: "x"})
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestStore_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := NewPersistentStore(dir)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, "a", []float32{1, 0}, meta("u1", "kept"))
	require.NoError(t, err)

	reopened, err := NewPersistentStore(dir)
	require.NoError(t, err)
	matches, err := reopened.Query(ctx, []float32{1, 0}, 3, "u1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "kept", matches[0].Text)
}
