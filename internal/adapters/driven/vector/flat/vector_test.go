package flat

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_AddAndSearch(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(
		[]string{"a", "b", "c"},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	))

	hits, err := idx.Search([]float32{0.9, 0.1, 0}, 3)
	require.NoError(t, err)

	require.Len(t, hits, 3)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "b", hits[1].ID)
	assert.Equal(t, "c", hits[2].ID)
	assert.Less(t, hits[0].Score, hits[1].Score)
	assert.Less(t, hits[1].Score, hits[2].Score)
}

func TestIndex_SearchTruncatesToK(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(
		[]string{"a", "b", "c"},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	))

	hits, err := idx.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
}

func TestIndex_AddReplacesExisting(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add([]string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, idx.Add([]string{"a"}, [][]float32{{0, 1}}))

	assert.Equal(t, 2, idx.Len())

	hits, err := idx.Search([]float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Score)
}

func TestIndex_AddLengthMismatch(t *testing.T) {
	idx := New()
	err := idx.Add([]string{"a", "b"}, [][]float32{{1, 0}})
	assert.Error(t, err)
}

func TestIndex_SearchDimensionMismatch(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add([]string{"a"}, [][]float32{{1, 0, 0}}))

	_, err := idx.Search([]float32{1, 0}, 1)
	assert.ErrorContains(t, err, "dimension")
}

func TestIndex_SearchEmptyIndex(t *testing.T) {
	idx := New()

	hits, err := idx.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestIndex_Delete(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add(
		[]string{"a", "b", "c"},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	))

	require.NoError(t, idx.Delete([]string{"b", "missing"}))

	assert.Equal(t, 2, idx.Len())
	hits, err := idx.Search([]float32{0, 1, 0}, 3)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "b", h.ID)
	}

	// Slots are rebuilt, so a later add still replaces rather than grows.
	require.NoError(t, idx.Add([]string{"c"}, [][]float32{{0, 1, 0}}))
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.gob")

	idx := New()
	require.NoError(t, idx.Add(
		[]string{"a", "b"},
		[][]float32{{1, 0}, {0, 1}},
	))
	require.NoError(t, idx.Save(path))

	loaded := New()
	require.NoError(t, loaded.Load(path))

	assert.Equal(t, 2, loaded.Len())
	hits, err := loaded.Search([]float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
}

func TestIndex_LoadMissingFile(t *testing.T) {
	idx := New()
	err := idx.Load(filepath.Join(t.TempDir(), "absent.gob"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
