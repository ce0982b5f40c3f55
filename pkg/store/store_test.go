package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenTreeIsIdempotentAndShared(t *testing.T) {
	s := openTestStore(t)

	t1, err := s.OpenTree([]byte("foobar"))
	require.NoError(t, err)
	t2, err := s.OpenTree([]byte("foobar"))
	require.NoError(t, err)
	assert.Same(t, t1, t2)
}

func TestInsertGetRemove(t *testing.T) {
	s := openTestStore(t)
	tree, err := s.OpenTree(DefaultTreeName)
	require.NoError(t, err)

	prev, err := tree.Insert([]byte("k1"), []byte("v1"))
	require.NoError(t, err)
	assert.Nil(t, prev)

	value, found, err := tree.Get([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v1"), value)

	prev, err = tree.Insert([]byte("k1"), []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), prev)

	require.NoError(t, tree.Remove([]byte("k1")))
	_, found, err = tree.Get([]byte("k1"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestApplyBatchResetsCountAndIsAtomic(t *testing.T) {
	s := openTestStore(t)
	tree, err := s.OpenTree([]byte("foobarbaz"))
	require.NoError(t, err)

	b := NewBatch()
	b.InsertRaw([]byte("key1"), []byte("value1"))
	b.InsertRaw([]byte("key2"), []byte("value2"))
	assert.Equal(t, uint64(2), b.Count())

	require.NoError(t, tree.ApplyBatch(b))
	assert.Equal(t, uint64(0), b.Count())

	entries, err := tree.Iter()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestApplyBatchEmptyIsNoOp(t *testing.T) {
	s := openTestStore(t)
	tree, err := s.OpenTree(DefaultTreeName)
	require.NoError(t, err)

	require.NoError(t, tree.ApplyBatch(NewBatch()))
}

// TestDestroyPreservesDefault mirrors the seed scenario in spec.md §8.6 and
// original_source/db/src/lib.rs's own destroy test: trees other than
// Default are dropped, and a record in Default survives.
func TestDestroyPreservesDefault(t *testing.T) {
	s := openTestStore(t)

	def, err := s.OpenTree(DefaultTreeName)
	require.NoError(t, err)
	_, err = def.Insert([]byte("key1"), []byte("value1"))
	require.NoError(t, err)

	for _, name := range []string{"foobar", "foobarbaz", "rawkeys"} {
		_, err := s.OpenTree([]byte(name))
		require.NoError(t, err)
	}

	require.NoError(t, s.Destroy())

	entries, err := s.ListValues(DefaultTreeName)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("key1"), entries[0].Key)

	entries, err = s.ListValues([]byte("foobar"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIterIsKeyOrdered(t *testing.T) {
	s := openTestStore(t)
	tree, err := s.OpenTree([]byte("ordered"))
	require.NoError(t, err)

	for _, k := range []string{"c", "a", "b"} {
		_, err := tree.Insert([]byte(k), []byte("v"))
		require.NoError(t, err)
	}

	entries, err := tree.Iter()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []byte("a"), entries[0].Key)
	assert.Equal(t, []byte("b"), entries[1].Key)
	assert.Equal(t, []byte("c"), entries[2].Key)
}
