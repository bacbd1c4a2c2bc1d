package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swappingStore interface {
	KeyValueStore
	Swapper
}

func storesUnderTest(t *testing.T) map[string]swappingStore {
	t.Helper()

	bunt, err := NewBuntStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunt.Close() })

	return map[string]swappingStore{
		"memory": NewMemoryStore(),
		"bunt":   bunt,
	}
}

func TestKeyValueStoreRoundTrip(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("k", "v1"))
			v, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v1", v)

			require.NoError(t, s.Set("k", "v2"))
			v, _, _ = s.Get("k")
			assert.Equal(t, "v2", v)

			require.NoError(t, s.Remove("k"))
			_, ok, _ = s.Get("k")
			assert.False(t, ok)

			require.NoError(t, s.Remove("k"), "removing an absent key is a no-op")
		})
	}
}

func TestKeyValueStoreCompareAndSwap(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			swapped, err := s.CompareAndSwap("counter", "", "1")
			require.NoError(t, err)
			assert.True(t, swapped, "empty expected matches an absent key")

			swapped, err = s.CompareAndSwap("counter", "0", "2")
			require.NoError(t, err)
			assert.False(t, swapped)

			swapped, err = s.CompareAndSwap("counter", "1", "2")
			require.NoError(t, err)
			assert.True(t, swapped)

			v, _, _ := s.Get("counter")
			assert.Equal(t, "2", v)
		})
	}
}

func TestBuntStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "search.db")

	s, err := NewBuntStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("history", `[{"query":"sal"}]`))
	require.NoError(t, s.Close())

	reopened, err := NewBuntStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"query":"sal"}]`, v)
}
