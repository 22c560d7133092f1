package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract exercises the behavior every Store must share.
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("fetch computes on miss and caches", func(t *testing.T) {
		calls := 0
		compute := func() ([]byte, error) {
			calls++
			return []byte("payload"), nil
		}

		v, err := store.Fetch(ctx, "evm:project/p1:v1:a", compute)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), v)

		v, err = store.Fetch(ctx, "evm:project/p1:v1:a", compute)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), v)
		assert.Equal(t, 1, calls)
	})

	t.Run("compute error stores nothing", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := store.Fetch(ctx, "evm:project/p1:v1:bad", func() ([]byte, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		v, err := store.Fetch(ctx, "evm:project/p1:v1:bad", func() ([]byte, error) {
			return []byte("recovered"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("recovered"), v)
	})

	t.Run("delete removes one entry", func(t *testing.T) {
		_, err := store.Fetch(ctx, "evm:project/p2:v1:x", func() ([]byte, error) {
			return []byte("old"), nil
		})
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, "evm:project/p2:v1:x"))

		v, err := store.Fetch(ctx, "evm:project/p2:v1:x", func() ([]byte, error) {
			return []byte("new"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)
	})

	t.Run("delete matching sweeps by substring", func(t *testing.T) {
		seed := func(key string) {
			_, err := store.Fetch(ctx, key, func() ([]byte, error) {
				return []byte("v"), nil
			})
			require.NoError(t, err)
		}
		seed("evm:project/p3:v1:a")
		seed("evm:project/p3/member/alice:v1:a")
		seed("evm:project/p4:v1:a")

		removed, err := store.DeleteMatching(ctx, "project/p3")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		// Unrelated entries survive.
		calls := 0
		_, err = store.Fetch(ctx, "evm:project/p4:v1:a", func() ([]byte, error) {
			calls++
			return []byte("v"), nil
		})
		require.NoError(t, err)
		assert.Zero(t, calls)
	})
}

func TestMemoryStoreContract(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	storeContract(t, store)
}

func TestBadgerStoreContract(t *testing.T) {
	store, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	storeContract(t, store)
}
