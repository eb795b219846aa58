package cache

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls int64
	body  []byte
}

func (f *countingFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.body, nil
}

func TestStorePutGet(t *testing.T) {
	store, err := Open(":memory:", time.Hour)
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get("http://example.org/a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put("http://example.org/a", []byte("payload")))
	body, ok, err := store.Get("http://example.org/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), body)

	// Overwrite.
	require.NoError(t, store.Put("http://example.org/a", []byte("fresher")))
	body, ok, err = store.Get("http://example.org/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("fresher"), body)
}

func TestStoreExpiry(t *testing.T) {
	store, err := Open(":memory:", time.Nanosecond)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("u", []byte("stale")))
	time.Sleep(time.Millisecond)
	_, ok, err := store.Get("u")
	require.NoError(t, err)
	assert.False(t, ok, "entry older than the freshness window must miss")

	require.NoError(t, store.Prune())
}

func TestStoreNeverExpires(t *testing.T) {
	store, err := Open(":memory:", -1)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("u", []byte("forever")))
	_, ok, err := store.Get("u")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStoreDisabled(t *testing.T) {
	store, err := Open(":memory:", 0)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("u", []byte("dropped")))
	_, ok, err := store.Get("u")
	require.NoError(t, err)
	assert.False(t, ok, "zero expiry stores nothing")
}

func TestStoreOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := Open(path, time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Put("u", []byte("persisted")))
	require.NoError(t, store.Close())

	// Reopen and read back.
	store, err = Open(path, time.Hour)
	require.NoError(t, err)
	defer store.Close()
	body, ok, err := store.Get("u")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("persisted"), body)
}

func TestCachingFetcher(t *testing.T) {
	store, err := Open(":memory:", time.Hour)
	require.NoError(t, err)
	defer store.Close()

	inner := &countingFetcher{body: []byte("listing")}
	fetcher := NewCachingFetcher(store, inner)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		body, err := fetcher.Fetch(ctx, "http://example.org/toc")
		require.NoError(t, err)
		assert.Equal(t, []byte("listing"), body)
	}
	assert.EqualValues(t, 1, inner.calls, "second and third fetch must hit the cache")
}
