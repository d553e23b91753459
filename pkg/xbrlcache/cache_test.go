package xbrlcache_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aethiopicuschan/xbrl-go/pkg/xbrlcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskCache_FetchLiveThenCacheHit(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("schema body"))
	}))
	defer srv.Close()

	cache, err := xbrlcache.NewDiskCache(t.TempDir(), xbrlcache.WithMinDelay(0))
	require.NoError(t, err)

	ctx := context.Background()

	rc1, err := cache.Fetch(ctx, srv.URL+"/core.xsd")
	require.NoError(t, err)
	body1, _ := io.ReadAll(rc1)
	rc1.Close()
	assert.Equal(t, "schema body", string(body1))

	rc2, err := cache.Fetch(ctx, srv.URL+"/core.xsd")
	require.NoError(t, err)
	body2, _ := io.ReadAll(rc2)
	rc2.Close()
	assert.Equal(t, "schema body", string(body2))

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second fetch should be served from disk, not the network")
}

func TestDiskCache_FetchErrorsOn4xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache, err := xbrlcache.NewDiskCache(t.TempDir(), xbrlcache.WithMinDelay(0), xbrlcache.WithRetryMax(0))
	require.NoError(t, err)

	_, err = cache.Fetch(context.Background(), srv.URL+"/missing.xsd")
	require.Error(t, err)

	var rfe *xbrlcache.RemoteFetchError
	assert.ErrorAs(t, err, &rfe)
}

func TestDiskCache_FetchLocalPathShortCircuits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	localFile := filepath.Join(dir, "local.xsd")
	require.NoError(t, os.WriteFile(localFile, []byte("local content"), 0o644))

	cache, err := xbrlcache.NewDiskCache(t.TempDir(), xbrlcache.WithMinDelay(0))
	require.NoError(t, err)

	rc, err := cache.Fetch(context.Background(), localFile)
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "local content", string(body))
}

func TestDiskCache_PolitenessDelayBetweenLiveFetches(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	const delay = 50 * time.Millisecond
	cache, err := xbrlcache.NewDiskCache(t.TempDir(), xbrlcache.WithMinDelay(delay))
	require.NoError(t, err)

	ctx := context.Background()
	start := time.Now()

	_, err = cache.Fetch(ctx, srv.URL+"/a.xsd")
	require.NoError(t, err)
	_, err = cache.Fetch(ctx, srv.URL+"/b.xsd")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), delay)
}

func TestDiskCache_RetriesUpToRetryMaxThenFails(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache, err := xbrlcache.NewDiskCache(t.TempDir(),
		xbrlcache.WithMinDelay(0),
		xbrlcache.WithRetryMax(2),
		xbrlcache.WithBackoffFactor(0.01),
	)
	require.NoError(t, err)

	_, err = cache.Fetch(context.Background(), srv.URL+"/flaky.xsd")
	require.Error(t, err)

	// RetryMax=2 means the initial attempt plus 2 retries: 3 hits total.
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestDiskCache_RecoversAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	cache, err := xbrlcache.NewDiskCache(t.TempDir(),
		xbrlcache.WithMinDelay(0),
		xbrlcache.WithRetryMax(3),
		xbrlcache.WithBackoffFactor(0.01),
	)
	require.NoError(t, err)

	rc, err := cache.Fetch(context.Background(), srv.URL+"/flaky.xsd")
	require.NoError(t, err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestDiskCache_ConcurrentFetchesAreCoalesced(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte("body"))
	}))
	defer srv.Close()

	cache, err := xbrlcache.NewDiskCache(t.TempDir(), xbrlcache.WithMinDelay(0))
	require.NoError(t, err)

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			rc, err := cache.Fetch(context.Background(), srv.URL+"/shared.xsd")
			if err == nil {
				rc.Close()
			}
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
