package xbrlcache

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// MemCache is an ephemeral, in-memory Fetcher: it coalesces concurrent
// fetches for the same URL exactly like DiskCache, but never touches
// disk and forgets everything once the process exits. It satisfies the
// same Fetch(ctx, url) shape as DiskCache, so either can stand in for a
// pkg/xbrl.Fetcher. Intended for short-lived tools and tests that
// resolve a DTS once and never again.
type MemCache struct {
	httpClient *http.Client

	mu    sync.RWMutex
	bytes map[string][]byte

	group singleflight.Group
}

// NewMemCache returns a MemCache using http.DefaultClient for fetches. It
// has no retry/backoff and no politeness delay: it is meant for small,
// one-shot resolutions where that overhead buys nothing.
func NewMemCache() *MemCache {
	return &MemCache{
		httpClient: http.DefaultClient,
		bytes:      make(map[string][]byte),
	}
}

// Fetch returns a reader over the bytes at url, fetching once per URL for
// the lifetime of the MemCache.
func (m *MemCache) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	m.mu.RLock()
	if b, ok := m.bytes[rawURL]; ok {
		m.mu.RUnlock()
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	m.mu.RUnlock()

	v, err, _ := m.group.Do(rawURL, func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := m.httpClient.Do(req)
		if err != nil {
			return nil, &RemoteFetchError{URL: rawURL, Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return nil, &RemoteFetchError{URL: rawURL, Err: errStatus(resp.StatusCode)}
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.bytes[rawURL] = b
		m.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(v.([]byte))), nil
}

type httpStatusError int

func (e httpStatusError) Error() string { return "http status " + strconv.Itoa(int(e)) }

func errStatus(code int) error { return httpStatusError(code) }
