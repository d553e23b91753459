// Package xbrlcache provides a polite, disk-backed HTTP cache for
// fetching XBRL taxonomy documents (schemas, linkbases, EDGAR R-file
// enclosures). Every document is fetched at most once per process: the
// first caller for a URL pays the network round trip under a
// singleflight.Group, and every subsequent fetch (in this process or a
// later one) reads the on-disk mirror.
package xbrlcache

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DiskCache is a URL -> filesystem-path mirror with retry/backoff
// fetching and a politeness delay between live requests. A cache hit
// never touches the network; a cache miss is coalesced across
// concurrent callers for the same URL via singleflight.
type DiskCache struct {
	baseDir       string
	client        *retryablehttp.Client
	logger        *zap.Logger
	headers       map[string]string
	backoffFactor float64

	group singleflight.Group

	mu        sync.Mutex // serializes the politeness delay gap below
	minDelay  time.Duration
	lastFetch time.Time
}

// Option configures a DiskCache at construction time.
type Option func(*DiskCache)

// WithLogger overrides the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *DiskCache) { c.logger = logger }
}

// WithHeaders sets headers (e.g. a User-Agent, as EDGAR requires) sent
// with every outbound request.
func WithHeaders(headers map[string]string) Option {
	return func(c *DiskCache) {
		c.headers = make(map[string]string, len(headers))
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithMinDelay sets the minimum wall-clock gap enforced between any two
// live HTTP requests issued by this cache (a cache-hit path never waits).
func WithMinDelay(d time.Duration) Option {
	return func(c *DiskCache) { c.minDelay = d }
}

// WithRetryMax overrides the default retry count for 5xx/network errors.
func WithRetryMax(n int) Option {
	return func(c *DiskCache) { c.client.RetryMax = n }
}

// WithBackoffFactor overrides the backoff_factor multiplier applied
// between retries: wait time is backoff_factor * 2^(attempt-1) seconds,
// capped at RetryWaitMax. The default factor is 0.8.
func WithBackoffFactor(factor float64) Option {
	return func(c *DiskCache) { c.backoffFactor = factor }
}

// NewDiskCache returns a DiskCache rooted at baseDir (created if absent),
// with sane retry/backoff defaults: 5 retries, a backoff_factor of 0.8
// capped at 30s, and a 500ms politeness delay between live fetches.
func NewDiskCache(baseDir string, opts ...Option) (*DiskCache, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("xbrlcache: create base dir: %w", err)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 5
	client.RetryWaitMax = 30 * time.Second
	client.Logger = nil // replaced by our zap-backed RequestLogHook below

	c := &DiskCache{
		baseDir:       baseDir,
		client:        client,
		logger:        zap.NewNop(),
		minDelay:      500 * time.Millisecond,
		backoffFactor: 0.8,
	}

	for _, opt := range opts {
		opt(c)
	}

	client.Backoff = exponentialBackoff(c.backoffFactor)
	client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			c.logger.Warn("retrying fetch", zap.String("url", req.URL.String()), zap.Int("attempt", attempt))
		}
	}

	return c, nil
}

// exponentialBackoff returns a retryablehttp.Backoff computing
// backoff_factor * 2^(attempt-1) seconds, capped at max, matching the
// polite-fetch formula: the first retry (attemptNum 0) waits one factor's
// worth of seconds, doubling on each subsequent attempt.
func exponentialBackoff(factor float64) retryablehttp.Backoff {
	return func(_, max time.Duration, attemptNum int, _ *http.Response) time.Duration {
		wait := factor * math.Pow(2, float64(attemptNum)) * float64(time.Second)
		if wait > float64(max) {
			return max
		}
		return time.Duration(wait)
	}
}

// pathFor maps a URL to a file path under baseDir, mirroring the URL's
// host and path components so cached files are inspectable by hand.
func (c *DiskCache) pathFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("xbrlcache: parse url %q: %w", rawURL, err)
	}
	segs := []string{c.baseDir, sanitizeSegment(u.Host)}
	p := strings.Trim(u.Path, "/")
	if p == "" {
		p = "index"
	}
	for _, seg := range strings.Split(p, "/") {
		segs = append(segs, sanitizeSegment(seg))
	}
	return filepath.Join(segs...), nil
}

// isLocalPath reports whether rawURL should be read straight off the
// local filesystem rather than fetched over HTTP: no scheme, or an
// explicit "file" scheme.
func isLocalPath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	return u.Scheme == "" || u.Scheme == "file"
}

func sanitizeSegment(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Fetch returns a reader over the bytes at url, serving a cached copy
// from disk when present and fetching (with retry/backoff, politeness
// delay, and singleflight coalescing) otherwise.
func (c *DiskCache) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if isLocalPath(rawURL) {
		f, err := os.Open(rawURL)
		if err != nil {
			return nil, &RemoteFetchError{URL: rawURL, Err: err}
		}
		return f, nil
	}

	path, err := c.pathFor(rawURL)
	if err != nil {
		return nil, err
	}

	if f, err := os.Open(path); err == nil {
		return f, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("xbrlcache: open cached file: %w", err)
	}

	_, err, _ = c.group.Do(rawURL, func() (interface{}, error) {
		return nil, c.fetchAndStore(ctx, rawURL, path)
	})
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xbrlcache: open freshly fetched file: %w", err)
	}
	return f, nil
}

func (c *DiskCache) fetchAndStore(ctx context.Context, rawURL, path string) error {
	c.awaitPoliteness()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("xbrlcache: build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &RemoteFetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &RemoteFetchError{URL: rawURL, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("xbrlcache: create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("xbrlcache: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("xbrlcache: write cached body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("xbrlcache: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("xbrlcache: rename into place: %w", err)
	}

	c.logger.Debug("fetched", zap.String("url", rawURL), zap.String("path", path))
	return nil
}

// awaitPoliteness blocks until at least minDelay has elapsed since the
// previous live request was issued, serializing fetches across goroutines
// on a single process-wide mutex so concurrent discovery never bursts a
// taxonomy host with parallel requests.
func (c *DiskCache) awaitPoliteness() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gap := c.minDelay - time.Since(c.lastFetch); gap > 0 {
		time.Sleep(gap)
	}
	c.lastFetch = time.Now()
}

// RemoteFetchError reports a fatal network or HTTP-status failure.
// Structurally identical to pkg/xbrl's error of the same name so callers
// can type-assert either without this package importing pkg/xbrl.
type RemoteFetchError struct {
	URL string
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("xbrlcache: fetch %s: %v", e.URL, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }
