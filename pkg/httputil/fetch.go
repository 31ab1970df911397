package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const fetchTimeout = 10 * time.Second

// maxAssetSize caps a single downloaded asset at 32 MiB. Paper scans and
// handwriting fonts are far below this; anything larger is a broken ref.
const maxAssetSize = 32 << 20

var (
	// ErrNotFound is returned when an asset doesn't exist at its reference.
	ErrNotFound = errors.New("asset not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the standard asset-fetch timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// Fetcher downloads raw asset bytes over HTTP with optional download caching.
// It handles retry classification and common request headers; the progressive
// texture loader decides fallback policy on top of the errors it returns.
type Fetcher struct {
	http    *http.Client
	cache   *Cache
	headers map[string]string
}

// NewFetcher creates a Fetcher with the given download cache and default headers.
// Pass nil for cache to disable download caching and nil for headers if no
// default headers are needed.
func NewFetcher(cache *Cache, headers map[string]string) *Fetcher {
	return &Fetcher{
		http:    NewHTTPClient(),
		cache:   cache,
		headers: headers,
	}
}

// Fetch performs an HTTP GET and returns the response body bytes.
//
// Error classification:
//   - 404 maps to [ErrNotFound] and is never retried
//   - transport failures and 5xx responses are wrapped in [RetryableError]
//     so that [Retry] attempts them again
//   - other non-200 statuses map to [ErrNetwork] without retry
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("%w: asset exceeds %d bytes", ErrNetwork, maxAssetSize)
	}
	return data, nil
}

// FetchOnce retrieves asset bytes from the download cache, or performs a
// single fetch attempt and caches the result. If refresh is true the
// cache is bypassed and the asset is always re-fetched. There is no
// retry here: the progressive texture loader owns the retry policy and
// wraps FetchOnce in [Retry], so attempt counts are never multiplied.
func (f *Fetcher) FetchOnce(ctx context.Context, url string, refresh bool) ([]byte, error) {
	if f.cache != nil && !refresh {
		var data []byte
		if ok, _ := f.cache.Get(url, &data); ok {
			return data, nil
		}
	}

	data, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		_ = f.cache.Set(url, data)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
