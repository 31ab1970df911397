// Package httputil provides HTTP utilities for remote asset fetching.
//
// # Overview
//
// This package provides infrastructure used when paper templates or fonts
// reference assets by URL:
//
//   - [Fetcher]: HTTP asset download with status-code aware error mapping
//   - [Cache]: File-based download caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores downloaded assets in the filesystem (~/.cache/scrawl/)
// with configurable TTL. This dramatically speeds up repeated renders
// against the same remote catalog and keeps re-runs usable offline.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, err := cache.Get("paper:blank-1", &data) // Check cache
//	if !ok {
//	    data = fetchFromCDN()
//	    cache.Set("paper:blank-1", data) // Store for later
//	}
//
// Cache keys should be namespaced by asset kind to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// It uses exponential backoff to avoid hammering a struggling CDN:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    data, err = fetcher.Fetch(ctx, url)
//	    return err
//	})
//
// 404 responses are permanent failures and are never retried; the
// progressive loader treats them as a signal to fall back to another
// quality tier or the placeholder.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/scrawl/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `scrawl cache clear` or by deleting
// the cache directory.
package httputil
