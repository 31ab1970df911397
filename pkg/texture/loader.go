package texture

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/httputil"
)

// Loader fetches the raw bytes of one asset by reference. A Loader makes
// a single attempt and does not retry; retry and fallback policy belong
// to the ProgressiveLoader so attempts are never multiplied.
type Loader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

// HTTPLoader fetches assets over HTTP through a shared Fetcher. The
// fetcher's download cache (when configured) still applies, so repeated
// loads of an immutable asset hit disk instead of the network.
type HTTPLoader struct {
	Fetcher *httputil.Fetcher

	// Refresh bypasses the download cache and always re-fetches.
	Refresh bool
}

// Load performs a single GET for the asset. A 404 maps to NOT_FOUND so
// callers can fall to the next tier; transport and 5xx failures keep
// their retryable classification for the progressive loader's retry loop.
func (l *HTTPLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	data, err := l.Fetcher.FetchOnce(ctx, ref, l.Refresh)
	if err != nil {
		if stderrors.Is(err, httputil.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "asset %s", ref)
		}
		return nil, err
	}
	return data, nil
}

// FileLoader reads assets from the local filesystem. Relative references
// resolve against BaseDir; absolute references are rejected so a catalog
// cannot point outside its asset directory.
type FileLoader struct {
	BaseDir string
}

// Load reads the asset file. A missing file maps to NOT_FOUND so tier
// fallback treats local and remote assets uniformly.
func (l *FileLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filepath.IsAbs(ref) {
		return nil, errors.New(errors.ErrCodeInvalidPath, "asset ref must be relative: %s", ref)
	}
	data, err := os.ReadFile(filepath.Join(l.BaseDir, filepath.FromSlash(ref)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "asset %s", ref)
		}
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "asset %s", ref)
	}
	return data, nil
}

// MapLoader serves assets from an in-memory map, keyed by reference.
// Used for built-in assets and in tests.
type MapLoader map[string][]byte

func (l MapLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := l[ref]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "asset %s", ref)
	}
	return data, nil
}

// RefLoader routes each reference to an HTTP or file loader by scheme.
// This is the loader the CLI wires up: catalogs may mix hosted scans with
// assets shipped next to the catalog file.
type RefLoader struct {
	HTTP *HTTPLoader
	File *FileLoader
}

// downloadTTL bounds how long a downloaded asset is reused before it is
// fetched again. Paper scans are immutable in practice; a day keeps a
// renamed-in-place asset from going stale forever.
const downloadTTL = 24 * time.Hour

// NewRefLoader builds the standard scheme-routing loader: HTTP with a
// fetcher backed by the on-disk download cache, files resolved against
// baseDir. When the cache directory cannot be created (no home
// directory) remote assets are simply fetched uncached.
func NewRefLoader(baseDir string) *RefLoader {
	dl, err := httputil.NewCache("", downloadTTL)
	if err != nil {
		dl = nil
	}
	return &RefLoader{
		HTTP: &HTTPLoader{Fetcher: httputil.NewFetcher(dl, nil)},
		File: &FileLoader{BaseDir: baseDir},
	}
}

func (l *RefLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if isURL(ref) {
		if l.HTTP == nil {
			return nil, errors.New(errors.ErrCodeLoadFailed, "no HTTP loader configured for %s", ref)
		}
		return l.HTTP.Load(ctx, ref)
	}
	if l.File == nil {
		return nil, errors.New(errors.ErrCodeLoadFailed, "no file loader configured for %s", ref)
	}
	return l.File.Load(ctx, ref)
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
