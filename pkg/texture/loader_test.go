package texture

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/httputil"
)

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "paper.png"), []byte("fake-png"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	loader := &FileLoader{BaseDir: dir}
	data, err := loader.Load(context.Background(), "paper.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "fake-png" {
		t.Errorf("Load() = %q, want fake-png", data)
	}
}

func TestFileLoader_Missing(t *testing.T) {
	loader := &FileLoader{BaseDir: t.TempDir()}
	_, err := loader.Load(context.Background(), "missing.png")
	if err == nil {
		t.Fatal("Load() should fail for missing file")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeFileNotFound {
		t.Errorf("Load() code = %v, want FILE_NOT_FOUND", got)
	}
}

func TestFileLoader_AbsoluteRefRejected(t *testing.T) {
	loader := &FileLoader{BaseDir: t.TempDir()}
	_, err := loader.Load(context.Background(), "/etc/passwd")
	if err == nil {
		t.Fatal("Load() should reject absolute refs")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidPath {
		t.Errorf("Load() code = %v, want INVALID_PATH", got)
	}
}

func TestMapLoader(t *testing.T) {
	loader := MapLoader{"builtin/blank.png": []byte("data")}

	data, err := loader.Load(context.Background(), "builtin/blank.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "data" {
		t.Errorf("Load() = %q, want data", data)
	}

	if _, err := loader.Load(context.Background(), "nope"); errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("Load(missing) code = %v, want NOT_FOUND", errors.GetCode(err))
	}
}

func TestMapLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (MapLoader{}).Load(ctx, "x"); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestHTTPLoader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("asset-bytes"))
	}))
	defer server.Close()

	loader := &HTTPLoader{Fetcher: httputil.NewFetcher(nil, nil)}
	data, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != "asset-bytes" {
		t.Errorf("Load() = %q, want asset-bytes", data)
	}
}

func TestHTTPLoader_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	loader := &HTTPLoader{Fetcher: httputil.NewFetcher(nil, nil)}
	_, err := loader.Load(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Load() should fail on 404")
	}
	if got := errors.GetCode(err); got != errors.ErrCodeNotFound {
		t.Errorf("Load() code = %v, want NOT_FOUND", got)
	}

	var retryable *httputil.RetryableError
	if stderrors.As(err, &retryable) {
		t.Error("404 must not be retryable")
	}
}

func TestHTTPLoader_ServerErrorRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	loader := &HTTPLoader{Fetcher: httputil.NewFetcher(nil, nil)}
	_, err := loader.Load(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Load() should fail on 500")
	}

	var retryable *httputil.RetryableError
	if !stderrors.As(err, &retryable) {
		t.Errorf("500 should stay retryable, got %v", err)
	}
}

func TestRefLoader_Routing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "local.png"), []byte("local"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote"))
	}))
	defer server.Close()

	loader := &RefLoader{
		HTTP: &HTTPLoader{Fetcher: httputil.NewFetcher(nil, nil)},
		File: &FileLoader{BaseDir: dir},
	}

	remote, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Load(url) error = %v", err)
	}
	if string(remote) != "remote" {
		t.Errorf("Load(url) = %q, want remote", remote)
	}

	local, err := loader.Load(context.Background(), "local.png")
	if err != nil {
		t.Fatalf("Load(path) error = %v", err)
	}
	if string(local) != "local" {
		t.Errorf("Load(path) = %q, want local", local)
	}
}

func TestRefLoader_Unconfigured(t *testing.T) {
	loader := &RefLoader{}
	if _, err := loader.Load(context.Background(), "https://example.com/a.png"); err == nil {
		t.Error("Load(url) without HTTP loader should error")
	}
	if _, err := loader.Load(context.Background(), "a.png"); err == nil {
		t.Error("Load(path) without file loader should error")
	}
}
