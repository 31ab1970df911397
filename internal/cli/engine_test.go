package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalogBuiltin(t *testing.T) {
	catalog, err := loadCatalog("")
	if err != nil {
		t.Fatal(err)
	}
	if catalog.Len() == 0 {
		t.Fatal("built-in catalog should not be empty")
	}
	if !catalog.Has("blank-1") {
		t.Error("built-in catalog should carry blank-1")
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	doc := `
[[template]]
id = "test-paper"
name = "Test Paper"
asset = "paper.png"
structural = "blank"
critical = true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := loadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	if !catalog.Has("test-paper") {
		t.Error("catalog should carry the file's template")
	}
	if catalog.Has("blank-1") {
		t.Error("a catalog file replaces the built-ins, not extends them")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := loadCatalog(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing catalog file should error")
	}
}

func TestAssetDir(t *testing.T) {
	tests := []struct {
		name string
		opts engineOpts
		want string
	}{
		{"explicit assets wins", engineOpts{assets: "/data/paper", catalog: "/etc/catalog.toml"}, "/data/paper"},
		{"catalog directory", engineOpts{catalog: filepath.Join("configs", "catalog.toml")}, "configs"},
		{"bare default", engineOpts{}, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := assetDir(&tt.opts); got != tt.want {
				t.Errorf("assetDir = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewAssetLoaderRefresh(t *testing.T) {
	plain := newAssetLoader(&engineOpts{assets: t.TempDir()})
	if plain.HTTP.Refresh {
		t.Error("download cache should be used by default")
	}
	forced := newAssetLoader(&engineOpts{assets: t.TempDir(), refresh: true})
	if !forced.HTTP.Refresh {
		t.Error("--refresh must bypass the download cache on remote fetches")
	}
}

func TestNewEngineDefaults(t *testing.T) {
	engine, err := newEngine(context.Background(), &engineOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	if engine.Catalog.Len() == 0 {
		t.Error("engine should start with the built-in catalog")
	}
	if err := engine.QualitySettings().Validate(); err != nil {
		t.Errorf("engine settings should validate: %v", err)
	}
}

func TestNewEngineBadPreset(t *testing.T) {
	if _, err := newEngine(context.Background(), &engineOpts{preset: "bogus"}); err == nil {
		t.Error("unknown preset should error")
	}
}

// fullConfig is a config document carrying every optional section:
// templates, an ink override, and defaults with loader limits.
const fullConfig = `
[defaults]
quality = "low"
font = "fonts/hand.ttf"
retry_attempts = 1
load_timeout_ms = 2000

[[template]]
id = "test-paper"
name = "Test Paper"
asset = "paper.png"
structural = "lined"

[[ink]]
name = "sepia"
color = "#704214"
`

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrawl.toml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	cfg, err := loadFileConfig(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Defaults.Quality != "low" || cfg.Defaults.Font != "fonts/hand.ttf" {
		t.Errorf("defaults = %+v, want quality low and font fonts/hand.ttf", cfg.Defaults)
	}
	if cfg.Defaults.RetryAttempts != 1 || cfg.Defaults.LoadTimeoutMS != 2000 {
		t.Errorf("loader limits = %+v, want retry_attempts 1 and load_timeout_ms 2000", cfg.Defaults)
	}
}

func TestLoadFileConfigEmptyPath(t *testing.T) {
	cfg, err := loadFileConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Defaults != (fileDefaults{}) {
		t.Errorf("empty path should yield zero defaults, got %+v", cfg.Defaults)
	}
}

func TestLoadInks(t *testing.T) {
	reg, err := loadInks(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get("sepia"); err != nil {
		t.Errorf("config ink should be registered: %v", err)
	}
	if _, err := reg.Get("blue"); err != nil {
		t.Errorf("built-in inks should survive config overrides: %v", err)
	}
}

func TestLoaderOptions(t *testing.T) {
	if got := loaderOptions(fileDefaults{}); len(got) != 0 {
		t.Errorf("zero defaults should map to no loader options, got %d", len(got))
	}
	if got := loaderOptions(fileDefaults{RetryAttempts: 2, LoadTimeoutMS: 500}); len(got) != 2 {
		t.Errorf("retry and timeout limits should map to 2 options, got %d", len(got))
	}
}

func TestNewEngineFromConfig(t *testing.T) {
	path := writeConfig(t, fullConfig)
	engine, err := newEngine(context.Background(), &engineOpts{catalog: path})
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()

	if !engine.Catalog.Has("test-paper") {
		t.Error("engine should use the config document's catalog")
	}
	if _, err := engine.Inks.Get("sepia"); err != nil {
		t.Errorf("engine should carry the config document's inks: %v", err)
	}
}
