package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/ink"
	"github.com/th3400l/scrawl/pkg/paper"
	"github.com/th3400l/scrawl/pkg/quality"
	"github.com/th3400l/scrawl/pkg/scribe"
	"github.com/th3400l/scrawl/pkg/texture"
)

// engineOpts holds the flags shared by commands that build a rendering engine.
type engineOpts struct {
	catalog string // catalog/config TOML path; empty selects the built-in catalog
	assets  string // base directory for relative asset refs
	preset  string // quality preset name; empty selects auto
	refresh bool   // bypass the on-disk download cache for remote assets
}

// addEngineFlags registers the shared engine flags on cmd.
func addEngineFlags(cmd *cobra.Command, opts *engineOpts) {
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog/config TOML file (default: built-in catalog)")
	cmd.Flags().StringVar(&opts.assets, "assets", "", "base directory for relative asset refs (default: catalog directory)")
	cmd.Flags().StringVarP(&opts.preset, "quality", "q", "", "quality preset: auto (default), low, medium, high, ultra")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-download remote assets, bypassing the download cache")
}

// fileConfig is the [defaults] table of a config document. The
// [[template]] and [[ink]] blocks of the same document are decoded by
// paper.LoadCatalog and ink.LoadProfiles.
type fileConfig struct {
	Defaults fileDefaults `toml:"defaults"`
}

// fileDefaults carries flag fallbacks and loader limits. Zero values
// leave the built-in behavior untouched.
type fileDefaults struct {
	Quality       string `toml:"quality"`
	Font          string `toml:"font"`
	RetryAttempts int    `toml:"retry_attempts"`
	RetryDelayMS  int    `toml:"retry_delay_ms"`
	LoadTimeoutMS int    `toml:"load_timeout_ms"`
}

// loadFileConfig decodes the [defaults] table at path. An empty path
// yields zero defaults.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse config defaults: %s", path)
	}
	return cfg, nil
}

// loadCatalog loads the catalog file at path, or returns the built-in
// default catalog when path is empty.
func loadCatalog(path string) (*paper.Catalog, error) {
	if path == "" {
		return paper.Default(), nil
	}
	return paper.LoadCatalog(path)
}

// loadInks builds the ink registry: the built-in inks plus any [[ink]]
// overrides the config document carries. Overrides win on name clashes.
func loadInks(path string) (*ink.Registry, error) {
	reg := ink.DefaultRegistry()
	if path == "" {
		return reg, nil
	}
	profiles, err := ink.LoadProfiles(path)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// assetDir picks the base directory for relative asset refs. An explicit
// --assets wins; otherwise assets resolve next to the catalog file.
func assetDir(opts *engineOpts) string {
	if opts.assets != "" {
		return opts.assets
	}
	if opts.catalog != "" {
		return filepath.Dir(opts.catalog)
	}
	return "."
}

// newAssetLoader builds the asset loader for the flags: scheme routing
// over the asset directory, with --refresh forcing remote assets past
// the download cache.
func newAssetLoader(opts *engineOpts) *texture.RefLoader {
	loader := texture.NewRefLoader(assetDir(opts))
	loader.HTTP.Refresh = opts.refresh
	return loader
}

// loaderOptions maps config loader limits to progressive loader options.
func loaderOptions(d fileDefaults) []texture.ProgressiveOption {
	var opts []texture.ProgressiveOption
	if d.RetryAttempts > 0 || d.RetryDelayMS > 0 {
		opts = append(opts, texture.WithRetry(d.RetryAttempts, time.Duration(d.RetryDelayMS)*time.Millisecond))
	}
	if d.LoadTimeoutMS > 0 {
		opts = append(opts, texture.WithLoadTimeout(time.Duration(d.LoadTimeoutMS)*time.Millisecond))
	}
	return opts
}

// newEngine builds a rendering engine from the shared flags, wiring the
// context logger and the detected device profile.
func newEngine(ctx context.Context, opts *engineOpts) (*scribe.Engine, error) {
	cfg, err := loadFileConfig(opts.catalog)
	if err != nil {
		return nil, err
	}
	return newEngineWith(ctx, opts, cfg)
}

// newEngineWith builds the engine against an already-decoded config
// document. Flags beat config defaults, config defaults beat built-ins.
func newEngineWith(ctx context.Context, opts *engineOpts, cfg fileConfig) (*scribe.Engine, error) {
	catalog, err := loadCatalog(opts.catalog)
	if err != nil {
		return nil, err
	}
	inks, err := loadInks(opts.catalog)
	if err != nil {
		return nil, err
	}

	presetName := opts.preset
	if presetName == "" {
		presetName = cfg.Defaults.Quality
	}
	preset := quality.PresetAuto
	if presetName != "" {
		preset, err = quality.ParsePreset(presetName)
		if err != nil {
			return nil, err
		}
	}

	options := []scribe.Option{
		scribe.WithCatalog(catalog),
		scribe.WithInks(inks),
		scribe.WithPreset(preset),
		scribe.WithAssets(newAssetLoader(opts)),
		scribe.WithLogger(loggerFromContext(ctx)),
	}
	if lo := loaderOptions(cfg.Defaults); len(lo) > 0 {
		options = append(options, scribe.WithLoaderOptions(lo...))
	}
	return scribe.New(options...)
}
