// Package scribe renders text documents as handwriting on paper.
//
// The Engine is the package's facade: it owns the template catalog, the
// texture pipeline, the surface pool, the memory budget, the quality
// session, and the ink and font registries, and exposes one rendering
// entry point, RenderDocument. Everything is instance state; two
// engines never share caches, so tests get a fresh world each time.
//
// Long documents render progressively: the text is split at whitespace
// into time-budgeted chunks, and between chunks the engine reports
// progress, adapts quality, yields to the host, and checks whether the
// render was superseded or aborted.
package scribe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/th3400l/scrawl/pkg/cache"
	"github.com/th3400l/scrawl/pkg/canvas"
	"github.com/th3400l/scrawl/pkg/device"
	"github.com/th3400l/scrawl/pkg/fonts"
	"github.com/th3400l/scrawl/pkg/ink"
	"github.com/th3400l/scrawl/pkg/memval"
	"github.com/th3400l/scrawl/pkg/paper"
	"github.com/th3400l/scrawl/pkg/quality"
	"github.com/th3400l/scrawl/pkg/sched"
	"github.com/th3400l/scrawl/pkg/texture"
)

const (
	// memCheckInterval paces the background memory pressure checks.
	memCheckInterval = 30 * time.Second

	// renderPriority and preloadPriority order texture loads: renders
	// outrank warmup so a visible page never waits behind a prefetch.
	renderPriority  = 0.9
	preloadPriority = 0.3

	// textureCacheEntries caps distinct cached texture variants.
	textureCacheEntries = 32
)

// Engine coordinates the services one rendering session needs. Create
// it with New, render through RenderDocument, and Close it when done.
//
// The collaborator fields are exported for inspection but should be
// treated as read-only once the engine is built; swap them via Options
// at construction time instead.
type Engine struct {
	Catalog  *paper.Catalog
	Textures *texture.Manager
	Loader   *texture.ProgressiveLoader
	Surfaces *canvas.Pool
	Memory   *memval.Manager
	Quality  *quality.Controller
	Inks     *ink.Registry
	Fonts    *fonts.Library
	Yielder  sched.Yielder
	Device   device.Profile
	Logger   *log.Logger

	preset     quality.Preset
	assets     texture.Loader
	budget     time.Duration
	loaderOpts []texture.ProgressiveOption

	// requests hands out render request IDs; latest tracks the newest,
	// so older in-flight renders can notice they were superseded.
	requests atomic.Uint64
	latest   atomic.Uint64

	mu      sync.Mutex
	visible *Result

	ownsMemory bool
	stop       context.CancelFunc
	closed     atomic.Bool
}

// Option configures an Engine during New.
type Option func(*Engine)

// WithCatalog sets the paper template catalog.
func WithCatalog(c *paper.Catalog) Option { return func(e *Engine) { e.Catalog = c } }

// WithTextures sets the texture manager, replacing the built-in cache
// and asset loader.
func WithTextures(m *texture.Manager) Option { return func(e *Engine) { e.Textures = m } }

// WithAssets sets the raw asset loader used by the default texture
// manager. Ignored when WithTextures supplies a full manager.
func WithAssets(l texture.Loader) Option { return func(e *Engine) { e.assets = l } }

// WithSurfaces sets the canvas pool.
func WithSurfaces(p *canvas.Pool) Option { return func(e *Engine) { e.Surfaces = p } }

// WithMemory sets the memory budget manager. The engine registers its
// texture cache and surface pool as consumers but leaves the ticker to
// the caller.
func WithMemory(m *memval.Manager) Option { return func(e *Engine) { e.Memory = m } }

// WithQuality sets the adaptive quality controller.
func WithQuality(c *quality.Controller) Option { return func(e *Engine) { e.Quality = c } }

// WithPreset picks the quality preset for the default controller.
func WithPreset(p quality.Preset) Option { return func(e *Engine) { e.preset = p } }

// WithInks sets the ink profile registry.
func WithInks(r *ink.Registry) Option { return func(e *Engine) { e.Inks = r } }

// WithFonts sets the font library.
func WithFonts(l *fonts.Library) Option { return func(e *Engine) { e.Fonts = l } }

// WithYielder sets the cooperative yield point used between chunks.
func WithYielder(y sched.Yielder) Option { return func(e *Engine) { e.Yielder = y } }

// WithChunkBudget sets how long one chunk may draw before yielding.
// Hosts with tight frame budgets can shorten it. Zero keeps the default.
func WithChunkBudget(d time.Duration) Option { return func(e *Engine) { e.budget = d } }

// WithLoaderOptions tunes the progressive loader's retry and timeout
// policy, typically from config file limits.
func WithLoaderOptions(opts ...texture.ProgressiveOption) Option {
	return func(e *Engine) { e.loaderOpts = opts }
}

// WithDevice overrides device detection.
func WithDevice(p device.Profile) Option { return func(e *Engine) { e.Device = p } }

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.Logger = l } }

// New builds an Engine, filling every collaborator not supplied via
// options with a production default sized for the detected device.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		Device: device.Detect(),
		preset: quality.PresetAuto,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.Logger == nil {
		e.Logger = log.Default()
	}
	if e.Catalog == nil {
		e.Catalog = paper.Default()
	}
	if e.Inks == nil {
		e.Inks = ink.DefaultRegistry()
	}
	if e.Fonts == nil {
		e.Fonts = fonts.NewLibrary(e.Logger)
	}
	if e.Yielder == nil {
		e.Yielder = sched.Immediate()
	}
	if e.budget <= 0 {
		e.budget = chunkBudget
	}
	if e.Quality == nil {
		ctrl, err := quality.NewController(e.preset, e.Device, e.Logger)
		if err != nil {
			return nil, err
		}
		e.Quality = ctrl
	}

	budget := memval.BudgetFor(e.Device)
	if e.Memory == nil {
		e.Memory = memval.New(budget, e.Logger)
		e.ownsMemory = true
	}
	if e.Surfaces == nil {
		e.Surfaces = canvas.NewPool(surfacesFor(e.Device))
	}
	if e.Textures == nil {
		if e.assets == nil {
			e.assets = texture.NewRefLoader(".")
		}
		store := cache.NewStore[*texture.PaperTexture](budget/2, textureCacheEntries, texture.TextureSize)
		e.Textures = texture.NewManager(store, e.assets, e.Logger)
	}
	if e.Loader == nil {
		e.Loader = texture.NewProgressiveLoader(e.Textures, e.Device, e.loaderOpts...)
	}

	e.Memory.Register("texture-cache", e.Textures)
	e.Memory.Register("canvas-pool", e.Surfaces)
	if e.ownsMemory {
		ctx, cancel := context.WithCancel(context.Background())
		e.stop = cancel
		e.Memory.Start(ctx, memCheckInterval)
	}

	e.Logger.Debug("engine ready",
		"device", e.Device.Class,
		"memory", e.Device.MemoryTier(),
		"preset", e.Quality.Resolved(),
		"budget", budget)
	return e, nil
}

// Close releases the engine's resources: it stops the background memory
// checks, waits for in-flight texture upgrades, and empties the surface
// pool and texture cache. Renders started after Close fail.
func (e *Engine) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return
	}
	if e.stop != nil {
		e.stop()
	}
	e.Loader.Wait()
	e.Surfaces.Clear()
	e.Textures.Clear()
}

// PreloadTemplates warms the texture cache for the given template IDs
// at background priority. Unknown IDs fail before any load starts.
func (e *Engine) PreloadTemplates(ctx context.Context, ids []string) error {
	templates := make([]paper.Template, 0, len(ids))
	for _, id := range ids {
		tmpl, err := e.Catalog.Get(id)
		if err != nil {
			return err
		}
		templates = append(templates, tmpl)
	}
	opts := e.textureOptions(RenderingConfig{}, e.Quality.Current())
	return e.Loader.Preload(ctx, templates, opts, preloadPriority)
}

// QualitySettings returns the session's current effective settings.
func (e *Engine) QualitySettings() quality.Settings {
	return e.Quality.Current()
}

// SetQualityPreset switches the session preset and clears accumulated
// degradation.
func (e *Engine) SetQualityPreset(p quality.Preset) error {
	return e.Quality.SetPreset(p)
}

// CacheStats returns texture cache counters.
func (e *Engine) CacheStats() cache.Stats {
	return e.Textures.Stats()
}

// MemoryStatus returns the memory budget snapshot.
func (e *Engine) MemoryStatus() memval.Status {
	return e.Memory.Status()
}

// Visible returns the most recently committed render result, or nil
// when nothing has completed yet.
func (e *Engine) Visible() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// textureOptions maps the session quality (and a per-render override)
// to texture processing options.
func (e *Engine) textureOptions(cfg RenderingConfig, s quality.Settings) texture.ProcessingOptions {
	q := s.TextureQuality
	if cfg.Quality > 0 {
		q = cfg.Quality
	}
	return texture.ProcessingOptions{Quality: q, MaxDimension: s.MaxTextureSize}
}

// surfacesFor sizes the canvas pool: constrained devices keep at most
// two surfaces alive, everything else four.
func surfacesFor(p device.Profile) int {
	if p.Constrained() {
		return 2
	}
	return 4
}
