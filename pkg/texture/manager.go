package texture

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/th3400l/scrawl/pkg/cache"
	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/imageio"
	"github.com/th3400l/scrawl/pkg/observability"
	"github.com/th3400l/scrawl/pkg/paper"
)

// DefaultCacheBytes is the texture cache budget when the caller does not
// supply a store of its own.
const DefaultCacheBytes int64 = 128 << 20

// Manager ties loading, decoding, processing, and caching into a single
// Load call. Both the CLI and the progressive loader drive the same
// Manager so caching behavior stays in one place.
//
// The Manager is stateless except for the cache and logger. Multiple
// goroutines can safely share one Manager.
type Manager struct {
	Store     *cache.Store[*PaperTexture]
	Loader    Loader
	Processor *Processor
	Logger    *log.Logger
}

// NewManager creates a manager around the given store and loader.
// A nil store gets a default-budget store; a nil loader resolves nothing
// and every load reports NOT_FOUND; a nil logger uses the default logger.
func NewManager(store *cache.Store[*PaperTexture], loader Loader, logger *log.Logger) *Manager {
	if store == nil {
		store = cache.NewStore[*PaperTexture](DefaultCacheBytes, 0, TextureSize)
	}
	if loader == nil {
		loader = MapLoader{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		Store:     store,
		Loader:    loader,
		Processor: &Processor{},
		Logger:    logger,
	}
}

// Load returns the texture for a template with no processing applied,
// from cache when possible.
func (m *Manager) Load(ctx context.Context, tmpl paper.Template) (*PaperTexture, error) {
	tex, _, err := m.LoadWithCacheInfo(ctx, tmpl, ProcessingOptions{})
	return tex, err
}

// LoadWithOptions returns the texture for a template processed with the
// given options, from cache when possible.
func (m *Manager) LoadWithOptions(ctx context.Context, tmpl paper.Template, opts ProcessingOptions) (*PaperTexture, error) {
	tex, _, err := m.LoadWithCacheInfo(ctx, tmpl, opts)
	return tex, err
}

// LoadWithCacheInfo is LoadWithOptions plus a cache hit report.
func (m *Manager) LoadWithCacheInfo(ctx context.Context, tmpl paper.Template, opts ProcessingOptions) (*PaperTexture, bool, error) {
	key := CacheKey(tmpl.ID, opts)
	if tex, ok := m.Store.Get(key); ok {
		observability.Cache().OnCacheHit(ctx, "texture")
		return tex, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "texture")

	tex, err := m.loadTier(ctx, tmpl, tmpl.AssetRef, OriginAssetFull, opts)
	if err != nil {
		return nil, false, err
	}

	m.put(ctx, key, tex)
	return tex, false, nil
}

// loadTier fetches, decodes, and processes a single asset tier. It does
// not consult or fill the cache; callers decide what to store.
func (m *Manager) loadTier(ctx context.Context, tmpl paper.Template, ref string, origin Origin, opts ProcessingOptions) (*PaperTexture, error) {
	hooks := observability.Texture()
	tier := tierName(origin)
	start := time.Now()
	hooks.OnLoadStart(ctx, tmpl.ID, tier)

	raw, err := m.Loader.Load(ctx, ref)
	if err != nil {
		hooks.OnLoadComplete(ctx, tmpl.ID, tier, 0, time.Since(start), err)
		// Keep the loader's classification intact so retry and tier
		// fallback upstream still see NOT_FOUND and retryable errors.
		return nil, err
	}

	img, format, err := imageio.Decode(raw)
	if err != nil {
		hooks.OnLoadComplete(ctx, tmpl.ID, tier, len(raw), time.Since(start), err)
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "template %s", tmpl.ID)
	}

	tex, err := NewPaperTexture(tmpl.ID, img, nil, origin)
	if err != nil {
		hooks.OnLoadComplete(ctx, tmpl.ID, tier, len(raw), time.Since(start), err)
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "template %s", tmpl.ID)
	}
	hooks.OnLoadComplete(ctx, tmpl.ID, tier, len(raw), time.Since(start), nil)

	m.Logger.Debug("loaded texture",
		"template", tmpl.ID,
		"tier", tier,
		"format", format,
		"bytes", len(raw),
		"duration", time.Since(start))

	return m.process(ctx, tex, opts), nil
}

// process applies raster transforms, falling back to the unprocessed
// texture when processing fails. A broken filter chain degrades output
// rather than failing the whole load.
func (m *Manager) process(ctx context.Context, tex *PaperTexture, opts ProcessingOptions) *PaperTexture {
	if !NeedsProcessing(tex, opts) {
		return tex
	}

	hooks := observability.Texture()
	start := time.Now()
	hooks.OnProcessStart(ctx, tex.TemplateID())

	processed, err := m.Processor.Process(tex, opts)
	hooks.OnProcessComplete(ctx, tex.TemplateID(), time.Since(start), err)
	if err != nil {
		m.Logger.Warn("texture processing failed, using unprocessed texture",
			"template", tex.TemplateID(),
			"error", err)
		return tex
	}
	return processed
}

func (m *Manager) put(ctx context.Context, key string, tex *PaperTexture) {
	m.Store.Put(key, tex)
	observability.Cache().OnCacheSet(ctx, "texture", int(tex.SizeBytes()))
}

// Cached returns the cached texture for a template and options, if any.
func (m *Manager) Cached(templateID string, opts ProcessingOptions) (*PaperTexture, bool) {
	return m.Store.Peek(CacheKey(templateID, opts))
}

// Remove drops every cached variant of one template.
func (m *Manager) Remove(templateID string) int {
	return m.Store.RemovePrefix(templateID + ":")
}

// Clear empties the texture cache.
func (m *Manager) Clear() {
	m.Store.Clear()
}

// Pin protects the cached texture for a template and options from
// eviction while a render is using it. Reports whether it was cached.
func (m *Manager) Pin(templateID string, opts ProcessingOptions) bool {
	return m.Store.Pin(CacheKey(templateID, opts))
}

// Unpin releases a pin taken with Pin.
func (m *Manager) Unpin(templateID string, opts ProcessingOptions) bool {
	return m.Store.Unpin(CacheKey(templateID, opts))
}

// EstimatedBytes returns the cache's accounted footprint.
func (m *Manager) EstimatedBytes() int64 {
	return m.Store.EstimatedBytes()
}

// Reclaim evicts unpinned textures until target bytes are freed,
// oldest first. It lets the manager serve as a memory budget consumer.
func (m *Manager) Reclaim(target int64) int64 {
	return m.Store.Reclaim(target)
}

// Stats returns a snapshot of cache counters.
func (m *Manager) Stats() cache.Stats {
	return m.Store.Stats()
}

func tierName(origin Origin) string {
	switch origin {
	case OriginAssetLow:
		return "low"
	case OriginPlaceholder:
		return "placeholder"
	default:
		return "high"
	}
}
