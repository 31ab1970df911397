package texture

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/th3400l/scrawl/pkg/device"
	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/fallback"
	"github.com/th3400l/scrawl/pkg/httputil"
	"github.com/th3400l/scrawl/pkg/observability"
	"github.com/th3400l/scrawl/pkg/paper"
)

// Stage identifies where a progressive load currently is.
type Stage string

const (
	StageQueued      Stage = "queued"
	StageLoadingLow  Stage = "loading-low"
	StageLoadingHigh Stage = "loading-high"
	StageComplete    Stage = "complete"
	StageError       Stage = "error"
)

// LoadProgress is a point-in-time view of one template's load. After a
// low-tier serve the stage can be loading-high while Origin already names
// a usable texture: rendering may start while the upgrade continues.
type LoadProgress struct {
	Stage   Stage
	Percent float64
	Origin  Origin
	Err     error
}

const (
	defaultAttempts    = 3
	defaultRetryDelay  = 2 * time.Second
	defaultLoadTimeout = 10 * time.Second
)

// UpgradePriority is the priority above which a load served from the
// low-quality tier continues fetching the full asset in the background.
// Below it the low tier is kept as-is; background preloads typically pass
// priority 0 so warming the cache never triggers upgrade churn.
const UpgradePriority = 0.5

// ProgressiveLoader layers tier fallback, retry, duplicate coalescing,
// and a device-sized concurrency cap on top of a Manager.
//
// On a constrained device a template with a low-quality tier is served
// from that tier first so the first render happens quickly; the full
// asset replaces it in the cache when the upgrade lands. When every
// remote tier fails, a placeholder is synthesized locally so a load only
// errors if even synthesis fails.
type ProgressiveLoader struct {
	manager *Manager
	profile device.Profile
	logger  *log.Logger

	// gate caps concurrent loads at the device's limit and admits
	// waiters highest-priority first, so a render never queues behind
	// earlier background preloads.
	gate *loadGate

	attempts    int
	retryDelay  time.Duration
	loadTimeout time.Duration

	mu       sync.Mutex
	progress map[string]LoadProgress
	inflight map[string]*flight

	upgrades sync.WaitGroup
}

// flight is one in-progress load that duplicate requests wait on.
type flight struct {
	done chan struct{}
	tex  *PaperTexture
	err  error
}

// ProgressiveOption configures a ProgressiveLoader.
type ProgressiveOption func(*ProgressiveLoader)

// WithRetry overrides the retry policy for asset fetches. Zero values
// keep the defaults.
func WithRetry(attempts int, delay time.Duration) ProgressiveOption {
	return func(p *ProgressiveLoader) {
		if attempts > 0 {
			p.attempts = attempts
		}
		if delay > 0 {
			p.retryDelay = delay
		}
	}
}

// WithLoadTimeout overrides the per-attempt fetch timeout. Zero keeps
// the default.
func WithLoadTimeout(d time.Duration) ProgressiveOption {
	return func(p *ProgressiveLoader) {
		if d > 0 {
			p.loadTimeout = d
		}
	}
}

// NewProgressiveLoader creates a loader over the manager, sized for the
// given device profile.
func NewProgressiveLoader(manager *Manager, profile device.Profile, opts ...ProgressiveOption) *ProgressiveLoader {
	p := &ProgressiveLoader{
		manager:     manager,
		profile:     profile,
		logger:      manager.Logger,
		gate:        newLoadGate(profile.MaxConcurrentLoads()),
		attempts:    defaultAttempts,
		retryDelay:  defaultRetryDelay,
		loadTimeout: defaultLoadTimeout,
		progress:    make(map[string]LoadProgress),
		inflight:    make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns a texture for the template, preferring cache, then asset
// tiers per the device profile, then a synthesized placeholder.
//
// Priority is in [0, 1]. It decides whether a low-tier serve schedules a
// background upgrade to the full asset; see UpgradePriority. Concurrent
// Loads for the same template and options coalesce into one fetch.
func (p *ProgressiveLoader) Load(ctx context.Context, tmpl paper.Template, opts ProcessingOptions, priority float64) (*PaperTexture, error) {
	key := CacheKey(tmpl.ID, opts)

	if tex, ok := p.manager.Store.Get(key); ok {
		observability.Cache().OnCacheHit(ctx, "texture")
		p.setProgress(tmpl.ID, StageComplete, 100, tex.Origin(), nil)
		return tex, nil
	}
	observability.Cache().OnCacheMiss(ctx, "texture")

	p.mu.Lock()
	if f, ok := p.inflight[key]; ok {
		p.mu.Unlock()
		select {
		case <-f.done:
			return f.tex, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	p.inflight[key] = f
	p.progress[tmpl.ID] = LoadProgress{Stage: StageQueued}
	p.mu.Unlock()

	tex, err := p.load(ctx, tmpl, key, opts, priority)

	p.mu.Lock()
	delete(p.inflight, key)
	p.mu.Unlock()
	f.tex, f.err = tex, err
	close(f.done)

	return tex, err
}

func (p *ProgressiveLoader) load(ctx context.Context, tmpl paper.Template, key string, opts ProcessingOptions, priority float64) (*PaperTexture, error) {
	if err := p.gate.acquire(ctx, priority); err != nil {
		p.setProgress(tmpl.ID, StageError, 0, "", err)
		return nil, err
	}
	defer p.gate.release()

	chain := fallback.New[*PaperTexture]()
	if p.profile.Constrained() && tmpl.HasLowTier() {
		chain.Append(fallback.Strategy[*PaperTexture]{
			Name: "low-tier",
			Run: func(ctx context.Context) (*PaperTexture, error) {
				p.setProgress(tmpl.ID, StageLoadingLow, 25, "", nil)
				return p.loadTierWithRetry(ctx, tmpl, tmpl.LowAssetRef, OriginAssetLow, opts)
			},
		})
	}
	chain.Append(fallback.Strategy[*PaperTexture]{
		Name: "full-tier",
		Run: func(ctx context.Context) (*PaperTexture, error) {
			p.setProgress(tmpl.ID, StageLoadingHigh, 65, "", nil)
			return p.loadTierWithRetry(ctx, tmpl, tmpl.AssetRef, OriginAssetFull, opts)
		},
	})
	chain.Append(fallback.Strategy[*PaperTexture]{
		Name: "placeholder",
		Run: func(ctx context.Context) (*PaperTexture, error) {
			return p.synthesize(ctx, tmpl)
		},
	})

	tex, served, err := chain.Execute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			p.setProgress(tmpl.ID, StageError, 0, "", ctx.Err())
			return nil, ctx.Err()
		}
		wrapped := errors.Wrap(errors.ErrCodeLoadFailed, err, "template %s: all sources failed", tmpl.ID)
		p.setProgress(tmpl.ID, StageError, 0, "", wrapped)
		return nil, wrapped
	}

	p.manager.put(ctx, key, tex)

	if served == "low-tier" && priority > UpgradePriority {
		// Serve the low tier now and upgrade behind the caller's back.
		p.setProgress(tmpl.ID, StageLoadingHigh, 80, tex.Origin(), nil)
		p.upgrades.Add(1)
		go func() {
			defer p.upgrades.Done()
			p.upgradeToFull(context.WithoutCancel(ctx), tmpl, key, opts)
		}()
		return tex, nil
	}

	p.setProgress(tmpl.ID, StageComplete, 100, tex.Origin(), nil)
	if served == "placeholder" {
		p.logger.Warn("serving placeholder texture", "template", tmpl.ID)
	}
	return tex, nil
}

// loadTierWithRetry fetches one tier through the retry loop. Transport
// failures, 5xx responses, and attempt timeouts are retried with doubling
// delay; NOT_FOUND and decode failures stop immediately so the chain can
// fall to the next source.
func (p *ProgressiveLoader) loadTierWithRetry(ctx context.Context, tmpl paper.Template, ref string, origin Origin, opts ProcessingOptions) (*PaperTexture, error) {
	var tex *PaperTexture
	err := httputil.Retry(ctx, p.attempts, p.retryDelay, func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.loadTimeout)
		defer cancel()
		var lerr error
		tex, lerr = p.manager.loadTier(attemptCtx, tmpl, ref, origin, opts)
		return lerr
	})
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func (p *ProgressiveLoader) synthesize(ctx context.Context, tmpl paper.Template) (*PaperTexture, error) {
	hooks := observability.Texture()
	start := time.Now()
	hooks.OnLoadStart(ctx, tmpl.ID, "placeholder")

	tex, err := SynthesizeDefault(tmpl)
	if err != nil {
		hooks.OnLoadComplete(ctx, tmpl.ID, "placeholder", 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, tmpl.ID, "placeholder", int(tex.SizeBytes()), time.Since(start), nil)
	return tex, nil
}

// upgradeToFull replaces a cached low-tier texture with the full asset.
// Failure keeps the low tier; the page already renders.
func (p *ProgressiveLoader) upgradeToFull(ctx context.Context, tmpl paper.Template, key string, opts ProcessingOptions) {
	// Upgrades carry zero priority: the page already renders from the
	// low tier, so everything else goes through the gate first.
	if err := p.gate.acquire(ctx, 0); err != nil {
		p.setProgress(tmpl.ID, StageComplete, 100, OriginAssetLow, nil)
		return
	}
	defer p.gate.release()

	tex, err := p.loadTierWithRetry(ctx, tmpl, tmpl.AssetRef, OriginAssetFull, opts)
	if err != nil {
		p.logger.Warn("full tier upgrade failed, keeping low tier",
			"template", tmpl.ID,
			"error", err)
		p.setProgress(tmpl.ID, StageComplete, 100, OriginAssetLow, nil)
		return
	}

	p.manager.put(ctx, key, tex)
	p.setProgress(tmpl.ID, StageComplete, 100, tex.Origin(), nil)
	p.logger.Debug("upgraded texture to full tier", "template", tmpl.ID)
}

// Preload warms the cache for a set of templates with the device's load
// concurrency. One template failing does not stop the others; the first
// failure is returned after all loads finish.
func (p *ProgressiveLoader) Preload(ctx context.Context, templates []paper.Template, opts ProcessingOptions, priority float64) error {
	var g errgroup.Group
	for _, tmpl := range templates {
		g.Go(func() error {
			_, err := p.Load(ctx, tmpl, opts, priority)
			return err
		})
	}
	return g.Wait()
}

// Progress reports the current load state for a template. The zero
// progress and false are returned for templates never requested.
func (p *ProgressiveLoader) Progress(templateID string) (LoadProgress, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	lp, ok := p.progress[templateID]
	return lp, ok
}

// Wait blocks until all background tier upgrades have finished. Call
// before shutdown so in-flight fetches are not torn down mid-write.
func (p *ProgressiveLoader) Wait() {
	p.upgrades.Wait()
}

func (p *ProgressiveLoader) setProgress(id string, stage Stage, percent float64, origin Origin, err error) {
	p.mu.Lock()
	p.progress[id] = LoadProgress{Stage: stage, Percent: percent, Origin: origin, Err: err}
	p.mu.Unlock()
}
