package scribe

import (
	"context"
	"image"
	"image/draw"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/th3400l/scrawl/pkg/canvas"
	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/ink"
	"github.com/th3400l/scrawl/pkg/observability"
	"github.com/th3400l/scrawl/pkg/pen"
	"github.com/th3400l/scrawl/pkg/quality"
	"github.com/th3400l/scrawl/pkg/texture"
)

// Progress reports one completed chunk of an in-flight render.
type Progress struct {
	// JobID identifies the render job.
	JobID string

	// RequestID orders this render against other requests on the engine.
	RequestID uint64

	// Chunk is the 1-based index of the chunk that just completed.
	Chunk int

	// Percent of the document consumed so far, in [0, 100]. It never
	// decreases across callbacks and ends at exactly 100.
	Percent float64

	// ChunkText is the slice of the document this chunk covered.
	// Concatenating every chunk's text reproduces the input exactly.
	ChunkText string

	// Preview is the live page surface. It is only valid during the
	// callback; callers who need to keep it must copy it.
	Preview *image.RGBA
}

// ProgressFunc receives progress callbacks on the rendering goroutine.
type ProgressFunc func(Progress)

// Stats describes one completed render.
type Stats struct {
	Chunks        int
	Glyphs        int
	Lines         int
	Duration      time.Duration
	TextureOrigin texture.Origin
	TextureCached bool
	QualityLevel  int
}

// Result is a completed render: the final page plus its stats. The
// image is the caller's to keep; it does not alias pooled memory.
type Result struct {
	JobID      string
	RequestID  uint64
	ConfigHash string
	Image      *image.RGBA
	Stats      Stats
}

// RenderDocument renders cfg.Text as handwriting on the configured
// paper and returns the finished page.
//
// Documents under the chunk threshold render in one pass. Longer ones
// render chunk by chunk with onProgress called after each; between
// chunks the engine yields via its Yielder and checks for interruption.
// Starting a new render supersedes any render still in flight on this
// engine: the superseded render stops at its next chunk boundary with
// a RENDER_SUPERSEDED error and only the newest render commits to
// Visible. Cancelling ctx stops the render at the next boundary with
// RENDER_ABORTED. Interruptions come back as-is; everything else is
// wrapped with diagnostic context.
func (e *Engine) RenderDocument(ctx context.Context, cfg RenderingConfig, onProgress ProgressFunc) (*Result, error) {
	if e.closed.Load() {
		return nil, errors.New(errors.ErrCodeInternal, "engine is closed")
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	id := e.requests.Add(1)
	e.latest.Store(id)
	jobID := uuid.New().String()
	start := time.Now()

	obs := observability.Render()
	obs.OnRenderStart(ctx, jobID, len(cfg.Text))
	e.Logger.Debug("render requested",
		"job", jobID, "request", id,
		"template", cfg.TemplateID, "ink", cfg.InkProfile, "chars", len(cfg.Text))

	res, err := e.render(ctx, id, jobID, cfg, onProgress)
	duration := time.Since(start)
	if err != nil {
		obs.OnRenderComplete(ctx, jobID, 0, duration, err)
		if errors.IsInterruption(err) {
			e.Logger.Debug("render interrupted",
				"job", jobID, "reason", errors.GetCode(err), "duration", duration)
			return nil, err
		}
		e.Logger.Error("render failed",
			"job", jobID, "config", cfg.Hash(),
			"device", e.Device.Class, "err", err)
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"render %s failed (config %s, device %s/%s memory, at %s)",
			jobID, cfg.Hash(), e.Device.Class, e.Device.MemoryTier(),
			time.Now().UTC().Format(time.RFC3339))
	}

	res.Stats.Duration = duration
	obs.OnRenderComplete(ctx, jobID, res.Stats.Chunks, duration, nil)
	e.Logger.Info("rendered document",
		"job", jobID,
		"chunks", res.Stats.Chunks,
		"glyphs", res.Stats.Glyphs,
		"texture", res.Stats.TextureOrigin,
		"duration", duration)
	return res, nil
}

func (e *Engine) render(ctx context.Context, id uint64, jobID string, cfg RenderingConfig, onProgress ProgressFunc) (*Result, error) {
	tmpl, err := e.Catalog.Get(cfg.TemplateID)
	if err != nil {
		return nil, err
	}

	settings := e.Quality.Current()
	opts := e.textureOptions(cfg, settings)
	_, cached := e.Textures.Cached(tmpl.ID, opts)

	tex, err := e.Loader.Load(ctx, tmpl, opts, renderPriority)
	if err != nil {
		return nil, err
	}
	if e.Textures.Pin(tmpl.ID, opts) {
		defer e.Textures.Unpin(tmpl.ID, opts)
	}

	surface, err := e.acquireSurface(ctx, cfg.CanvasWidth, cfg.CanvasHeight)
	if err != nil {
		return nil, err
	}
	defer e.Surfaces.Release(surface)
	page := surface.Image()
	stampTexture(page, tex, opts.Quality)

	face, err := e.Fonts.Face(cfg.Font, cfg.FontSize)
	if err != nil {
		return nil, err
	}
	profile, err := e.Inks.Get(cfg.InkProfile)
	if err != nil {
		// Unknown inks degrade to the fallback result instead of
		// failing the page.
		e.Logger.Warn("unknown ink profile, writing with fallback ink", "ink", cfg.InkProfile)
		profile = nil
	}

	writer := pen.New(page, face, profile, penConfig(cfg, settings))
	lay := newLayout(writer, cfg.Margins, cfg.LineSpacing, cfg.CanvasWidth, cfg.CanvasHeight)

	ch := newChunker(cfg.Text)
	obs := observability.Render()
	chunks := 0
	for !ch.done() {
		chunkStart := time.Now()
		text := drawChunk(ch, lay, e.budget)
		chunks++
		e.Quality.ObserveRenderTime(time.Since(chunkStart))

		percent := ch.percent()
		obs.OnChunkComplete(ctx, jobID, chunks, percent)
		if onProgress != nil {
			onProgress(Progress{
				JobID:     jobID,
				RequestID: id,
				Chunk:     chunks,
				Percent:   percent,
				ChunkText: text,
				Preview:   page,
			})
		}
		// No checkpoint after the last chunk: a finished document
		// commits even if the host just went hidden.
		if ch.done() {
			break
		}
		if err := e.checkpoint(ctx, id); err != nil {
			return nil, err
		}
	}
	if chunks == 0 && onProgress != nil {
		onProgress(Progress{JobID: jobID, RequestID: id, Percent: 100, Preview: page})
	}

	if lay.glyphs > 0 && profile != nil {
		ink.ApplyTexture(page, profile)
	}
	e.Quality.ObservePressure(e.Memory.Pressure())

	if e.latest.Load() != id {
		return nil, errors.New(errors.ErrCodeRenderSuperseded, "render %d superseded", id)
	}
	res := &Result{
		JobID:      jobID,
		RequestID:  id,
		ConfigHash: cfg.Hash(),
		Image:      clonePage(page),
		Stats: Stats{
			Chunks:        chunks,
			Glyphs:        lay.glyphs,
			Lines:         lay.lines,
			TextureOrigin: tex.Origin(),
			TextureCached: cached,
			QualityLevel:  e.Quality.Level(),
		},
	}
	if err := e.commit(id, res); err != nil {
		return nil, err
	}
	return res, nil
}

// commit publishes a finished render, rechecking supersession under the
// same lock. The recheck closes the window between the unlocked check
// and the write: without it a stale render could slip its page in after
// a newer request had already committed.
func (e *Engine) commit(id uint64, res *Result) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.latest.Load() != id {
		return errors.New(errors.ErrCodeRenderSuperseded, "render %d superseded", id)
	}
	e.visible = res
	return nil
}

// penConfig maps the render config's jitter knobs and the session
// quality settings onto the pen. Antialiasing follows the session, not
// the config, so a degraded device stays degraded per render.
func penConfig(cfg RenderingConfig, s quality.Settings) pen.Config {
	return pen.Config{
		BaselineJitter:      cfg.BaselineJitter,
		LetterSpacingJitter: cfg.LetterSpacingJitter,
		SlantJitter:         cfg.SlantJitter,
		InkFlowVariation:    cfg.InkFlowVariation,
		Antialiasing:        s.Antialiasing,
		Seed:                uint64(cfg.Seed),
	}
}

// drawChunk draws tokens until the chunk budget runs out, cutting only
// after a completed word. Short documents draw to the end in one call.
func drawChunk(ch *chunker, lay *layout, budget time.Duration) string {
	start := time.Now()
	var sb strings.Builder
	words := 0
	for !ch.done() {
		tok := ch.take()
		sb.WriteString(tok.text)
		if tok.space {
			lay.space(tok.text)
			continue
		}
		lay.word(tok.text)
		words++
		if !ch.single && words%budgetCheckEvery == 0 && time.Since(start) > budget {
			break
		}
	}
	return sb.String()
}

// checkpoint runs between chunks: it detects supersession, yields to
// the host, and surfaces cancellation as an abort. The supersession
// check repeats after the yield since the gate may block for a while.
func (e *Engine) checkpoint(ctx context.Context, id uint64) error {
	if e.latest.Load() != id {
		return errors.New(errors.ErrCodeRenderSuperseded, "render %d superseded", id)
	}
	if err := e.Yielder.Yield(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeRenderAborted, err, "render %d aborted", id)
	}
	if e.latest.Load() != id {
		return errors.New(errors.ErrCodeRenderSuperseded, "render %d superseded", id)
	}
	return nil
}

// acquireSurface gets a pooled canvas, riding out pool exhaustion with
// one forced memory cleanup before giving up.
func (e *Engine) acquireSurface(ctx context.Context, width, height int) (*canvas.Surface, error) {
	surface, err := e.Surfaces.Acquire(width, height)
	if err == nil {
		return surface, nil
	}
	if !errors.Is(err, errors.ErrCodeCapacity) {
		return nil, err
	}
	freed := e.Memory.Cleanup(ctx)
	e.Logger.Warn("surface pool exhausted, retrying after cleanup",
		"canvas", width, "freed", freed)
	return e.Surfaces.Acquire(width, height)
}

// stampTexture lays the paper texture onto the page, stretching it to
// the canvas when sizes differ. The overlay tier, when present, sits
// on top of the base.
func stampTexture(dst *image.RGBA, tex *texture.PaperTexture, q float64) {
	bounds := dst.Bounds()
	stamp := func(layer *image.RGBA, op draw.Op) {
		if layer == nil {
			return
		}
		var src image.Image = layer
		if !layer.Bounds().Eq(bounds) {
			src = imaging.Resize(layer, bounds.Dx(), bounds.Dy(), stampFilter(q))
		}
		draw.Draw(dst, bounds, src, src.Bounds().Min, op)
	}
	stamp(tex.Base(), draw.Src)
	stamp(tex.Overlay(), draw.Over)
}

// stampFilter picks the canvas-fit resampling filter. The degraded tier
// trades ringing quality for speed.
func stampFilter(q float64) imaging.ResampleFilter {
	if q == 0 || q >= 0.5 {
		return imaging.Lanczos
	}
	return imaging.Linear
}

func clonePage(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}
