// Package pkg provides the core libraries for Scrawl handwriting rendering.
//
// # Overview
//
// Scrawl turns plain text into raster images that read like handwriting on
// real paper. The pkg directory is organized into four main areas:
//
//  1. Domain - glyph layout, pen strokes, ink profiles, paper templates
//  2. Resources - texture loading, caching, canvas pooling, memory budgets
//  3. Adaptation - device profiling and quality presets with degradation
//  4. Engine - the scribe facade that orchestrates a document render
//
// # Architecture
//
// The typical data flow through Scrawl:
//
//	Text + RenderingConfig
//	         ↓
//	    [scribe] package (chunking, layout, orchestration)
//	         ↓
//	    [texture] package (paper texture: cache → asset tiers → placeholder)
//	         ↓
//	    [pen] + [ink] packages (jittered strokes, pigment compositing)
//	         ↓
//	    [imageio] package (PNG output)
//
// # Quick Start
//
// Render a page with the defaults:
//
//	import (
//	    "context"
//	    "github.com/th3400l/scrawl/pkg/imageio"
//	    "github.com/th3400l/scrawl/pkg/scribe"
//	)
//
//	engine, _ := scribe.New()
//	defer engine.Close()
//
//	cfg := scribe.DefaultConfig()
//	cfg.Text = "Dear reader,\n\nthis page was never touched by a pen."
//
//	res, _ := engine.RenderDocument(context.Background(), cfg, nil)
//	_ = imageio.Export("page.png", res.Image, engine.QualitySettings().CompressionLevel)
//
// # Main Packages
//
// ## Domain
//
// [paper] - Paper templates and the TOML catalog: asset refs in one or two
// quality tiers plus the structural kind (blank, lined, dotted) that
// placeholder synthesis reproduces.
//
// [ink] - Named ink profiles with precomputed variation palettes, blend
// mode resolution with fallback, and the grain pass that settles pigment
// into the page.
//
// [pen] - Stroke rendering: per-glyph jitter streams for baseline, spacing,
// slant, and ink flow, drawn through fogleman/gg.
//
// [fonts] - Font discovery and face caching: explicit paths, installed
// families via go-findfont, and a fallback chain that always yields a face.
//
// ## Resources
//
// [texture] - Paper texture pipeline: decode, process (resize, tone, tile),
// cache, and the progressive loader with tier fallback, retry, duplicate
// coalescing, and background upgrades.
//
// [cache] - Generic LRU texture store with byte accounting, pinning, and
// reclaim targets.
//
// [canvas] - Pooled drawing surfaces so repeated renders reuse pixel
// buffers instead of reallocating them.
//
// [memval] - Memory budget manager: registered consumers report usage and
// reclaim on demand when pressure crosses the water marks.
//
// [httputil] - Shared HTTP fetcher with retry classification used for
// remote paper assets.
//
// [fallback] - Ordered fallback chains used by ink blend resolution and
// texture tier loading.
//
// ## Adaptation
//
// [device] - Device profiling (class, memory, cores, connection) with
// environment overrides.
//
// [quality] - Quality presets (low..ultra) resolved per device, and the
// session controller that degrades settings under render-time or memory
// pressure and recovers only on explicit reset.
//
// ## Engine
//
// [scribe] - The rendering engine: validates configs, chunks long
// documents, lays out glyphs, checkpoints between chunks for cancellation
// and supersession, and commits finished pages.
//
// [sched] - Yielder abstraction the engine checkpoints through, with a
// visibility gate for hosts that pause hidden work.
//
// [imageio] - Decode paper assets (PNG, JPEG) and encode pages with a
// quality-driven compression level.
//
// [errors] - Typed error codes, wrapping helpers, and validation shared by
// every package.
//
// [observability] - Lightweight hook registry so hosts can observe loads,
// cache traffic, memory passes, and render stages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/scribe/...       # Specific package
//	go test -run TestRender ./...  # Render paths only
//
// [paper]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/paper
// [ink]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/ink
// [pen]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/pen
// [fonts]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/fonts
// [texture]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/texture
// [cache]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/cache
// [canvas]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/canvas
// [memval]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/memval
// [httputil]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/httputil
// [fallback]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/fallback
// [device]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/device
// [quality]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/quality
// [scribe]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/scribe
// [sched]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/sched
// [imageio]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/imageio
// [errors]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/errors
// [observability]: https://pkg.go.dev/github.com/th3400l/scrawl/pkg/observability
package pkg
