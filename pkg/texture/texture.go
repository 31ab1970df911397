// Package texture loads, processes, and caches paper textures.
//
// A PaperTexture is the decoded raster a render draws on. The package is
// organized as small collaborators an engine composes: a Loader fetches
// raw asset bytes by reference, a Processor applies raster transforms, the
// Manager ties loading, decoding, processing, and the in-memory cache into
// a single Load call, and the ProgressiveLoader layers tiered loading,
// retry, and placeholder fallback on top of the Manager for unreliable
// networks and constrained devices.
package texture

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/th3400l/scrawl/pkg/cache"
)

// Origin identifies which source produced a texture.
type Origin string

const (
	// OriginAssetFull means the full-quality asset tier was decoded.
	OriginAssetFull Origin = "asset-full"

	// OriginAssetLow means the reduced-quality asset tier was decoded.
	OriginAssetLow Origin = "asset-low"

	// OriginPlaceholder means the texture was synthesized locally after
	// every asset tier failed.
	OriginPlaceholder Origin = "placeholder"
)

// PaperTexture is a decoded paper background ready for rendering.
//
// Textures are constructed only through NewPaperTexture, which requires a
// decoded base image, so any texture handed to a caller is usable. Treat
// the pixel data as immutable once constructed: the cache shares one
// texture between renders.
type PaperTexture struct {
	base       *image.RGBA
	overlay    *image.RGBA
	origin     Origin
	templateID string
	processed  bool
}

// NewPaperTexture creates a texture from a decoded base image. The overlay
// is optional and nil when the template has no separate line layer.
func NewPaperTexture(templateID string, base *image.RGBA, overlay *image.RGBA, origin Origin) (*PaperTexture, error) {
	if base == nil {
		return nil, fmt.Errorf("texture %s: base image is nil", templateID)
	}
	if base.Bounds().Empty() {
		return nil, fmt.Errorf("texture %s: base image is empty", templateID)
	}
	return &PaperTexture{
		base:       base,
		overlay:    overlay,
		origin:     origin,
		templateID: templateID,
	}, nil
}

// TemplateID returns the catalog ID of the template this texture renders.
func (t *PaperTexture) TemplateID() string { return t.templateID }

// Base returns the base paper image.
func (t *PaperTexture) Base() *image.RGBA { return t.base }

// Overlay returns the line overlay image, or nil if the texture has none.
func (t *PaperTexture) Overlay() *image.RGBA { return t.overlay }

// Origin reports which source produced this texture.
func (t *PaperTexture) Origin() Origin { return t.origin }

// Loaded reports whether every layer of the texture is fully decoded.
// It is true for any texture obtained through NewPaperTexture: the
// constructor refuses a nil or empty base, and an overlay is attached
// only after decode, so a partially-initialized texture cannot exist
// for Loaded to be false on.
func (t *PaperTexture) Loaded() bool {
	return t != nil && t.base != nil && !t.base.Bounds().Empty()
}

// Placeholder reports whether this texture was synthesized locally.
func (t *PaperTexture) Placeholder() bool { return t.origin == OriginPlaceholder }

// Processed reports whether raster processing has been applied.
func (t *PaperTexture) Processed() bool { return t.processed }

// Bounds returns the pixel bounds of the base image.
func (t *PaperTexture) Bounds() image.Rectangle { return t.base.Bounds() }

// SizeBytes estimates the memory held by the texture's pixel data.
func (t *PaperTexture) SizeBytes() int64 {
	n := int64(len(t.base.Pix))
	if t.overlay != nil {
		n += int64(len(t.overlay.Pix))
	}
	return n
}

// TextureSize is the sizeOf function for a cache.Store holding textures.
func TextureSize(t *PaperTexture) int64 {
	if t == nil {
		return 0
	}
	return t.SizeBytes()
}

// ProcessingOptions selects the raster transforms applied after decode.
// The zero value means no processing.
type ProcessingOptions struct {
	// Scale resizes the base image by this factor. Zero or one leaves
	// the size unchanged.
	Scale float64

	// Quality in (0, 1] selects the resampling filter used when scaling.
	// Zero means full quality.
	Quality float64

	// MaxDimension clamps the longest image side, preserving aspect
	// ratio. Zero means no clamp.
	MaxDimension int

	// Filters are named raster filters applied in order after scaling.
	// Supported names: grayscale, sharpen, blur, contrast.
	Filters []string
}

// IsZero reports whether the options request no processing at all.
func (o ProcessingOptions) IsZero() bool {
	return (o.Scale == 0 || o.Scale == 1) && o.MaxDimension == 0 && len(o.Filters) == 0
}

// Key returns a stable cache-key fragment for the options. Filter order
// is normalized so equivalent options share a key.
func (o ProcessingOptions) Key() string {
	if o.IsZero() {
		return "raw"
	}
	filters := append([]string(nil), o.Filters...)
	sort.Strings(filters)
	return fmt.Sprintf("s%.3f-q%.3f-m%d-%s", o.Scale, o.Quality, o.MaxDimension, strings.Join(filters, "+"))
}

// CacheKey builds the cache key for a template rendered with the given
// options. Keys share the template ID as a prefix so Manager.Remove can
// drop every variant of one template with a single prefix sweep.
func CacheKey(templateID string, opts ProcessingOptions) string {
	return cache.KeyFor(templateID, opts.Key())
}
