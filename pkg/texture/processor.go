package texture

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/imageio"
)

// Processor applies raster transforms to decoded textures: quality-driven
// resampling, dimension clamping, and a small set of named filters.
//
// Process never mutates its input. Processing failures are non-fatal by
// contract: the Manager logs them and renders with the unprocessed
// texture, so a bad filter name degrades output instead of killing a job.
type Processor struct{}

// NeedsProcessing reports whether opts would actually change the texture.
// A texture already within the dimension clamp with no scale or filters
// requested skips the processing stage entirely.
func NeedsProcessing(tex *PaperTexture, opts ProcessingOptions) bool {
	if tex == nil || opts.IsZero() {
		return false
	}
	if len(opts.Filters) > 0 {
		return true
	}
	if opts.Scale > 0 && opts.Scale != 1 {
		return true
	}
	if opts.MaxDimension > 0 {
		b := tex.Bounds()
		return b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension
	}
	return false
}

// Process returns a new texture with the requested transforms applied.
// Zero-value options return the input unchanged.
func (p *Processor) Process(tex *PaperTexture, opts ProcessingOptions) (*PaperTexture, error) {
	if tex == nil {
		return nil, errors.New(errors.ErrCodeProcessingFailed, "nil texture")
	}
	if opts.IsZero() {
		return tex, nil
	}

	base, err := p.processImage(tex.base, opts)
	if err != nil {
		return nil, err
	}
	var overlay *image.RGBA
	if tex.overlay != nil {
		if overlay, err = p.processImage(tex.overlay, opts); err != nil {
			return nil, err
		}
	}

	out, err := NewPaperTexture(tex.templateID, base, overlay, tex.origin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProcessingFailed, err, "texture %s", tex.templateID)
	}
	out.processed = true
	return out, nil
}

func (p *Processor) processImage(src *image.RGBA, opts ProcessingOptions) (*image.RGBA, error) {
	var img image.Image = src

	if opts.Scale > 0 && opts.Scale != 1 {
		b := img.Bounds()
		w := int(math.Round(float64(b.Dx()) * opts.Scale))
		h := int(math.Round(float64(b.Dy()) * opts.Scale))
		if w < 1 || h < 1 {
			return nil, errors.New(errors.ErrCodeProcessingFailed, "scale %.3f collapses image to zero size", opts.Scale)
		}
		img = imaging.Resize(img, w, h, resampleFilter(opts.Quality))
	}

	if opts.MaxDimension > 0 {
		b := img.Bounds()
		if b.Dx() > opts.MaxDimension || b.Dy() > opts.MaxDimension {
			img = imaging.Fit(img, opts.MaxDimension, opts.MaxDimension, resampleFilter(opts.Quality))
		}
	}

	for _, name := range opts.Filters {
		var err error
		if img, err = applyFilter(img, name); err != nil {
			return nil, err
		}
	}

	return imageio.ToRGBA(img), nil
}

// resampleFilter maps a quality level in (0, 1] to a resampling filter.
// Higher quality buys a more expensive kernel.
func resampleFilter(quality float64) imaging.ResampleFilter {
	switch {
	case quality == 0 || quality >= 0.8:
		return imaging.Lanczos
	case quality >= 0.4:
		return imaging.Linear
	default:
		return imaging.NearestNeighbor
	}
}

func applyFilter(img image.Image, name string) (image.Image, error) {
	switch name {
	case "grayscale":
		return imaging.Grayscale(img), nil
	case "sharpen":
		return imaging.Sharpen(img, 0.5), nil
	case "blur":
		return imaging.Blur(img, 0.6), nil
	case "contrast":
		return imaging.AdjustContrast(img, 10), nil
	default:
		return nil, errors.New(errors.ErrCodeProcessingFailed, "unknown filter %q", name)
	}
}
