package texture

import (
	"github.com/fogleman/gg"

	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/imageio"
	"github.com/th3400l/scrawl/pkg/paper"
)

// Default placeholder dimensions, roughly an A4 page at screen resolution.
const (
	placeholderWidth  = 800
	placeholderHeight = 1000

	ruleSpacing = 36.0
	dotSpacing  = 28.0
)

// Synthesize draws a local stand-in texture for a template whose assets
// could not be loaded: a warm paper base plus the template's structural
// grid. Synthesis is deterministic, so repeated failures produce the
// identical page.
func Synthesize(tmpl paper.Template, width, height int) (*PaperTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "placeholder for %s: size %dx%d", tmpl.ID, width, height)
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB255(251, 249, 243)
	dc.Clear()

	w, h := float64(width), float64(height)
	switch tmpl.Structural {
	case paper.StructuralLined:
		dc.SetRGBA(0.63, 0.71, 0.82, 0.85)
		dc.SetLineWidth(1)
		for y := ruleSpacing * 2; y < h; y += ruleSpacing {
			dc.DrawLine(0, y, w, y)
			dc.Stroke()
		}
	case paper.StructuralDotted:
		dc.SetRGBA(0.55, 0.58, 0.62, 0.8)
		for y := dotSpacing; y < h; y += dotSpacing {
			for x := dotSpacing; x < w; x += dotSpacing {
				dc.DrawCircle(x, y, 1.2)
				dc.Fill()
			}
		}
	case paper.StructuralBlank:
		// Base fill only.
	}

	return NewPaperTexture(tmpl.ID, imageio.ToRGBA(dc.Image()), nil, OriginPlaceholder)
}

// SynthesizeDefault synthesizes a placeholder at the standard page size.
func SynthesizeDefault(tmpl paper.Template) (*PaperTexture, error) {
	return Synthesize(tmpl, placeholderWidth, placeholderHeight)
}
