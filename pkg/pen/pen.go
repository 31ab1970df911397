// Package pen turns glyphs into ink strokes on a raster surface.
//
// A Pen binds a destination surface, a font face, and a prepared ink
// profile for one render pass. Each glyph gets deterministic jitter
// (baseline drift, letter-slot displacement, slant, ink flow) derived
// from the pass seed and the glyph's document index, so the same seed
// reproduces the same page exactly. Glyphs are rasterized through a
// scratch layer and composited pixel by pixel with the ink's blend
// mode; the advance returned to the caller is always the nominal font
// advance, so line measurement stays independent of jitter.
//
// A Pen is not safe for concurrent use. The renderer draws one
// document at a time with a fresh pen per pass.
package pen

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"unicode"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/th3400l/scrawl/pkg/ink"
)

// StrokeRenderer paints glyphs one at a time onto a surface. It is the
// drawing primitive the progressive renderer consumes; the default
// implementation is Pen.
type StrokeRenderer interface {
	// LineHeight is the face's natural line height in pixels.
	LineHeight() float64

	// Ascent is the distance from the baseline to the glyph tops in
	// pixels. Layouts use it to place the first baseline of a page.
	Ascent() float64

	// Advance is the nominal horizontal advance of a rune in pixels.
	Advance(r rune) float64

	// MeasureWord is the drawn width of a word in pixels.
	MeasureWord(word string) float64

	// DrawGlyph paints the rune with its baseline at (x, y), using the
	// jitter for document glyph index idx, and returns the advance the
	// caller should move the pen position by. Whitespace advances
	// without drawing.
	DrawGlyph(idx int, r rune, x, y float64) float64
}

// Config sets the handwriting character of a pen. Amplitudes are in
// pixels except SlantJitter, which is a shear factor (horizontal
// displacement per vertical pixel), and InkFlowVariation, which widens
// the band of palette intensities glyphs draw from.
type Config struct {
	BaselineJitter      float64
	LetterSpacingJitter float64
	SlantJitter         float64
	InkFlowVariation    float64
	Antialiasing        bool
	Seed                uint64
}

// DefaultConfig is a moderately untidy hand.
func DefaultConfig() Config {
	return Config{
		BaselineJitter:      1.5,
		LetterSpacingJitter: 0.8,
		SlantJitter:         0.04,
		InkFlowVariation:    0.6,
		Antialiasing:        true,
	}
}

// glyphStride spreads consecutive glyph indices across the seed space.
const glyphStride = 0x9e3779b97f4a7c15

// Pen is the default StrokeRenderer.
type Pen struct {
	dst      *image.RGBA
	scratch  *image.RGBA
	dc       *gg.Context
	face     font.Face
	prepared ink.Prepared
	comp     ink.Compositor
	cfg      Config

	ascent  float64
	descent float64
	height  float64
}

// New binds a pen to a destination surface for one render pass. The
// profile may be invalid; strokes then use the fixed fallback ink.
func New(dst *image.RGBA, face font.Face, profile *ink.Profile, cfg Config) *Pen {
	cfg.BaselineJitter = max(cfg.BaselineJitter, 0)
	cfg.LetterSpacingJitter = max(cfg.LetterSpacingJitter, 0)
	cfg.InkFlowVariation = min(max(cfg.InkFlowVariation, 0), 1)

	scratch := image.NewRGBA(dst.Bounds())
	dc := gg.NewContextForRGBA(scratch)
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)

	prepared := ink.Prepare(profile)
	m := face.Metrics()
	return &Pen{
		dst:      dst,
		scratch:  scratch,
		dc:       dc,
		face:     face,
		prepared: prepared,
		comp:     prepared.Compositor(),
		cfg:      cfg,
		ascent:   fixedToFloat(m.Ascent),
		descent:  fixedToFloat(m.Descent),
		height:   fixedToFloat(m.Height),
	}
}

// Ink returns the prepared ink profile the pen draws with.
func (p *Pen) Ink() ink.Prepared { return p.prepared }

func (p *Pen) LineHeight() float64 { return p.height }

// Ascent is the distance from baseline to the top of the tallest glyph.
func (p *Pen) Ascent() float64 { return p.ascent }

func (p *Pen) Advance(r rune) float64 {
	adv, ok := p.face.GlyphAdvance(r)
	if !ok {
		adv, _ = p.face.GlyphAdvance('?')
	}
	return fixedToFloat(adv)
}

func (p *Pen) MeasureWord(word string) float64 {
	var w float64
	for _, r := range word {
		w += p.Advance(r)
	}
	return w
}

func (p *Pen) DrawGlyph(idx int, r rune, x, y float64) float64 {
	adv := p.Advance(r)
	if unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return adv
	}

	j := p.jitterAt(idx)
	res := p.prepared.Render(0.5 + (j.flow-0.5)*p.cfg.InkFlowVariation)
	gx, gy := x+j.dx, y+j.dy

	p.dc.Push()
	if j.slant != 0 {
		p.dc.ShearAbout(j.slant, 0, gx, gy)
	}
	p.dc.DrawString(string(r), gx, gy)
	p.dc.Pop()

	p.compositeAndClear(p.glyphBox(gx, gy, adv, j.slant), res)
	return adv
}

type glyphJitter struct {
	dx, dy float64
	slant  float64
	flow   float64
}

// jitterAt derives the deterministic jitter for one glyph. All four
// draws happen unconditionally so a config change never shifts which
// random values later glyphs receive.
func (p *Pen) jitterAt(idx int) glyphJitter {
	seed := p.cfg.Seed + uint64(idx)*glyphStride
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	return glyphJitter{
		dx:    (rng.Float64()*2 - 1) * p.cfg.LetterSpacingJitter,
		dy:    (rng.Float64()*2 - 1) * p.cfg.BaselineJitter,
		slant: (rng.Float64()*2 - 1) * p.cfg.SlantJitter,
		flow:  rng.Float64(),
	}
}

// glyphBox bounds where a glyph can have touched the scratch layer.
func (p *Pen) glyphBox(gx, gy, adv, slant float64) image.Rectangle {
	shearPad := math.Abs(slant) * (p.ascent + p.descent)
	const pad = 4.0
	return image.Rect(
		int(math.Floor(gx-pad-shearPad)),
		int(math.Floor(gy-p.ascent-pad)),
		int(math.Ceil(gx+adv+pad+shearPad)),
		int(math.Ceil(gy+p.descent+pad)),
	)
}

// compositeAndClear folds the scratch coverage inside box onto the
// destination with the ink compositor, then wipes that scratch region
// so the next glyph starts clean.
func (p *Pen) compositeAndClear(box image.Rectangle, res ink.Result) {
	box = box.Intersect(p.scratch.Bounds())
	if box.Empty() {
		return
	}

	for y := box.Min.Y; y < box.Max.Y; y++ {
		row := p.scratch.Pix[p.scratch.PixOffset(box.Min.X, y):p.scratch.PixOffset(box.Max.X, y)]
		for i := 3; i < len(row); i += 4 {
			a := row[i]
			if a == 0 {
				continue
			}
			alpha := float64(a) / 255 * res.Opacity
			if !p.cfg.Antialiasing {
				if a < 0x80 {
					continue
				}
				alpha = res.Opacity
			}
			x := box.Min.X + i/4
			d := p.dst.RGBAAt(x, y)
			out := p.comp(color.NRGBA{R: d.R, G: d.G, B: d.B, A: d.A}, res.Color, alpha)
			p.dst.SetRGBA(x, y, color.RGBA{R: out.R, G: out.G, B: out.B, A: out.A})
		}
		clear(row)
	}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
