package scribe

import (
	"fmt"
	"hash/fnv"

	"github.com/th3400l/scrawl/pkg/errors"
)

// Margins is the blank frame around the written area, in pixels.
type Margins struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

func (m Margins) zero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// RenderingConfig describes one document render. It is a value type:
// callers build it, hand it to RenderDocument, and identical configs
// produce identical pages. This struct supports JSON serialization so
// hosts can persist or replay render requests.
type RenderingConfig struct {
	// Text is the document body. Whitespace, including newlines, is
	// laid out as written.
	Text string `json:"text"`

	// TemplateID names the paper template from the catalog.
	TemplateID string `json:"template_id,omitempty"`

	// CanvasWidth and CanvasHeight are the output dimensions in pixels.
	CanvasWidth  int `json:"canvas_width,omitempty"`
	CanvasHeight int `json:"canvas_height,omitempty"`

	// InkProfile names a registered ink. Unknown names fall back to
	// the built-in fallback ink rather than failing the render.
	InkProfile string `json:"ink,omitempty"`

	// Font is a font file path or an installed family name. Empty
	// walks the handwriting candidate chain.
	Font string `json:"font,omitempty"`

	// Quality in (0, 1] overrides the session texture quality for this
	// render. Zero inherits the quality controller's current settings.
	Quality float64 `json:"quality,omitempty"`

	// FontSize is the face size in points (1pt == 1px at render DPI).
	FontSize float64 `json:"font_size,omitempty"`

	// LineSpacing multiplies the face's natural line height.
	LineSpacing float64 `json:"line_spacing,omitempty"`

	// Margins frame the written area. All-zero selects the default
	// frame; pass small explicit values for near-full-bleed pages.
	Margins Margins `json:"margins,omitempty"`

	// Hand character. Zero amplitudes mean a perfectly steady hand;
	// DefaultConfig returns the house style.
	BaselineJitter      float64 `json:"baseline_jitter,omitempty"`
	LetterSpacingJitter float64 `json:"letter_spacing_jitter,omitempty"`
	SlantJitter         float64 `json:"slant_jitter,omitempty"`
	InkFlowVariation    float64 `json:"ink_flow,omitempty"`

	// Seed fixes the jitter stream. The same seed with the same config
	// reproduces the page glyph for glyph.
	Seed int64 `json:"seed,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Default document geometry. The canvas matches the placeholder paper
// size, so even a catalog-less engine produces a coherent page.
const (
	defaultTemplateID   = "blank-1"
	defaultCanvasWidth  = 800
	defaultCanvasHeight = 1000
	defaultInkProfile   = "blue"
	defaultFontSize     = 24
	defaultLineSpacing  = 1.5
)

func defaultMargins() Margins {
	return Margins{Top: 96, Right: 72, Bottom: 96, Left: 72}
}

// DefaultConfig returns a config in the house hand style. Callers set
// Text and override whatever they need.
func DefaultConfig() RenderingConfig {
	return RenderingConfig{
		TemplateID:          defaultTemplateID,
		CanvasWidth:         defaultCanvasWidth,
		CanvasHeight:        defaultCanvasHeight,
		InkProfile:          defaultInkProfile,
		FontSize:            defaultFontSize,
		LineSpacing:         defaultLineSpacing,
		Margins:             defaultMargins(),
		BaselineJitter:      1.5,
		LetterSpacingJitter: 0.8,
		SlantJitter:         0.04,
		InkFlowVariation:    0.6,
	}
}

// ValidateAndSetDefaults fills structural zero fields with defaults and
// checks every field range. Hand-style amplitudes are left alone: zero
// jitter is a valid, perfectly steady hand.
func (c *RenderingConfig) ValidateAndSetDefaults() error {
	if c.TemplateID == "" {
		c.TemplateID = defaultTemplateID
	}
	if c.CanvasWidth == 0 {
		c.CanvasWidth = defaultCanvasWidth
	}
	if c.CanvasHeight == 0 {
		c.CanvasHeight = defaultCanvasHeight
	}
	if c.InkProfile == "" {
		c.InkProfile = defaultInkProfile
	}
	if c.FontSize == 0 {
		c.FontSize = defaultFontSize
	}
	if c.LineSpacing == 0 {
		c.LineSpacing = defaultLineSpacing
	}
	if c.Margins.zero() {
		c.Margins = defaultMargins()
	}

	if c.CanvasWidth < 64 || c.CanvasWidth > 8192 ||
		c.CanvasHeight < 64 || c.CanvasHeight > 8192 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"canvas %dx%d out of range (64..8192 per side)", c.CanvasWidth, c.CanvasHeight)
	}
	if c.Quality < 0 || c.Quality > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "quality %.2f out of range (0, 1]", c.Quality)
	}
	if c.FontSize < 4 || c.FontSize > 200 {
		return errors.New(errors.ErrCodeInvalidConfig, "font size %.1f out of range (4..200)", c.FontSize)
	}
	if c.LineSpacing < 0.5 || c.LineSpacing > 4 {
		return errors.New(errors.ErrCodeInvalidConfig, "line spacing %.2f out of range (0.5..4)", c.LineSpacing)
	}
	if c.Margins.Top < 0 || c.Margins.Right < 0 || c.Margins.Bottom < 0 || c.Margins.Left < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "margins must not be negative")
	}
	if c.Margins.Left+c.Margins.Right >= float64(c.CanvasWidth) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"horizontal margins %.0f leave no room on a %dpx canvas", c.Margins.Left+c.Margins.Right, c.CanvasWidth)
	}
	if c.Margins.Top+c.Margins.Bottom >= float64(c.CanvasHeight) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"vertical margins %.0f leave no room on a %dpx canvas", c.Margins.Top+c.Margins.Bottom, c.CanvasHeight)
	}
	if c.BaselineJitter < 0 || c.BaselineJitter > 32 {
		return errors.New(errors.ErrCodeInvalidConfig, "baseline jitter %.1f out of range (0..32)", c.BaselineJitter)
	}
	if c.LetterSpacingJitter < 0 || c.LetterSpacingJitter > 16 {
		return errors.New(errors.ErrCodeInvalidConfig, "letter spacing jitter %.1f out of range (0..16)", c.LetterSpacingJitter)
	}
	if c.SlantJitter < 0 || c.SlantJitter > 0.5 {
		return errors.New(errors.ErrCodeInvalidConfig, "slant jitter %.2f out of range (0..0.5)", c.SlantJitter)
	}
	if c.InkFlowVariation < 0 || c.InkFlowVariation > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ink flow variation %.2f out of range (0..1)", c.InkFlowVariation)
	}

	c.validated = true
	return nil
}

// Hash fingerprints the config. Any field change yields a new hash, so
// it doubles as a replay and diagnostics key.
func (c RenderingConfig) Hash() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%dx%d|%s|%s|%g|%g|%g",
		c.Text, c.TemplateID, c.CanvasWidth, c.CanvasHeight,
		c.InkProfile, c.Font, c.Quality, c.FontSize, c.LineSpacing)
	fmt.Fprintf(h, "|%g,%g,%g,%g|%g|%g|%g|%g|%d",
		c.Margins.Top, c.Margins.Right, c.Margins.Bottom, c.Margins.Left,
		c.BaselineJitter, c.LetterSpacingJitter, c.SlantJitter, c.InkFlowVariation,
		c.Seed)
	return fmt.Sprintf("%016x", h.Sum64())
}
