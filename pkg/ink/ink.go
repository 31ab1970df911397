// Package ink models pen inks: named color profiles with deterministic
// variation palettes and paper-interaction texture parameters.
//
// The stroke renderer asks an ink for a Result (color, opacity, blend
// mode) per stroke intensity. The same profile and intensity always
// resolve to the same Result, so re-rendering a document reproduces it
// pixel for pixel. Malformed profiles never reach the stroke loop:
// Render validates and substitutes a fixed fallback ink instead of
// failing mid-render.
package ink

import (
	"image/color"

	"github.com/th3400l/scrawl/pkg/errors"
)

// Pattern names the paper-interaction archetype of an ink.
type Pattern string

const (
	// PatternSmooth lays pigment evenly, like a gel or rollerball pen.
	PatternSmooth Pattern = "smooth"

	// PatternGrainy breaks coverage into specks, like pencil or dry ballpoint.
	PatternGrainy Pattern = "grainy"

	// PatternFibrous feathers along paper fibers, like a fountain pen.
	PatternFibrous Pattern = "fibrous"
)

// Texture describes how an ink sits on paper. All fields are in [0, 1].
type Texture struct {
	Pattern Pattern `toml:"pattern"`

	// Roughness is the amplitude of coverage breakup; rough inks read lighter.
	Roughness float64 `toml:"roughness"`

	// Absorption is how much pigment the paper drinks before it dries.
	Absorption float64 `toml:"absorption"`

	// BleedEffect is the tendency of wet ink to creep into neighboring fibers.
	BleedEffect float64 `toml:"bleed_effect"`
}

// opacityFactor folds paper interaction into a palette opacity.
// Absorbent paper drinks pigment and rough patterns break coverage,
// both of which read as lighter ink on the page.
func (t Texture) opacityFactor() float64 {
	return (1 - 0.25*t.Absorption) * (1 - 0.15*t.Roughness)
}

// Variation is one precomputed palette entry of a profile. Entries are
// ordered from thin, light ink to dense, dark ink.
type Variation struct {
	Color      color.NRGBA
	Opacity    float64
	Saturation float64
	Brightness float64
}

// Result is the resolved ink for one stroke: what color to paint, how
// opaque, and which compositing mode to paint it with.
type Result struct {
	Color   color.NRGBA
	Opacity float64
	Blend   BlendMode
}

// Profile is a named ink. BaseColor stays in hex form because profiles
// arrive from configuration; the parsed palette lives in Variations.
type Profile struct {
	Name        string    `toml:"name"`
	BaseColor   string    `toml:"color"`
	BaseOpacity float64   `toml:"opacity"`
	Blend       BlendMode `toml:"blend"`
	Texture     Texture   `toml:"texture"`

	Variations []Variation `toml:"-"`
}

// NewProfile builds a validated profile with its variation palette
// precomputed from the base color.
func NewProfile(name, baseHex string, opacity float64, blend BlendMode, tex Texture) (*Profile, error) {
	variations, err := GenerateVariations(baseHex)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		Name:        name,
		BaseColor:   baseHex,
		BaseOpacity: opacity,
		Blend:       blend,
		Texture:     tex,
		Variations:  variations,
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects malformed profiles: bad hex colors, empty variation
// palettes, out-of-range opacities or texture parameters. An unknown
// blend mode is not an error; blend resolution degrades it to
// source-over at composite time.
func Validate(p *Profile) error {
	if p == nil {
		return errors.New(errors.ErrCodeInvalidInk, "nil ink profile")
	}
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidInk, "ink profile name cannot be empty")
	}
	if err := errors.ValidateHexColor(p.BaseColor); err != nil {
		return err
	}
	if err := errors.ValidateOpacity(p.BaseOpacity); err != nil {
		return err
	}
	if len(p.Variations) == 0 {
		return errors.New(errors.ErrCodeInvalidInk, "ink profile %q has an empty variation palette", p.Name)
	}
	for i, v := range p.Variations {
		if v.Opacity <= 0 || v.Opacity > 1 {
			return errors.New(errors.ErrCodeInvalidInk, "ink profile %q variation %d opacity out of range: %g", p.Name, i, v.Opacity)
		}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"roughness", p.Texture.Roughness},
		{"absorption", p.Texture.Absorption},
		{"bleed_effect", p.Texture.BleedEffect},
	} {
		if f.value < 0 || f.value > 1 {
			return errors.New(errors.ErrCodeInvalidInk, "ink profile %q texture %s out of range: %g", p.Name, f.name, f.value)
		}
	}
	return nil
}

// Render resolves a profile and stroke intensity to concrete ink.
// Intensity in [0, 1] maps deterministically onto the variation palette;
// values outside the range are clamped. Invalid profiles yield the
// fixed fallback ink so a bad config can never abort a render.
func Render(p *Profile, intensity float64) Result {
	return Prepare(p).Render(intensity)
}

// Prepared is a profile checked and resolved once so the per-glyph hot
// path skips revalidation and blend lookup. An invalid profile prepares
// to the fixed fallback ink.
type Prepared struct {
	profile *Profile
	mode    BlendMode
	comp    Compositor
	ok      bool
}

// Prepare validates a profile and resolves its blend mode up front.
func Prepare(p *Profile) Prepared {
	if err := Validate(p); err != nil {
		_, comp := CompositorFor(BlendSourceOver)
		return Prepared{mode: BlendSourceOver, comp: comp}
	}
	mode, comp := CompositorFor(p.Blend)
	return Prepared{profile: p, mode: mode, comp: comp, ok: true}
}

// Valid reports whether the prepared profile passed validation.
func (pr Prepared) Valid() bool { return pr.ok }

// Compositor returns the resolved pixel compositor.
func (pr Prepared) Compositor() Compositor { return pr.comp }

// Render resolves a stroke intensity against the prepared profile.
func (pr Prepared) Render(intensity float64) Result {
	if !pr.ok {
		return FallbackResult()
	}
	v := pr.profile.Variations[paletteIndex(intensity, len(pr.profile.Variations))]
	return Result{
		Color:   v.Color,
		Opacity: clampOpacity(pr.profile.BaseOpacity * v.Opacity * pr.profile.Texture.opacityFactor()),
		Blend:   pr.mode,
	}
}

// FallbackResult is the fixed ink used when a profile fails validation:
// a plain dark ballpoint blue that every backend can composite.
func FallbackResult() Result {
	return Result{
		Color:   color.NRGBA{R: 0x1b, G: 0x2a, B: 0x55, A: 0xff},
		Opacity: 0.9,
		Blend:   BlendSourceOver,
	}
}

// paletteIndex maps an intensity in [0, 1] to a palette index. The
// mapping is a plain scale-and-truncate so equal intensities always
// select the same entry.
func paletteIndex(intensity float64, n int) int {
	if n <= 0 {
		return 0
	}
	x := min(max(intensity, 0), 1)
	idx := int(x * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

func clampOpacity(v float64) float64 {
	return min(max(v, 0.05), 1)
}
