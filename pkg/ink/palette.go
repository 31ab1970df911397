package ink

import (
	"encoding/binary"
	"hash/fnv"
	"image/color"
	"math/rand/v2"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/th3400l/scrawl/pkg/errors"
)

// paletteSize is how many variations each profile precomputes. Small on
// purpose: the palette exists to break up machine-flat color, not to
// model real pigment chemistry.
const paletteSize = 5

// palettePhase seeds the variation generator so palettes are stable
// across processes and releases.
const palettePhase uint64 = 0x9e3779b9

// ParseHex parses a #RGB or #RRGGBB hex string.
func ParseHex(s string) (colorful.Color, error) {
	if err := errors.ValidateHexColor(s); err != nil {
		return colorful.Color{}, err
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidInk, err, "parse hex color %q", s)
	}
	return c, nil
}

// FormatHex renders a color back into #rrggbb notation.
func FormatHex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// GenerateVariations derives the deterministic variation palette for a
// base color. The base hex is folded into the generator seed, so the
// same base always yields an identical palette and different bases
// diverge. Entries walk from a thin, light ink toward a dense one with
// a little jitter so the steps do not look machine-made.
func GenerateVariations(baseHex string) ([]Variation, error) {
	base, err := ParseHex(baseHex)
	if err != nil {
		return nil, err
	}

	seed := hash(strings.ToLower(baseHex), palettePhase)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	h, s, l := base.Hsl()
	out := make([]Variation, paletteSize)
	for i := range out {
		t := float64(i) / float64(paletteSize-1)
		sat := clamp01(s + (rng.Float64()*2-1)*0.06)
		light := clamp01(l + 0.08 - 0.16*t + (rng.Float64()*2-1)*0.02)
		c := colorful.Hsl(h, sat, light).Clamped()
		out[i] = Variation{
			Color:      toNRGBA(c),
			Opacity:    min(0.8+0.2*t+rng.Float64()*0.04, 1.0),
			Saturation: sat,
			Brightness: light,
		}
	}
	return out, nil
}

// hash folds a string and a seed into a generator seed.
func hash(s string, seed uint64) uint64 {
	h := fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	_, _ = h.Write(b[:])
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
