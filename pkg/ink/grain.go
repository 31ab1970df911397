package ink

import (
	"image"
	"image/color"
	"math/rand/v2"
)

// grainPhase seeds speck placement per profile so repeated renders of
// the same document produce identical grain.
const grainPhase uint64 = 0x67726e

// grainDensity is the fraction of surface pixels sampled per unit of
// roughness.
const grainDensity = 0.004

// inkLumaCutoff separates inked pixels from paper. Paper tones sit well
// above it, stroke pigment well below.
const inkLumaCutoff = 176.0

// ApplyTexture stamps the profile's paper-interaction grain over a
// rendered surface: rough inks lose speckles of pigment to the paper
// tooth, and wet inks bleed into neighboring fibers. Only pixels dark
// enough to be ink are touched, so paper and ruling stay crisp. The
// grain field is deterministic per profile name.
func ApplyTexture(dst *image.RGBA, p *Profile) {
	if dst == nil || p == nil {
		return
	}
	tex := p.Texture
	if tex.Roughness <= 0 && tex.BleedEffect <= 0 {
		return
	}

	b := dst.Bounds()
	if b.Empty() {
		return
	}

	density := grainDensity * max(tex.Roughness, 0.05)
	switch tex.Pattern {
	case PatternSmooth:
		density *= 0.4
	case PatternFibrous:
		density *= 1.5
	}
	specks := int(float64(b.Dx()*b.Dy()) * density)

	seed := hash(p.Name, grainPhase)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	for i := 0; i < specks; i++ {
		x := b.Min.X + rng.IntN(b.Dx())
		y := b.Min.Y + rng.IntN(b.Dy())
		px := dst.RGBAAt(x, y)
		if luminance(px.R, px.G, px.B) > inkLumaCutoff {
			continue
		}

		// Paper tooth: lift a fleck of pigment back toward the page.
		lift := uint8(6 + rng.IntN(16))
		dst.SetRGBA(x, y, lighten(px, lift))

		if tex.BleedEffect > 0 && rng.Float64() < tex.BleedEffect {
			bleedInto(dst, x, y, px, rng)
		}
	}
}

// bleedInto pushes a faint copy of an inked pixel into one neighboring
// paper pixel, feathering the stroke edge.
func bleedInto(dst *image.RGBA, x, y int, src color.RGBA, rng *rand.Rand) {
	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	d := dirs[rng.IntN(len(dirs))]
	nx, ny := x+d[0], y+d[1]
	if !image.Pt(nx, ny).In(dst.Bounds()) {
		return
	}
	np := dst.RGBAAt(nx, ny)
	if luminance(np.R, np.G, np.B) <= inkLumaCutoff {
		return
	}
	const bleedAlpha = 0.18
	np.R = mix8(np.R, src.R, bleedAlpha)
	np.G = mix8(np.G, src.G, bleedAlpha)
	np.B = mix8(np.B, src.B, bleedAlpha)
	dst.SetRGBA(nx, ny, np)
}

func luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

func lighten(c color.RGBA, by uint8) color.RGBA {
	c.R = addClamp(c.R, by)
	c.G = addClamp(c.G, by)
	c.B = addClamp(c.B, by)
	return c
}

func addClamp(v, by uint8) uint8 {
	s := uint16(v) + uint16(by)
	if s > 0xff {
		return 0xff
	}
	return uint8(s)
}
