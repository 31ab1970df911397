package ink

import (
	"context"
	"image/color"

	"github.com/th3400l/scrawl/pkg/errors"
	"github.com/th3400l/scrawl/pkg/fallback"
)

// BlendMode names a compositing operation for painting ink over paper.
type BlendMode string

const (
	// BlendSourceOver is plain alpha compositing. Always available.
	BlendSourceOver BlendMode = "source-over"

	// BlendMultiply darkens by multiplying channels, the closest match
	// to how translucent ink layers on paper.
	BlendMultiply BlendMode = "multiply"

	// BlendDarken keeps the darker of ink and paper per channel.
	BlendDarken BlendMode = "darken"
)

// Compositor merges one ink sample into a destination pixel at the
// given alpha in [0, 1].
type Compositor func(dst, src color.NRGBA, alpha float64) color.NRGBA

// compositors maps each blend mode the raster backend implements to its
// pixel operation.
var compositors = map[BlendMode]Compositor{
	BlendSourceOver: compositeSourceOver,
	BlendMultiply:   compositeMultiply,
	BlendDarken:     compositeDarken,
}

// Supported reports whether the raster backend implements a blend mode.
func Supported(mode BlendMode) bool {
	_, ok := compositors[mode]
	return ok
}

// CompositorFor resolves a requested blend mode to a compositor,
// degrading to source-over when the mode is unknown or unsupported.
// Degradation is never an error: a profile asking for an exotic mode
// still renders, just flatter.
func CompositorFor(mode BlendMode) (BlendMode, Compositor) {
	chain := fallback.New(
		fallback.Strategy[BlendMode]{Name: string(mode), Run: func(context.Context) (BlendMode, error) {
			if Supported(mode) {
				return mode, nil
			}
			return "", errors.New(errors.ErrCodeUnsupported, "blend mode %q not supported", mode)
		}},
		fallback.Strategy[BlendMode]{Name: string(BlendSourceOver), Run: func(context.Context) (BlendMode, error) {
			return BlendSourceOver, nil
		}},
	)
	resolved, _, err := chain.Execute(context.Background())
	if err != nil {
		resolved = BlendSourceOver
	}
	return resolved, compositors[resolved]
}

func compositeSourceOver(dst, src color.NRGBA, alpha float64) color.NRGBA {
	a := clamp01(alpha)
	return color.NRGBA{
		R: mix8(dst.R, src.R, a),
		G: mix8(dst.G, src.G, a),
		B: mix8(dst.B, src.B, a),
		A: mix8(dst.A, 0xff, a),
	}
}

func compositeMultiply(dst, src color.NRGBA, alpha float64) color.NRGBA {
	a := clamp01(alpha)
	return color.NRGBA{
		R: mix8(dst.R, mul8(dst.R, src.R), a),
		G: mix8(dst.G, mul8(dst.G, src.G), a),
		B: mix8(dst.B, mul8(dst.B, src.B), a),
		A: mix8(dst.A, 0xff, a),
	}
}

func compositeDarken(dst, src color.NRGBA, alpha float64) color.NRGBA {
	a := clamp01(alpha)
	return color.NRGBA{
		R: mix8(dst.R, min(dst.R, src.R), a),
		G: mix8(dst.G, min(dst.G, src.G), a),
		B: mix8(dst.B, min(dst.B, src.B), a),
		A: mix8(dst.A, 0xff, a),
	}
}

// mix8 linearly interpolates between two channel values.
func mix8(d, s uint8, a float64) uint8 {
	return uint8(float64(d)*(1-a) + float64(s)*a + 0.5)
}

// mul8 multiplies two channels in the usual 8-bit fixed-point way.
func mul8(d, s uint8) uint8 {
	return uint8((uint16(d)*uint16(s) + 127) / 255)
}
