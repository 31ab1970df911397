// Package canvas manages a bounded pool of reusable raster surfaces.
//
// Allocating a full-page RGBA buffer for every render burns tens of
// megabytes per request; the pool recycles surfaces by exact size so
// steady-state rendering allocates nothing. Surfaces are wiped on release,
// never on acquire, so a reused surface can never leak strokes from a
// previous render.
package canvas

import (
	"image"
	"time"
)

// Surface is one pooled raster surface. It is handed out by Pool.Acquire
// and must be returned with Pool.Release when the render is done.
type Surface struct {
	img      *image.RGBA
	width    int
	height   int
	lastUsed time.Time
	inUse    bool
}

func newSurface(width, height int) *Surface {
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
		inUse:  true,
	}
}

// Image returns the backing pixel buffer. Drawing goes through this; the
// buffer stays valid until the surface is released.
func (s *Surface) Image() *image.RGBA { return s.img }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// InUse reports whether the surface is currently acquired.
func (s *Surface) InUse() bool { return s.inUse }

// SizeBytes returns the pixel buffer footprint.
func (s *Surface) SizeBytes() int64 { return int64(len(s.img.Pix)) }

// wipe zeroes the pixel data.
func (s *Surface) wipe() {
	clear(s.img.Pix)
}
