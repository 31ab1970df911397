package imageio

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/th3400l/scrawl/pkg/errors"
)

// EncodePNG writes img as PNG. level selects compression 0-9: 0 maps to
// the encoder default, 1-3 favor speed, 7-9 favor size.
func EncodePNG(w io.Writer, img image.Image, level int) error {
	err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(pngLevel(level)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode png")
	}
	return nil
}

// EncodeJPEG writes img as JPEG with the given quality 1-100.
// Out-of-range values are clamped.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode jpeg")
	}
	return nil
}

// Export writes img to path, choosing the format by extension (.png or
// .jpg/.jpeg). level is the PNG compression level; for JPEG it is mapped
// to a quality setting.
func Export(path string, img image.Image, level int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to create %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", "":
		return EncodePNG(f, img, level)
	case ".jpg", ".jpeg":
		// Higher compression level means smaller files, so invert into
		// JPEG quality space.
		return EncodeJPEG(f, img, 100-level*5)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported output format: %s", filepath.Ext(path))
	}
}

func pngLevel(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.DefaultCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
