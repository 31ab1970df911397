package imageio

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"github.com/th3400l/scrawl/pkg/errors"
)

// Decode turns raw asset bytes into an RGBA image, reporting the detected
// format ("png" or "jpeg"). EXIF orientation is applied during decode.
func Decode(data []byte) (*image.RGBA, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New(errors.ErrCodeDecodeFailed, "empty image data")
	}

	// Sniff the format first so errors can name it. imaging.Decode
	// handles the actual pixel work and EXIF orientation.
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeDecodeFailed, err, "unrecognized image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, errors.Wrap(errors.ErrCodeDecodeFailed, err, "failed to decode %s image", format)
	}

	return ToRGBA(img), format, nil
}

// ToRGBA converts any image to *image.RGBA with a zero-origin bounds,
// returning the input unchanged when it already is one.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
