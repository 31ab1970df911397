// Package imageio provides raster decode and encode for the rendering
// pipeline.
//
// # Overview
//
// This package sits at both ends of the pipeline:
//
//   - Decoding paper assets fetched by the texture loader (PNG or JPEG,
//     detected by content) into the RGBA surfaces the renderer composites
//   - Encoding finished render results to PNG or JPEG artifacts with the
//     compression level chosen by the active quality settings
//
// # Formats
//
// PNG is the primary artifact format: handwriting output has hard edges
// and large flat paper regions that PNG compresses losslessly. JPEG is
// supported for paper assets (scans are usually photographed) and as an
// opt-in artifact format.
//
// # Decoding
//
// Use [Decode] to turn raw asset bytes into an RGBA image:
//
//	img, format, err := imageio.Decode(data)
//	if err != nil {
//	    // DECODE_FAILED with the underlying cause
//	}
//
// Decoding honors EXIF orientation so photographed paper textures come
// out upright.
//
// # Encoding
//
// Use [EncodePNG]/[EncodeJPEG] against an io.Writer, or [Export] to write
// straight to a path with the format chosen by file extension:
//
//	err := imageio.Export("out.png", img, quality.CompressionLevel)
package imageio
