// Package photo prepares and manages directory-stored thumbnail photos.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
)

// Options control thumbnail rendering. The directory schema expects a small
// square JPEG, so the defaults are fixed rather than derived from the source.
type Options struct {
	CanvasSize  int
	JPEGQuality int
}

func DefaultOptions() Options {
	return Options{
		CanvasSize:  96,
		JPEGQuality: 80,
	}
}

// Decode parses stored or source image bytes (JPEG, PNG or GIF).
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// RenderThumbnail draws src onto a white square canvas. The source is scaled
// to the canvas height, horizontally centered and top-aligned, so landscape
// sources crop at the sides and portrait sources pad with white.
func RenderThumbnail(src image.Image, opts Options) *image.RGBA {
	size := opts.CanvasSize
	bounds := src.Bounds()
	aspect := float64(bounds.Dx()) / float64(bounds.Dy())

	scaledW := int(math.Round(float64(size) * aspect))
	offsetX := (size - scaledW) / 2

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	target := image.Rect(offsetX, 0, offsetX+scaledW, size)
	draw.CatmullRom.Scale(canvas, target, src, bounds, draw.Over, nil)

	return canvas
}

// ScaledOffset reports the scaled width and horizontal offset RenderThumbnail
// uses for a source of the given dimensions.
func ScaledOffset(srcW, srcH, size int) (scaledW, offsetX int) {
	aspect := float64(srcW) / float64(srcH)
	scaledW = int(math.Round(float64(size) * aspect))
	return scaledW, (size - scaledW) / 2
}

// EncodeJPEG re-encodes an image at the configured quality.
func EncodeJPEG(img image.Image, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
