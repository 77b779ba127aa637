// Package export converts rendered frames into 8-bit images and encodes them to disk.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned for output formats with no encoder
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options controls the float to 8-bit conversion
type Options struct {
	Gamma float32 // Display gamma; 0 or 1 writes linear values
}

// DefaultOptions writes linear values, matching the raw frame
func DefaultOptions() Options {
	return Options{Gamma: 1}
}

// ToByte clamps a channel to [0,1], applies gamma and truncates to 8 bits
func (o Options) ToByte(c float32) uint8 {
	c = mgl32.Clamp(c, 0, 1)
	if o.Gamma > 0 && o.Gamma != 1 {
		c = core.Pow(c, 1/o.Gamma)
	}
	return uint8(255 * c)
}

// ToImage converts the frame to an RGBA image, row 0 at the top
func ToImage(fb *renderer.FrameBuffer, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: opts.ToByte(c.X()),
				G: opts.ToByte(c.Y()),
				B: opts.ToByte(c.Z()),
				A: 255,
			})
		}
	}
	return img
}

// FormatFromPath returns the normalized format name for a file extension
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "gif", "bmp", "ppm":
		return ext, nil
	case "jpg", "jpeg":
		return "jpeg", nil
	case "tif", "tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Encode writes the frame to w in the given format
func Encode(w io.Writer, format string, fb *renderer.FrameBuffer, opts Options) error {
	if format == "ppm" {
		return writePPM(w, fb, opts)
	}

	img := ToImage(fb, opts)
	switch format {
	case "png":
		return png.Encode(w, img)
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case "gif":
		return gif.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff", "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ContentType returns the MIME type for a format accepted by Encode
func ContentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "jpeg", "jpg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff", "tif":
		return "image/tiff"
	case "ppm":
		return "image/x-portable-pixmap"
	default:
		return "application/octet-stream"
	}
}

// Save encodes the frame to path, choosing the format from the extension
func Save(path string, fb *renderer.FrameBuffer, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Encode(file, format, fb, opts); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}

// writePPM writes a binary P6 pixmap
func writePPM(w io.Writer, fb *renderer.FrameBuffer, opts Options) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return err
	}
	for _, c := range fb.Pixels {
		if _, err := bw.Write([]byte{opts.ToByte(c.X()), opts.ToByte(c.Y()), opts.ToByte(c.Z())}); err != nil {
			return err
		}
	}
	return bw.Flush()
}
