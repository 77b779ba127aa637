package renderer

import "github.com/df07/go-whitted-raytracer/pkg/core"

// FrameBuffer holds unclamped linear colors, row-major with row 0 at the top
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFrameBuffer allocates a black frame
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the color of pixel (x, y)
func (fb *FrameBuffer) At(x, y int) core.Vec3 {
	return fb.Pixels[y*fb.Width+x]
}

// Row returns the slice of pixels for row y. Rows never overlap, so different
// goroutines may write different rows concurrently.
func (fb *FrameBuffer) Row(y int) []core.Vec3 {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}
