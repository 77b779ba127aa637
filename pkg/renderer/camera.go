package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera is a pinhole camera at the origin looking down -z.
// The field of view is the scene's signed value: a negative FOV, as scenes store it,
// mirrors both image axes.
type Camera struct {
	width   float32
	height  float32
	halfTan float32 // tan(fov/2)
}

// NewCamera creates a camera for a width x height frame
func NewCamera(width, height int, fov float32) *Camera {
	return &Camera{
		width:   float32(width),
		height:  float32(height),
		halfTan: float32(math.Tan(float64(fov / 2))),
	}
}

// GetRay returns the primary ray through the center of pixel (x, y), with y = 0 the top row
func (c *Camera) GetRay(x, y int) core.Ray {
	dirX := (2*(float32(x)+0.5)/c.width - 1) * c.halfTan * c.width / c.height
	dirY := -(2*(float32(y)+0.5)/c.height - 1) * c.halfTan
	direction := core.Normalize(core.NewVec3(dirX, dirY, -1))
	return core.NewRay(core.Vec3{}, direction)
}
