package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrInvalidScene is returned when frame or camera settings are out of range
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering.
// A scene is built once and then only read, so it can be shared by concurrent renders.
type Scene struct {
	Materials  map[string]material.Material // Named materials, used during assembly only
	Lights     []lights.PointLight          // Point lights in the scene
	Shapes     []geometry.Shape             // Objects in the scene
	Background *EnvironmentMap              // Sampled by rays that hit nothing

	Width    int     // Image width in pixels
	Height   int     // Image height in pixels
	FOV      float32 // Field of view in radians, stored negated
	MaxDepth int     // Maximum reflection/refraction recursion depth
}

// Intersect returns the nearest hit over all shapes.
// Panics with geometry.ErrNaNDistance if a shape reports a NaN distance.
func (s *Scene) Intersect(ray core.Ray) (geometry.RayHit, bool) {
	var best geometry.RayHit
	found := false
	for _, shape := range s.Shapes {
		if hit, ok := shape.Hit(ray); ok {
			best, found = geometry.Nearest(best, found, hit)
		}
	}
	return best, found
}

// BackgroundColor samples the environment for a ray direction
func (s *Scene) BackgroundColor(direction core.Vec3) core.Vec3 {
	return s.Background.Sample(direction)
}

// FOVFromDegrees converts a field of view in degrees to the stored signed radians
func FOVFromDegrees(degrees float32) float32 {
	return -mgl32.DegToRad(degrees)
}

// Validate checks the frame and camera settings
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: frame size must be positive, got %dx%d", ErrInvalidScene, s.Width, s.Height)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must be >= 0, got %d", ErrInvalidScene, s.MaxDepth)
	}
	fov := math.Abs(float64(s.FOV))
	if !(fov > 0 && fov < math.Pi) {
		return fmt.Errorf("%w: field of view must be in (0, 180) degrees, got %v rad", ErrInvalidScene, s.FOV)
	}
	if s.Background == nil {
		return fmt.Errorf("%w: missing background", ErrInvalidScene)
	}
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, handling complex objects
func countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		// Triangle meshes contain multiple triangles
		return obj.GetTriangleCount()
	default:
		// Regular shapes count as 1 primitive each
		return 1
	}
}
