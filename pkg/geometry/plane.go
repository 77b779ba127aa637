package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// parallelEpsilon is the |n·d| below which a ray is treated as parallel to a planar shape
const parallelEpsilon = 1e-3

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3         // A point on the plane
	Normal   core.Vec3         // Unit normal vector
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, material material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   core.Normalize(normal),
		Material: material,
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray) (RayHit, bool) {
	t, ok := planeDistance(p.Point, p.Normal, ray)
	if !ok {
		return RayHit{}, false
	}

	return RayHit{
		Distance: t,
		Point:    ray.At(t),
		Normal:   p.Normal,
		Material: p.Material,
	}, true
}

// planeDistance solves for the ray parameter at which the ray crosses the plane through
// point with the given normal. Near-parallel rays and crossings behind the origin miss.
func planeDistance(point, normal core.Vec3, ray core.Ray) (float32, bool) {
	denominator := normal.Dot(ray.Direction)
	if mgl32.Abs(denominator) < parallelEpsilon {
		return 0, false
	}

	t := point.Sub(ray.Origin).Dot(normal) / denominator
	if t < 0 {
		return 0, false
	}
	return t, true
}
