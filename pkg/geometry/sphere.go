package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float32
	Material material.Material

	radiusSquared float32
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32, material material.Material) *Sphere {
	return &Sphere{
		Center:        center,
		Radius:        radius,
		Material:      material,
		radiusSquared: radius * radius,
	}
}

// Hit tests if a ray intersects with the sphere.
// The center is projected onto the ray; the nearer root is used unless it lies
// behind the origin, in which case the far root (ray starting inside) is used.
func (s *Sphere) Hit(ray core.Ray) (RayHit, bool) {
	centerToOrigin := s.Center.Sub(ray.Origin)
	tca := centerToOrigin.Dot(ray.Direction)
	d2 := centerToOrigin.Dot(centerToOrigin) - tca*tca
	if d2 > s.radiusSquared {
		return RayHit{}, false
	}

	thc := core.Sqrt(s.radiusSquared - d2)
	t := tca - thc
	if t < 0 {
		t = tca + thc
	}
	if t < 0 {
		return RayHit{}, false
	}

	point := ray.At(t)
	return RayHit{
		Distance: t,
		Point:    point,
		Normal:   core.Normalize(point.Sub(s.Center)),
		Material: s.Material,
	}, true
}
