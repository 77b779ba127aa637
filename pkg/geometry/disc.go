package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center   core.Vec3         // Center of the disc
	Normal   core.Vec3         // Unit normal vector
	Radius   float32           // Radius of the disc
	Material material.Material // Material of the disc

	radiusSquared float32
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float32, material material.Material) *Disc {
	return &Disc{
		Center:        center,
		Normal:        core.Normalize(normal),
		Radius:        radius,
		Material:      material,
		radiusSquared: radius * radius,
	}
}

// Hit implements the Shape interface
func (d *Disc) Hit(ray core.Ray) (RayHit, bool) {
	t, ok := planeDistance(d.Center, d.Normal, ray)
	if !ok {
		return RayHit{}, false
	}

	hitPoint := ray.At(t)
	centerToHit := hitPoint.Sub(d.Center)
	if centerToHit.LenSqr() > d.radiusSquared {
		return RayHit{}, false // Outside disc
	}

	return RayHit{
		Distance: t,
		Point:    hitPoint,
		Normal:   d.Normal,
		Material: d.Material,
	}, true
}
