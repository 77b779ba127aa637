package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// CheckerDisc is a disc whose material alternates in concentric rings.
// A hit at radial distance r uses Material1 when r mod Period exceeds Period/2,
// otherwise Material2.
type CheckerDisc struct {
	Center    core.Vec3
	Normal    core.Vec3
	Radius    float32
	Period    float32 // Width of one Material1+Material2 ring pair
	Material1 material.Material
	Material2 material.Material

	radiusSquared float32
}

// NewCheckerDisc creates a new banded disc
func NewCheckerDisc(center, normal core.Vec3, radius, period float32, material1, material2 material.Material) *CheckerDisc {
	return &CheckerDisc{
		Center:        center,
		Normal:        core.Normalize(normal),
		Radius:        radius,
		Period:        period,
		Material1:     material1,
		Material2:     material2,
		radiusSquared: radius * radius,
	}
}

// Hit implements the Shape interface
func (c *CheckerDisc) Hit(ray core.Ray) (RayHit, bool) {
	t, ok := planeDistance(c.Center, c.Normal, ray)
	if !ok {
		return RayHit{}, false
	}

	hitPoint := ray.At(t)
	distanceSquared := hitPoint.Sub(c.Center).LenSqr()
	if distanceSquared > c.radiusSquared {
		return RayHit{}, false
	}

	return RayHit{
		Distance: t,
		Point:    hitPoint,
		Normal:   c.Normal,
		Material: c.materialAt(core.Sqrt(distanceSquared)),
	}, true
}

func (c *CheckerDisc) materialAt(radialDistance float32) material.Material {
	band := float32(math.Mod(float64(radialDistance), float64(c.Period)))
	if band > c.Period/2 {
		return c.Material1
	}
	return c.Material2
}
