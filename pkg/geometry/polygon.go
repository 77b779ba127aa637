package geometry

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// determinantEpsilon rejects rays (nearly) parallel to the triangle and degenerate triangles
const determinantEpsilon = 1e-3

// Polygon represents a single triangle defined by three vertices
type Polygon struct {
	V0, V1, V2 core.Vec3         // The three vertices
	Material   material.Material // Material of the triangle

	normal core.Vec3 // Cached unit normal, (v0-v1)x(v2-v1)
	edge1  core.Vec3 // Cached v1-v0
	edge2  core.Vec3 // Cached v2-v0
}

// NewPolygon creates a new triangle from three vertices
func NewPolygon(v0, v1, v2 core.Vec3, material material.Material) *Polygon {
	return &Polygon{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
		normal:   core.Normalize(v0.Sub(v1).Cross(v2.Sub(v1))),
		edge1:    v1.Sub(v0),
		edge2:    v2.Sub(v0),
	}
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm.
// The reported distance is the ray parameter t, not the barycentric u, and the
// normal is the unit normal cached at construction.
func (p *Polygon) Hit(ray core.Ray) (RayHit, bool) {
	pvec := ray.Direction.Cross(p.edge2)
	det := p.edge1.Dot(pvec)
	if mgl32.Abs(det) < determinantEpsilon {
		return RayHit{}, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(p.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return RayHit{}, false
	}

	qvec := tvec.Cross(p.edge1)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return RayHit{}, false
	}

	t := p.edge2.Dot(qvec) * invDet
	if t < 0 {
		return RayHit{}, false
	}

	return RayHit{
		Distance: t,
		Point:    ray.At(t),
		Normal:   p.normal,
		Material: p.Material,
	}, true
}

// Normal returns the triangle's cached unit normal
func (p *Polygon) Normal() core.Vec3 {
	return p.normal
}
