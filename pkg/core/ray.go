package core

// Ray represents a ray with an origin and direction.
// InvDirection caches the component-wise reciprocal of Direction for slab tests;
// a zero component yields ±Inf, which the slab test tolerates.
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	InvDirection Vec3
}

// NewRay creates a new ray. Intersection routines assume direction is unit length.
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:       origin,
		Direction:    direction,
		InvDirection: Vec3{1 / direction[0], 1 / direction[1], 1 / direction[2]},
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}
