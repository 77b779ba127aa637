package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrNaNDistance reports a NaN hit distance during nearest-hit selection
var ErrNaNDistance = errors.New("NaN hit distance")

// RayHit contains information about a ray-object intersection
type RayHit struct {
	Distance float32           // Parameter t along the ray, always >= 0
	Point    core.Vec3         // Point of intersection
	Normal   core.Vec3         // Unit surface normal, not necessarily facing the ray
	Material material.Material // Material at the hit point
}

// Shape interface for objects that can be hit by rays.
// Hit returns the nearest intersection with t >= 0. Implementations are immutable
// after construction and safe for concurrent use.
type Shape interface {
	Hit(ray core.Ray) (RayHit, bool)
}

// Nearest folds candidate into the running nearest hit and returns the new nearest.
// Ties keep the earlier hit. A NaN distance panics with ErrNaNDistance.
func Nearest(best RayHit, found bool, candidate RayHit) (RayHit, bool) {
	if math.IsNaN(float64(candidate.Distance)) {
		panic(fmt.Errorf("%w: candidate at %v", ErrNaNDistance, candidate.Point))
	}
	if !found || candidate.Distance < best.Distance {
		return candidate, true
	}
	return best, true
}
