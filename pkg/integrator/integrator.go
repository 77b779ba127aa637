package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// CastRay computes the color seen along ray. depth counts the reflection/refraction
	// bounces already taken; counters receives the rays traced and may be shared only
	// by calls on the same goroutine.
	CastRay(ray core.Ray, scene *scene.Scene, depth int, counters *Counters) core.Vec3
}

// Counters tallies the work done while shading. Each worker owns its own Counters
// and the renderer sums them; they are never shared between goroutines.
// Secondary rays are counted when spawned, so rays that come back as background
// at the depth cutoff are included.
type Counters struct {
	CameraRays               int64 // Primary rays cast by the renderer
	ReflectionRays           int64 // Secondary rays along the mirror direction
	RefractionRays           int64 // Secondary rays through the surface
	ShadowRays               int64 // Occlusion tests toward lights
	TotalInternalReflections int64 // Refraction branches cut off by total internal reflection
	MaxDepth                 int   // Deepest recursion level that hit a surface
}

// Add accumulates other into c
func (c *Counters) Add(other Counters) {
	c.CameraRays += other.CameraRays
	c.ReflectionRays += other.ReflectionRays
	c.RefractionRays += other.RefractionRays
	c.ShadowRays += other.ShadowRays
	c.TotalInternalReflections += other.TotalInternalReflections
	if other.MaxDepth > c.MaxDepth {
		c.MaxDepth = other.MaxDepth
	}
}

// TotalRays returns the number of rays traced, shadow rays included
func (c Counters) TotalRays() int64 {
	return c.CameraRays + c.ReflectionRays + c.RefractionRays + c.ShadowRays
}
