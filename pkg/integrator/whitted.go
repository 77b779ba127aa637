package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Config controls optional shading shortcuts
type Config struct {
	// PruneZeroWeights skips the reflection or refraction branch of a material whose
	// albedo weight for it is exactly zero. Off by default: every branch is traced
	// to the depth limit even when it cannot contribute.
	PruneZeroWeights bool
}

// WhittedIntegrator implements recursive Whitted ray tracing: Phong direct lighting
// with hard shadows from point lights, plus perfect mirror reflection and refraction.
type WhittedIntegrator struct {
	config Config
}

// NewWhittedIntegrator creates a new Whitted integrator
func NewWhittedIntegrator(config Config) *WhittedIntegrator {
	return &WhittedIntegrator{config: config}
}

// CastRay computes the color for a single ray.
// Past scene.MaxDepth, and for rays that hit nothing, the background is returned.
// The result is a weighted sum of the four material terms and is not clamped.
func (w *WhittedIntegrator) CastRay(ray core.Ray, s *scene.Scene, depth int, counters *Counters) core.Vec3 {
	if counters == nil {
		counters = &Counters{}
	}

	if depth > s.MaxDepth {
		return s.BackgroundColor(ray.Direction)
	}

	hit, isHit := s.Intersect(ray)
	if !isHit {
		return s.BackgroundColor(ray.Direction)
	}
	if depth > counters.MaxDepth {
		counters.MaxDepth = depth
	}

	mat := hit.Material

	var reflectColor, refractColor core.Vec3
	if !w.pruned(mat.Reflection()) {
		reflectColor = w.reflectedColor(ray, hit, s, depth, counters)
	}
	if !w.pruned(mat.Refraction()) {
		refractColor = w.refractedColor(ray, hit, s, depth, counters)
	}

	diffuse, specular := w.directLighting(ray, hit, s, counters)

	return mat.DiffuseColor.Mul(diffuse).Mul(mat.Diffuse()).
		Add(core.White.Mul(specular).Mul(mat.Specular())).
		Add(reflectColor.Mul(mat.Reflection())).
		Add(refractColor.Mul(mat.Refraction()))
}

func (w *WhittedIntegrator) pruned(weight float32) bool {
	return w.config.PruneZeroWeights && weight == 0
}

// reflectedColor traces the mirror reflection of ray about the hit normal
func (w *WhittedIntegrator) reflectedColor(ray core.Ray, hit geometry.RayHit, s *scene.Scene, depth int, counters *Counters) core.Vec3 {
	direction := core.Reflect(ray.Direction, hit.Normal)
	origin := core.BiasedOrigin(hit.Point, hit.Normal, direction)

	counters.ReflectionRays++
	return w.CastRay(core.NewRay(origin, direction), s, depth+1, counters)
}

// refractedColor traces the transmitted ray; total internal reflection contributes nothing
func (w *WhittedIntegrator) refractedColor(ray core.Ray, hit geometry.RayHit, s *scene.Scene, depth int, counters *Counters) core.Vec3 {
	direction, ok := core.Refract(ray.Direction, hit.Normal, hit.Material.RefractiveIndex)
	if !ok {
		counters.TotalInternalReflections++
		return core.Vec3{}
	}
	origin := core.BiasedOrigin(hit.Point, hit.Normal, direction)

	counters.RefractionRays++
	return w.CastRay(core.NewRay(origin, direction), s, depth+1, counters)
}

// directLighting sums the diffuse and specular intensities of every unoccluded light
func (w *WhittedIntegrator) directLighting(ray core.Ray, hit geometry.RayHit, s *scene.Scene, counters *Counters) (diffuse, specular float32) {
	for _, light := range s.Lights {
		lightDir, lightDistance := light.Illuminate(hit.Point)

		shadowOrigin := core.BiasedOrigin(hit.Point, hit.Normal, lightDir)
		counters.ShadowRays++
		if shadowHit, occluded := s.Intersect(core.NewRay(shadowOrigin, lightDir)); occluded && shadowHit.Distance < lightDistance {
			continue
		}

		diffuse += light.Intensity * max(0, lightDir.Dot(hit.Normal))
		specular += light.Intensity * phong(core.Reflect(lightDir, hit.Normal), ray.Direction, hit.Material)
	}
	return diffuse, specular
}

// phong returns the specular lobe max(0, r·d)^exponent
func phong(reflected, view core.Vec3, mat material.Material) float32 {
	return core.Pow(max(0, reflected.Dot(view)), mat.SpecularExponent)
}
