package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// PointLight is an omnidirectional light at a fixed position
type PointLight struct {
	Position  core.Vec3
	Intensity float32
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, intensity float32) PointLight {
	return PointLight{Position: position, Intensity: intensity}
}

// Illuminate returns the unit direction from point toward the light and the distance to it
func (l PointLight) Illuminate(point core.Vec3) (direction core.Vec3, distance float32) {
	toLight := l.Position.Sub(point)
	distance = toLight.Len()
	return core.Normalize(toLight), distance
}
