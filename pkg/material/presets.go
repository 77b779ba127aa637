package material

import "github.com/df07/go-whitted-raytracer/pkg/core"

// NewLambertian creates a purely diffuse material
func NewLambertian(color core.Vec3) Material {
	return New(Albedo{1, 0, 0, 0}, color, 1, 1)
}

// NewPlastic creates a diffuse material with a specular highlight
func NewPlastic(color core.Vec3, specularExponent float32) Material {
	return New(Albedo{0.9, 0.1, 0, 0}, color, specularExponent, 1)
}

// NewMirror creates a mostly reflective material with a sharp highlight
func NewMirror() Material {
	return New(Albedo{0, 10, 0.8, 0}, core.NewVec3(1, 1, 1), 1425, 1)
}

// NewGlass creates a mostly refractive material with the given index of refraction
func NewGlass(refractiveIndex float32) Material {
	return New(Albedo{0, 0.5, 0.1, 0.8}, core.NewVec3(0.6, 0.7, 0.8), 125, refractiveIndex)
}
