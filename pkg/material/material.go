package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidMaterial is returned when material parameters break an invariant
var ErrInvalidMaterial = errors.New("invalid material")

// Albedo weights the four shading terms of a material:
// diffuse, specular, reflection and refraction, in that order.
// The weights do not have to sum to 1.
type Albedo [4]float32

// Named albedo components
const (
	DiffuseWeight = iota
	SpecularWeight
	ReflectionWeight
	RefractionWeight
)

// Material holds per-surface reflectance parameters.
// It is a small value type and is copied into every shape and hit that uses it.
type Material struct {
	Albedo           Albedo    // Mixing weights for the shading terms
	DiffuseColor     core.Vec3 // Base color scaled by diffuse lighting
	SpecularExponent float32   // Phong exponent of the specular highlight
	RefractiveIndex  float32   // Index of refraction; must be > 0
}

// New creates a material
func New(albedo Albedo, diffuseColor core.Vec3, specularExponent, refractiveIndex float32) Material {
	return Material{
		Albedo:           albedo,
		DiffuseColor:     diffuseColor,
		SpecularExponent: specularExponent,
		RefractiveIndex:  refractiveIndex,
	}
}

// Diffuse returns the diffuse weight
func (m Material) Diffuse() float32 { return m.Albedo[DiffuseWeight] }

// Specular returns the specular weight
func (m Material) Specular() float32 { return m.Albedo[SpecularWeight] }

// Reflection returns the reflection weight
func (m Material) Reflection() float32 { return m.Albedo[ReflectionWeight] }

// Refraction returns the refraction weight
func (m Material) Refraction() float32 { return m.Albedo[RefractionWeight] }

// Validate checks the material invariants
func (m Material) Validate() error {
	if !(m.RefractiveIndex > 0) || isInf(m.RefractiveIndex) {
		return fmt.Errorf("%w: refractive index must be > 0, got %v", ErrInvalidMaterial, m.RefractiveIndex)
	}
	for i, w := range m.Albedo {
		if w != w || isInf(w) {
			return fmt.Errorf("%w: albedo[%d] is not finite", ErrInvalidMaterial, i)
		}
	}
	if m.SpecularExponent != m.SpecularExponent {
		return fmt.Errorf("%w: specular exponent is NaN", ErrInvalidMaterial)
	}
	return nil
}

func isInf(f float32) bool {
	return math.IsInf(float64(f), 0)
}
