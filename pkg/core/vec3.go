package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a float32 triple used for positions, directions and linear colors
type Vec3 = mgl32.Vec3

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// White is the unit color used to tint specular highlights
var White = Vec3{1, 1, 1}

// Normalize returns a unit vector in the same direction, or the zero vector for zero input.
// mgl32's Normalize divides by zero length, which turns a degenerate vector into NaNs.
func Normalize(v Vec3) Vec3 {
	length := v.Len()
	if length == 0 {
		return Vec3{}
	}
	return v.Mul(1 / length)
}

// Reflect mirrors the incoming direction about the normal: d - 2(d·n)n
func Reflect(incoming, normal Vec3) Vec3 {
	return incoming.Sub(normal.Mul(2 * incoming.Dot(normal)))
}

// Refract bends the incoming direction through a surface with the given refractive index
// using Snell's law. The outside medium has index 1. When the ray leaves the surface
// (incoming and normal on the same side) the indices are swapped and the normal flipped.
// Returns false on total internal reflection.
func Refract(incoming, normal Vec3, refractiveIndex float32) (Vec3, bool) {
	cosIncoming := -mgl32.Clamp(incoming.Dot(normal), -1, 1)
	etaI, etaT := float32(1), refractiveIndex
	n := normal
	if cosIncoming < 0 {
		cosIncoming = -cosIncoming
		etaI, etaT = etaT, etaI
		n = normal.Mul(-1)
	}

	eta := etaI / etaT
	k := 1 - eta*eta*(1-cosIncoming*cosIncoming)
	if k < 0 {
		return Vec3{}, false
	}

	return incoming.Mul(eta).Add(n.Mul(eta*cosIncoming - Sqrt(k))), true
}

// BiasedOrigin offsets a hit point by a small epsilon along the normal, on the side that
// the outgoing direction leaves from, so that the new ray does not re-hit its own surface.
func BiasedOrigin(point, normal, direction Vec3) Vec3 {
	if direction.Dot(normal) < 0 {
		return point.Sub(normal.Mul(ShadowBias))
	}
	return point.Add(normal.Mul(ShadowBias))
}

// ShadowBias is the origin offset used for reflected, refracted and shadow rays
const ShadowBias float32 = 1e-3

// Sqrt is a float32 square root
func Sqrt(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// Pow is a float32 power function
func Pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
