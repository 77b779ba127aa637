package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// EnvironmentMap is an equirectangular image surrounding the scene.
// Pixels are row-major with the top row (straight up) first.
type EnvironmentMap struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewEnvironmentMap creates an environment map from raw pixel data
func NewEnvironmentMap(width, height int, pixels []core.Vec3) (*EnvironmentMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("environment map size must be positive, got %dx%d", width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("environment map expects %d pixels, got %d", width*height, len(pixels))
	}
	return &EnvironmentMap{Width: width, Height: height, Pixels: pixels}, nil
}

// NewSolidEnvironment creates a 1x1 environment that returns color in every direction
func NewSolidEnvironment(color core.Vec3) *EnvironmentMap {
	return &EnvironmentMap{Width: 1, Height: 1, Pixels: []core.Vec3{color}}
}

// NewGradientEnvironment creates a sky that blends from topColor straight up
// to bottomColor straight down
func NewGradientEnvironment(width, height int, topColor, bottomColor core.Vec3) *EnvironmentMap {
	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		t := (float32(y) + 0.5) / float32(height)
		color := topColor.Mul(1 - t).Add(bottomColor.Mul(t))
		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}
	return &EnvironmentMap{Width: width, Height: height, Pixels: pixels}
}

// LoadEnvironmentMap loads an equirectangular background image
func LoadEnvironmentMap(filename string) (*EnvironmentMap, error) {
	data, err := loaders.LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load background: %w", err)
	}
	return NewEnvironmentMap(data.Width, data.Height, data.Pixels)
}

// Sample returns the environment color seen along a unit direction.
// Longitude comes from atan2(z, x) and latitude from acos(y); both texel
// coordinates are truncated and clamped to the image.
func (e *EnvironmentMap) Sample(direction core.Vec3) core.Vec3 {
	width := float32(e.Width)
	height := float32(e.Height)

	longitude := float32(math.Atan2(float64(direction.Z()), float64(direction.X())))
	u := float32(math.Mod(float64((longitude/(2*math.Pi)+0.5)*width+width), float64(width)))

	y := direction.Y()
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	v := float32(math.Acos(float64(y))) / math.Pi * height

	return e.Pixels[texelIndex(v, e.Height)*e.Width+texelIndex(u, e.Width)]
}

// texelIndex truncates a texel coordinate and clamps it to [0, size-1]; NaN maps to 0
func texelIndex(coord float32, size int) int {
	if !(coord > 0) {
		return 0
	}
	if coord >= float32(size) {
		return size - 1
	}
	return int(coord)
}
