package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the smallest useful scene: one red diffuse sphere lit from
// the camera position against a uniform sky.
func NewDefaultScene() *Scene {
	red := material.NewLambertian(core.NewVec3(1, 0, 0))

	return &Scene{
		Materials: map[string]material.Material{"red": red},
		Lights: []lights.PointLight{
			lights.NewPointLight(core.NewVec3(0, 0, 0), 1),
		},
		Shapes: []geometry.Shape{
			geometry.NewSphere(core.NewVec3(0, 0, -10), 3, red),
		},
		Background: NewSolidEnvironment(core.NewVec3(0.2, 0.7, 0.8)),
		Width:      100,
		Height:     100,
		FOV:        FOVFromDegrees(80),
		MaxDepth:   0,
	}
}
