package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewShowcaseScene creates a scene with every shape kind and the classic ivory,
// glass, rubber and mirror materials
func NewShowcaseScene() *Scene {
	materials := map[string]material.Material{
		"ivory":      material.New(material.Albedo{0.6, 0.3, 0.1, 0}, core.NewVec3(0.4, 0.4, 0.3), 50, 1),
		"glass":      material.NewGlass(1.5),
		"red_rubber": material.New(material.Albedo{0.9, 0.1, 0, 0}, core.NewVec3(0.3, 0.1, 0.1), 10, 1),
		"mirror":     material.NewMirror(),
		"dark":       material.NewLambertian(core.NewVec3(0.1, 0.1, 0.12)),
		"light_tile": material.NewPlastic(core.NewVec3(0.3, 0.3, 0.3), 20),
		"dark_tile":  material.NewPlastic(core.NewVec3(0.3, 0.2, 0.1), 20),
		"jade":       material.NewPlastic(core.NewVec3(0.2, 0.6, 0.35), 80),
	}

	shapes := []geometry.Shape{
		geometry.NewSphere(core.NewVec3(-3, 0, -16), 2, materials["ivory"]),
		geometry.NewSphere(core.NewVec3(-1, -1.5, -12), 2, materials["glass"]),
		geometry.NewSphere(core.NewVec3(1.5, -0.5, -18), 3, materials["red_rubber"]),
		geometry.NewSphere(core.NewVec3(7, 5, -18), 4, materials["mirror"]),
		geometry.NewPlane(core.NewVec3(0, -6, 0), core.NewVec3(0, 1, 0), materials["dark"]),
		geometry.NewCheckerDisc(core.NewVec3(0, -4, -16), core.NewVec3(0, 1, 0), 12, 2,
			materials["light_tile"], materials["dark_tile"]),
		geometry.NewDisc(core.NewVec3(-9, 4, -22), core.NewVec3(0.4, 0, 1), 3, materials["mirror"]),
		geometry.NewPolygon(
			core.NewVec3(4, -4, -10),
			core.NewVec3(6, -4, -12),
			core.NewVec3(5, -1, -11),
			materials["ivory"],
		),
	}

	pyramid, err := newPyramid(core.NewVec3(-6, -4, -11), 2, 3, materials["jade"])
	if err != nil {
		// Only reachable if the static face table is wrong
		panic(err)
	}
	shapes = append(shapes, pyramid)

	return &Scene{
		Materials: materials,
		Lights: []lights.PointLight{
			lights.NewPointLight(core.NewVec3(-20, 20, 20), 1.5),
			lights.NewPointLight(core.NewVec3(30, 50, -25), 1.8),
			lights.NewPointLight(core.NewVec3(30, 20, 30), 1.7),
		},
		Shapes:     shapes,
		Background: NewGradientEnvironment(64, 32, core.NewVec3(0.45, 0.65, 0.95), core.NewVec3(0.9, 0.85, 0.75)),
		Width:      640,
		Height:     480,
		FOV:        FOVFromDegrees(60),
		MaxDepth:   4,
	}
}

// newPyramid builds a square pyramid mesh standing on base (center of the square)
func newPyramid(base core.Vec3, halfWidth, height float32, mat material.Material) (*geometry.TriangleMesh, error) {
	vertices := []core.Vec3{
		base.Add(core.NewVec3(-halfWidth, 0, -halfWidth)),
		base.Add(core.NewVec3(halfWidth, 0, -halfWidth)),
		base.Add(core.NewVec3(halfWidth, 0, halfWidth)),
		base.Add(core.NewVec3(-halfWidth, 0, halfWidth)),
		base.Add(core.NewVec3(0, height, 0)),
	}
	faces := []int{
		0, 1, 4,
		1, 2, 4,
		2, 3, 4,
		3, 0, 4,
		0, 2, 1,
		0, 3, 2,
	}
	return geometry.NewTriangleMesh(vertices, faces, mat)
}
