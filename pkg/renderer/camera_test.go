package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const tolerance = 1e-5

func TestCamera_CenterRay(t *testing.T) {
	camera := NewCamera(1, 1, scene.FOVFromDegrees(60))
	ray := camera.GetRay(0, 0)

	if ray.Origin != (core.Vec3{}) {
		t.Errorf("Expected origin at zero, got %v", ray.Origin)
	}
	if !ray.Direction.ApproxEqualThreshold(core.NewVec3(0, 0, -1), tolerance) {
		t.Errorf("Expected direction (0,0,-1), got %v", ray.Direction)
	}
}

func TestCamera_SignedFOV(t *testing.T) {
	s := float32(1 / math.Sqrt2)

	tests := []struct {
		name     string
		fov      float32
		x, y     int
		expected core.Vec3
	}{
		// Scenes store the negated FOV, which mirrors the image
		{"negative fov left column", scene.FOVFromDegrees(90), 0, 0, core.NewVec3(s, 0, -s)},
		{"negative fov right column", scene.FOVFromDegrees(90), 1, 0, core.NewVec3(-s, 0, -s)},
		{"positive fov left column", mgl32.DegToRad(90), 0, 0, core.NewVec3(-s, 0, -s)},
		{"positive fov right column", mgl32.DegToRad(90), 1, 0, core.NewVec3(s, 0, -s)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 2x1 frame: pixel centers sit at +-1/2 of the half width, times the 2:1 aspect
			camera := NewCamera(2, 1, tt.fov)
			ray := camera.GetRay(tt.x, tt.y)
			if !ray.Direction.ApproxEqualThreshold(tt.expected, tolerance) {
				t.Errorf("Expected direction %v, got %v", tt.expected, ray.Direction)
			}
		})
	}
}

func TestCamera_VerticalAxis(t *testing.T) {
	camera := NewCamera(1, 2, mgl32.DegToRad(90))

	top := camera.GetRay(0, 0).Direction
	bottom := camera.GetRay(0, 1).Direction
	if top.Y() <= 0 || bottom.Y() >= 0 {
		t.Errorf("Expected row 0 above the axis for positive fov, got top %v bottom %v", top, bottom)
	}

	mirrored := NewCamera(1, 2, scene.FOVFromDegrees(90))
	if mirrored.GetRay(0, 0).Direction.Y() >= 0 {
		t.Errorf("Expected row 0 below the axis for negative fov, got %v", mirrored.GetRay(0, 0).Direction)
	}
}

func TestCamera_UnitDirections(t *testing.T) {
	camera := NewCamera(64, 48, scene.FOVFromDegrees(75))
	for y := 0; y < 48; y += 7 {
		for x := 0; x < 64; x += 9 {
			dir := camera.GetRay(x, y).Direction
			if !mgl32.FloatEqualThreshold(dir.Len(), 1, tolerance) {
				t.Fatalf("pixel (%d,%d): expected unit direction, got length %f", x, y, dir.Len())
			}
			if dir.Z() >= 0 {
				t.Fatalf("pixel (%d,%d): expected direction toward -z, got %v", x, y, dir)
			}
		}
	}
}
