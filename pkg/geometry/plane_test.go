package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Hit_BasicIntersection(t *testing.T) {
	// Create a horizontal plane at y=0
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	// Ray shooting down from above
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	hit, isHit := plane.Hit(ray)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	if !mgl32.FloatEqualThreshold(hit.Distance, 1, tolerance) {
		t.Errorf("Expected t=1, got t=%f", hit.Distance)
	}
	if !hit.Point.ApproxEqualThreshold(core.NewVec3(0, 0, 0), tolerance) {
		t.Errorf("Expected hit point at origin, got %v", hit.Point)
	}
}

func TestPlane_Hit_NormalIsUnitAndFixed(t *testing.T) {
	// Unnormalized input normal
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 5, 0), testMaterial)

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
	}{
		{"from above", core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)},
		{"from below", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Hit(core.NewRay(tt.origin, tt.dir))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			// The stored normal is returned as is, whichever side is hit
			if hit.Normal != core.NewVec3(0, 1, 0) {
				t.Errorf("Expected normal (0,1,0), got %v", hit.Normal)
			}
		})
	}
}

func TestPlane_Hit_ParallelRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	// Parallel rays miss regardless of origin, including an origin in the plane
	origins := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, -3, 0),
		core.NewVec3(5, 0, 5),
	}
	for _, origin := range origins {
		ray := core.NewRay(origin, core.NewVec3(1, 0, 0))
		if hit, isHit := plane.Hit(ray); isHit {
			t.Errorf("origin %v: expected miss for parallel ray, got hit at t=%f", origin, hit.Distance)
		}
	}
}

func TestPlane_Hit_NearlyParallelRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	// |n·d| below the epsilon counts as parallel
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.Normalize(core.NewVec3(1, -0.0005, 0)))
	if hit, isHit := plane.Hit(ray); isHit {
		t.Errorf("Expected miss for near-parallel ray, got hit at t=%f", hit.Distance)
	}
}

func TestPlane_Hit_BehindRay(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), testMaterial)

	// Ray shooting up from above (intersection behind ray origin)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0))

	hit, isHit := plane.Hit(ray)
	if isHit {
		t.Errorf("Expected miss for intersection behind ray, but got hit at t=%f", hit.Distance)
	}
}
