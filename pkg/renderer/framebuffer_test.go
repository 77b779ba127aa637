package renderer

import (
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestFrameBuffer_RowsAreDisjointViews(t *testing.T) {
	fb := NewFrameBuffer(3, 2)
	if len(fb.Pixels) != 6 {
		t.Fatalf("Expected 6 pixels, got %d", len(fb.Pixels))
	}

	fb.Row(1)[2] = core.NewVec3(1, 2, 3)
	fb.Row(0)[0] = core.NewVec3(4, 5, 6)

	if got := fb.At(2, 1); got != core.NewVec3(1, 2, 3) {
		t.Errorf("Expected (1,2,3) at (2,1), got %v", got)
	}
	if got := fb.At(0, 0); got != core.NewVec3(4, 5, 6) {
		t.Errorf("Expected (4,5,6) at (0,0), got %v", got)
	}
	if got := fb.At(0, 1); got != (core.Vec3{}) {
		t.Errorf("Expected untouched pixel to stay black, got %v", got)
	}
	if len(fb.Row(0)) != 3 {
		t.Errorf("Expected row length 3, got %d", len(fb.Row(0)))
	}
}
