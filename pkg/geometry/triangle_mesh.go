package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ErrFaceIndex is returned when a mesh face references a vertex that does not exist
var ErrFaceIndex = errors.New("face index out of range")

// TriangleMesh represents a collection of triangles sharing one material.
// A single bounding box over the mesh vertices rejects rays before any triangle is tested.
type TriangleMesh struct {
	triangles []*Polygon // Individual triangles
	bbox      core.AABB  // Bounding box over all mesh vertices
}

// NewTriangleMesh creates a new triangle mesh from vertices and zero-based face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// material: material for all triangles
// The bounding box spans every vertex, including vertices no face references.
func NewTriangleMesh(vertices []core.Vec3, faces []int, material material.Material) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}

	numTriangles := len(faces) / 3
	triangles := make([]*Polygon, numTriangles)

	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]

		for _, index := range [3]int{i0, i1, i2} {
			if index < 0 || index >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrFaceIndex, i, index, len(vertices))
			}
		}

		triangles[i] = NewPolygon(vertices[i0], vertices[i1], vertices[i2], material)
	}

	return &TriangleMesh{
		triangles: triangles,
		bbox:      core.NewAABBFromPoints(vertices...),
	}, nil
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray) (RayHit, bool) {
	if !tm.bbox.Hit(ray) {
		return RayHit{}, false
	}

	var best RayHit
	found := false
	for _, triangle := range tm.triangles {
		if hit, ok := triangle.Hit(ray); ok {
			best, found = Nearest(best, found, hit)
		}
	}
	return best, found
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// GetTriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) GetTriangleCount() int {
	return len(tm.triangles)
}
