package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		for axis := 0; axis < 3; axis++ {
			if point[axis] < min[axis] {
				min[axis] = point[axis]
			}
			if point[axis] > max[axis] {
				max[axis] = point[axis]
			}
		}
	}

	return AABB{Min: min, Max: max}
}

// Hit tests if a ray intersects with this AABB using the slab method.
// The per-axis entry/exit distances come from the ray's cached reciprocal direction.
// An axis whose distances are NaN (origin on a slab plane of a parallel ray) does not
// narrow the interval. The box is missed when the combined interval is empty or lies
// entirely behind the origin.
func (aabb AABB) Hit(ray Ray) bool {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		t1 := (aabb.Min[axis] - ray.Origin[axis]) * ray.InvDirection[axis]
		t2 := (aabb.Max[axis] - ray.Origin[axis]) * ray.InvDirection[axis]

		// Ensure t1 <= t2 (swap if needed)
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
	}

	return tMax >= 0 && tMin <= tMax
}
