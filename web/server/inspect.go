package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialName string                 `json:"materialName"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains the nearest hit of an inspection ray and the shape it came from
type InspectResult struct {
	Hit       bool
	HitRecord geometry.RayHit
	Shape     geometry.Shape
}

func vecArray(v core.Vec3) [3]float32 {
	return [3]float32{v.X(), v.Y(), v.Z()}
}

// inspectPixel casts the primary ray through (pixelX, pixelY) and returns the first
// object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (result InspectResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inspect (%d,%d): %v", pixelX, pixelY, r)
		}
	}()

	camera := renderer.NewCamera(sceneObj.Width, sceneObj.Height, sceneObj.FOV)
	ray := camera.GetRay(pixelX, pixelY)

	// Same fold as scene.Intersect, remembering which shape won
	for _, shape := range sceneObj.Shapes {
		hit, ok := shape.Hit(ray)
		if !ok {
			continue
		}
		prev, found := result.HitRecord, result.Hit
		result.HitRecord, result.Hit = geometry.Nearest(prev, found, hit)
		if !found || hit.Distance < prev.Distance {
			result.Shape = shape
		}
	}
	return result, nil
}

// materialName finds the scene's name for mat, or "" for unnamed materials
func materialName(sceneObj *scene.Scene, mat material.Material) string {
	names := make([]string, 0, len(sceneObj.Materials))
	for name := range sceneObj.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if sceneObj.Materials[name] == mat {
			return name
		}
	}
	return ""
}

// extractMaterialInfo describes the shading parameters of a material
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	return map[string]interface{}{
		"albedo":           mat.Albedo,
		"diffuseColor":     vecArray(mat.DiffuseColor),
		"specularExponent": mat.SpecularExponent,
		"refractiveIndex":  mat.RefractiveIndex,
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		return "plane", properties

	case *geometry.Disc:
		properties["center"] = vecArray(geom.Center)
		properties["normal"] = vecArray(geom.Normal)
		properties["radius"] = geom.Radius
		return "disc", properties

	case *geometry.CheckerDisc:
		properties["center"] = vecArray(geom.Center)
		properties["normal"] = vecArray(geom.Normal)
		properties["radius"] = geom.Radius
		properties["period"] = geom.Period
		return "checker_disc", properties

	case *geometry.Polygon:
		properties["vertices"] = [3][3]float32{vecArray(geom.V0), vecArray(geom.V1), vecArray(geom.V2)}
		properties["normal"] = vecArray(geom.Normal())
		return "polygon", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.GetTriangleCount()
		bbox := geom.BoundingBox()
		properties["boundingBox"] = map[string]interface{}{
			"min": vecArray(bbox.Min),
			"max": vecArray(bbox.Max),
		}
		return "triangle_mesh", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports what the primary ray through a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req, core.NopLogger{})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= sceneObj.Width || pixelY < 0 || pixelY >= sceneObj.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	result, err := inspectPixel(sceneObj, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	geometryType, geometryProps := extractGeometryInfo(result.Shape)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialName: materialName(sceneObj, result.HitRecord.Material),
		GeometryType: geometryType,
		Point:        vecArray(result.HitRecord.Point),
		Normal:       vecArray(result.HitRecord.Normal),
		Distance:     result.HitRecord.Distance,
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(result.HitRecord.Material),
			"geometry": geometryProps,
		},
	})
}
