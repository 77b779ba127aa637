package loaders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Vector is a JSON vector. It decodes from either [x, y, z] or {"x": .., "y": .., "z": ..}
// and encodes as an array.
type Vector [3]float32

// Vec3 converts the JSON vector to a core.Vec3
func (v Vector) Vec3() core.Vec3 {
	return core.Vec3(v)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Vector) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			X, Y, Z float32
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*v = Vector{obj.X, obj.Y, obj.Z}
		return nil
	}

	var arr []float32
	if err := json.Unmarshal(trimmed, &arr); err != nil {
		return fmt.Errorf("vector must be [x, y, z] or {\"x\", \"y\", \"z\"}: %w", err)
	}
	if len(arr) != 3 {
		return fmt.Errorf("vector must have 3 components, got %d", len(arr))
	}
	*v = Vector{arr[0], arr[1], arr[2]}
	return nil
}

// MaterialDescription describes a named material
type MaterialDescription struct {
	Albedo           [4]float32 `json:"albedo"` // diffuse, specular, reflection, refraction weights
	DiffuseColor     Vector     `json:"diffuse_color"`
	SpecularExponent float32    `json:"specular_exponent"`
	RefractiveIndex  float32    `json:"refractive_index"`
}

// LightDescription describes a point light
type LightDescription struct {
	Position  Vector  `json:"position"`
	Intensity float32 `json:"intensity"`
}

// SphereDescription describes a sphere
type SphereDescription struct {
	Center   Vector  `json:"center"`
	Radius   float32 `json:"radius"`
	Material string  `json:"material"`
}

// PlaneDescription describes an infinite plane
type PlaneDescription struct {
	Point    Vector `json:"point"`
	Normal   Vector `json:"normal"`
	Material string `json:"material"`
}

// DiscDescription describes a single-material disc
type DiscDescription struct {
	Center   Vector  `json:"center"`
	Normal   Vector  `json:"normal"`
	Radius   float32 `json:"radius"`
	Material string  `json:"material"`
}

// CheckerDiscDescription describes a disc with alternating radial bands
type CheckerDiscDescription struct {
	Center          Vector  `json:"center"`
	Normal          Vector  `json:"normal"`
	Radius          float32 `json:"radius"`
	DistBetweenMats float32 `json:"dist_between_mats"`
	Material1       string  `json:"material1"`
	Material2       string  `json:"material2"`
}

// PolygonDescription describes a single triangle
type PolygonDescription struct {
	Vertex0  Vector `json:"vertex_0"`
	Vertex1  Vector `json:"vertex_1"`
	Vertex2  Vector `json:"vertex_2"`
	Material string `json:"material"`
}

// OBJDescription references a Wavefront OBJ mesh file
type OBJDescription struct {
	Wavefront string `json:"wavefront"`
	Material  string `json:"material"`
}

// ShapesDescription groups the scene's shapes by kind
type ShapesDescription struct {
	Spheres      []SphereDescription      `json:"spheres"`
	Planes       []PlaneDescription       `json:"planes"`
	Discs        []DiscDescription        `json:"disks"`
	CheckerDiscs []CheckerDiscDescription `json:"checkboard_disks"`
	Polygons     []PolygonDescription     `json:"polygons"`
	OBJs         []OBJDescription         `json:"objs"`
}

// SceneDescription is the on-disk JSON form of a scene
type SceneDescription struct {
	// Optional metadata shown by scene listings
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Materials map[string]MaterialDescription `json:"materials"`
	Lights    []LightDescription             `json:"lights"`
	Shapes    ShapesDescription              `json:"shapes"`

	// Background is an equirectangular image path. When empty, BackgroundColor
	// is used as a uniform environment.
	Background      string  `json:"background"`
	BackgroundColor *Vector `json:"background_color,omitempty"`

	FrameWidth      int     `json:"frame_width"`
	FrameHeight     int     `json:"frame_height"`
	FOVInDegrees    float32 `json:"fov_in_degrees"`
	MaxReflectDepth int     `json:"max_reflect_depth"`
}

// ParseSceneDescription decodes a JSON scene description
func ParseSceneDescription(reader io.Reader) (*SceneDescription, error) {
	var desc SceneDescription
	if err := json.NewDecoder(reader).Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to parse scene description: %w", err)
	}
	return &desc, nil
}

// LoadSceneDescription reads a JSON scene description from disk
func LoadSceneDescription(filename string) (*SceneDescription, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	desc, err := ParseSceneDescription(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return desc, nil
}
