package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	// ErrUnknownMaterial is returned when a shape names a material the scene does not define
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrInvalidGeometry is returned for shapes whose parameters cannot describe a surface
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// LoadScene reads a JSON scene file and assembles it.
// Relative mesh and background paths are resolved against the scene file's directory.
func LoadScene(filename string, logger core.Logger) (*Scene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	logger.Printf("Importing scene: %s\n", filename)
	desc, err := loaders.LoadSceneDescription(filename)
	if err != nil {
		return nil, err
	}

	s, err := NewSceneFromDescription(desc, filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Printf("Imported %d shapes (%d primitives), %d lights, background %dx%d\n",
		len(s.Shapes), s.GetPrimitiveCount(), len(s.Lights), s.Background.Width, s.Background.Height)
	return s, nil
}

// NewSceneFromDescription builds a scene from its JSON description.
// Shapes are added in a fixed order: spheres, planes, discs, checker discs, polygons, meshes.
func NewSceneFromDescription(desc *loaders.SceneDescription, baseDir string) (*Scene, error) {
	b := &builder{
		desc:      desc,
		baseDir:   baseDir,
		materials: make(map[string]material.Material, len(desc.Materials)),
	}

	if err := b.buildMaterials(); err != nil {
		return nil, err
	}
	shapes, err := b.buildShapes()
	if err != nil {
		return nil, err
	}
	background, err := b.buildBackground()
	if err != nil {
		return nil, err
	}

	sceneLights := make([]lights.PointLight, len(desc.Lights))
	for i, l := range desc.Lights {
		sceneLights[i] = lights.NewPointLight(l.Position.Vec3(), l.Intensity)
	}

	s := &Scene{
		Materials:  b.materials,
		Lights:     sceneLights,
		Shapes:     shapes,
		Background: background,
		Width:      desc.FrameWidth,
		Height:     desc.FrameHeight,
		FOV:        FOVFromDegrees(desc.FOVInDegrees),
		MaxDepth:   desc.MaxReflectDepth,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// builder carries the state shared by the assembly steps
type builder struct {
	desc      *loaders.SceneDescription
	baseDir   string
	materials map[string]material.Material
}

func (b *builder) buildMaterials() error {
	for name, m := range b.desc.Materials {
		mat := material.New(material.Albedo(m.Albedo), m.DiffuseColor.Vec3(), m.SpecularExponent, m.RefractiveIndex)
		if err := mat.Validate(); err != nil {
			return fmt.Errorf("material %q: %w", name, err)
		}
		b.materials[name] = mat
	}
	return nil
}

// lookup resolves a material name for the index-th shape of the given kind
func (b *builder) lookup(kind string, index int, name string) (material.Material, error) {
	mat, ok := b.materials[name]
	if !ok {
		return material.Material{}, fmt.Errorf("%w: %s %d references %q", ErrUnknownMaterial, kind, index, name)
	}
	return mat, nil
}

func (b *builder) buildShapes() ([]geometry.Shape, error) {
	var shapes []geometry.Shape
	desc := b.desc.Shapes

	for i, s := range desc.Spheres {
		mat, err := b.lookup("sphere", i, s.Material)
		if err != nil {
			return nil, err
		}
		if !(s.Radius > 0) {
			return nil, fmt.Errorf("%w: sphere %d radius must be > 0, got %v", ErrInvalidGeometry, i, s.Radius)
		}
		shapes = append(shapes, geometry.NewSphere(s.Center.Vec3(), s.Radius, mat))
	}

	for i, p := range desc.Planes {
		mat, err := b.lookup("plane", i, p.Material)
		if err != nil {
			return nil, err
		}
		if err := checkNormal("plane", i, p.Normal); err != nil {
			return nil, err
		}
		shapes = append(shapes, geometry.NewPlane(p.Point.Vec3(), p.Normal.Vec3(), mat))
	}

	for i, d := range desc.Discs {
		mat, err := b.lookup("disk", i, d.Material)
		if err != nil {
			return nil, err
		}
		if err := checkNormal("disk", i, d.Normal); err != nil {
			return nil, err
		}
		if !(d.Radius > 0) {
			return nil, fmt.Errorf("%w: disk %d radius must be > 0, got %v", ErrInvalidGeometry, i, d.Radius)
		}
		shapes = append(shapes, geometry.NewDisc(d.Center.Vec3(), d.Normal.Vec3(), d.Radius, mat))
	}

	for i, c := range desc.CheckerDiscs {
		mat1, err := b.lookup("checkboard disk", i, c.Material1)
		if err != nil {
			return nil, err
		}
		mat2, err := b.lookup("checkboard disk", i, c.Material2)
		if err != nil {
			return nil, err
		}
		if err := checkNormal("checkboard disk", i, c.Normal); err != nil {
			return nil, err
		}
		if !(c.Radius > 0) || !(c.DistBetweenMats > 0) {
			return nil, fmt.Errorf("%w: checkboard disk %d needs positive radius and band width, got %v and %v",
				ErrInvalidGeometry, i, c.Radius, c.DistBetweenMats)
		}
		shapes = append(shapes, geometry.NewCheckerDisc(c.Center.Vec3(), c.Normal.Vec3(), c.Radius, c.DistBetweenMats, mat1, mat2))
	}

	for i, p := range desc.Polygons {
		mat, err := b.lookup("polygon", i, p.Material)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, geometry.NewPolygon(p.Vertex0.Vec3(), p.Vertex1.Vec3(), p.Vertex2.Vec3(), mat))
	}

	for i, o := range desc.OBJs {
		mat, err := b.lookup("obj", i, o.Material)
		if err != nil {
			return nil, err
		}
		mesh, err := b.loadMesh(o.Wavefront, mat)
		if err != nil {
			return nil, fmt.Errorf("obj %d: %w", i, err)
		}
		shapes = append(shapes, mesh)
	}

	return shapes, nil
}

func (b *builder) loadMesh(path string, mat material.Material) (*geometry.TriangleMesh, error) {
	vertices, faces, err := loaders.LoadMesh(b.resolve(path))
	if err != nil {
		return nil, err
	}
	mesh, err := geometry.NewTriangleMesh(vertices, faces, mat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

func (b *builder) buildBackground() (*EnvironmentMap, error) {
	if b.desc.Background != "" {
		return LoadEnvironmentMap(b.resolve(b.desc.Background))
	}
	if b.desc.BackgroundColor != nil {
		return NewSolidEnvironment(b.desc.BackgroundColor.Vec3()), nil
	}
	return NewSolidEnvironment(core.Vec3{}), nil
}

// resolve makes a scene-relative path usable from the working directory
func (b *builder) resolve(path string) string {
	if filepath.IsAbs(path) || b.baseDir == "" {
		return path
	}
	return filepath.Join(b.baseDir, path)
}

func checkNormal(kind string, index int, normal loaders.Vector) error {
	if normal.Vec3().LenSqr() == 0 {
		return fmt.Errorf("%w: %s %d has a zero normal", ErrInvalidGeometry, kind, index)
	}
	return nil
}
