package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrMalformedOBJ is returned when a vertex or face line cannot be parsed
var ErrMalformedOBJ = errors.New("malformed OBJ")

// OBJData contains the vertices and triangular faces read from a Wavefront OBJ file
type OBJData struct {
	Vertices []core.Vec3
	Faces    [][3]int // One-based vertex indices, as written in the file
}

// ZeroBasedFaces flattens the faces into zero-based triangle indices
func (o *OBJData) ZeroBasedFaces() []int {
	indices := make([]int, 0, len(o.Faces)*3)
	for _, face := range o.Faces {
		indices = append(indices, face[0]-1, face[1]-1, face[2]-1)
	}
	return indices
}

// LoadOBJ loads an OBJ file from disk
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	data, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParseOBJ reads the minimal OBJ subset used for meshes: only lines with exactly four
// whitespace-separated tokens are considered, "v x y z" adds a vertex and "f a b c" adds a
// triangle. Every other line (comments, normals, texture coordinates, polygons with more
// than three vertices) is ignored.
func ParseOBJ(reader io.Reader) (*OBJData, error) {
	data := &OBJData{}
	scanner := bufio.NewScanner(reader)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) != 4 {
			continue
		}

		switch fields[0] {
		case "v":
			var v core.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: invalid vertex coordinate %q", ErrMalformedOBJ, lineNum, fields[i+1])
				}
				v[i] = float32(f)
			}
			data.Vertices = append(data.Vertices, v)
		case "f":
			var face [3]int
			for i := 0; i < 3; i++ {
				index, err := strconv.Atoi(fields[i+1])
				if err != nil || index < 1 {
					return nil, fmt.Errorf("%w: line %d: invalid face index %q", ErrMalformedOBJ, lineNum, fields[i+1])
				}
				face[i] = index
			}
			data.Faces = append(data.Faces, face)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ: %w", err)
	}

	return data, nil
}
