package loaders

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// createTestPLY builds a binary PLY square made of one quad face, with extra
// vertex properties and a trailing element that must be skipped
func createTestPLY(t *testing.T, order binary.ByteOrder, format string) []byte {
	t.Helper()
	var buf bytes.Buffer

	buf.WriteString("ply\n")
	buf.WriteString("format " + format + " 1.0\n")
	buf.WriteString("comment made by hand\n")
	buf.WriteString("element vertex 4\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property double z\n")
	buf.WriteString("property uchar red\n")
	buf.WriteString("element face 1\n")
	buf.WriteString("property list uchar int vertex_indices\n")
	buf.WriteString("property ushort flags\n")
	buf.WriteString("element edge 1\n")
	buf.WriteString("property int vertex1\n")
	buf.WriteString("property int vertex2\n")
	buf.WriteString("end_header\n")

	vertices := []struct {
		x, y float32
		z    float64
		red  uint8
	}{
		{0, 0, 0, 255},
		{1, 0, 0, 0},
		{1, 1, 0, 0},
		{0, 1, 0.5, 255},
	}
	for _, v := range vertices {
		binary.Write(&buf, order, v.x)
		binary.Write(&buf, order, v.y)
		binary.Write(&buf, order, v.z)
		binary.Write(&buf, order, v.red)
	}

	binary.Write(&buf, order, uint8(4))
	binary.Write(&buf, order, [4]int32{0, 1, 2, 3})
	binary.Write(&buf, order, uint16(7))

	binary.Write(&buf, order, [2]int32{0, 1})

	return buf.Bytes()
}

func TestParsePLY_Binary(t *testing.T) {
	tests := []struct {
		name   string
		order  binary.ByteOrder
		format string
	}{
		{"little endian", binary.LittleEndian, "binary_little_endian"},
		{"big endian", binary.BigEndian, "binary_big_endian"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParsePLY(bytes.NewReader(createTestPLY(t, tt.order, tt.format)))
			if err != nil {
				t.Fatalf("ParsePLY failed: %v", err)
			}

			if len(data.Vertices) != 4 {
				t.Fatalf("Expected 4 vertices, got %d", len(data.Vertices))
			}
			if data.Vertices[3] != core.NewVec3(0, 1, 0.5) {
				t.Errorf("Expected vertex 3 (0,1,0.5), got %v", data.Vertices[3])
			}

			// The quad becomes a two-triangle fan
			expected := []int{0, 1, 2, 0, 2, 3}
			if len(data.Faces) != len(expected) {
				t.Fatalf("Expected faces %v, got %v", expected, data.Faces)
			}
			for i := range expected {
				if data.Faces[i] != expected[i] {
					t.Errorf("Expected faces %v, got %v", expected, data.Faces)
					break
				}
			}
		})
	}
}

func TestParsePLY_ASCII(t *testing.T) {
	input := `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property float nx
element face 1
property list uchar uint vertex_index
end_header
0 0 0 1
1 0 0 1
0 1 -2.5 1
3 2 1 0
`
	data, err := ParsePLY(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePLY failed: %v", err)
	}
	if len(data.Vertices) != 3 || data.Vertices[2] != core.NewVec3(0, 1, -2.5) {
		t.Errorf("Unexpected vertices %v", data.Vertices)
	}
	if len(data.Faces) != 3 || data.Faces[0] != 2 || data.Faces[1] != 1 || data.Faces[2] != 0 {
		t.Errorf("Expected faces [2 1 0], got %v", data.Faces)
	}
}

func TestParsePLY_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing magic", "format ascii 1.0\nend_header\n"},
		{"no end_header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"missing format", "ply\nelement vertex 0\nend_header\n"},
		{"unknown format", "ply\nformat binary_middle_endian 1.0\nend_header\n"},
		{"bad element count", "ply\nformat ascii 1.0\nelement vertex many\nend_header\n"},
		{"property before element", "ply\nformat ascii 1.0\nproperty float x\nend_header\n"},
		{"unknown property type", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float128 x\nend_header\n0\n"},
		{"truncated body", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nend_header\n1\n"},
		{"bad number", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nend_header\nabc\n"},
		{"degenerate face", "ply\nformat ascii 1.0\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n2 0 1\n"},
		{"huge list length", "ply\nformat ascii 1.0\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n1e19 0 1 2\n"},
		{"list longer than bound", "ply\nformat ascii 1.0\nelement face 1\nproperty list uint int vertex_indices\nend_header\n70000 0 1 2\n"},
		{"fractional list length", "ply\nformat ascii 1.0\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n3.5 0 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePLY(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedPLY) {
				t.Errorf("Expected ErrMalformedPLY, got %v", err)
			}
		})
	}
}

func TestParsePLY_BinaryListLengthBound(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat binary_little_endian 1.0\n")
	buf.WriteString("element face 1\nproperty list uint int vertex_indices\nend_header\n")
	binary.Write(&buf, binary.LittleEndian, uint32(0xFFFFFFFF))
	binary.Write(&buf, binary.LittleEndian, [3]int32{0, 1, 2})

	_, err := ParsePLY(&buf)
	if !errors.Is(err, ErrMalformedPLY) {
		t.Errorf("Expected ErrMalformedPLY, got %v", err)
	}
}

func TestLoadMesh(t *testing.T) {
	dir := t.TempDir()

	plyPath := filepath.Join(dir, "square.ply")
	if err := os.WriteFile(plyPath, createTestPLY(t, binary.LittleEndian, "binary_little_endian"), 0644); err != nil {
		t.Fatalf("Failed to write PLY: %v", err)
	}
	objPath := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(objPath, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatalf("Failed to write OBJ: %v", err)
	}

	tests := []struct {
		name          string
		path          string
		expectedVerts int
		expectedFaces []int
	}{
		{"ply", plyPath, 4, []int{0, 1, 2, 0, 2, 3}},
		{"obj", objPath, 3, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vertices, faces, err := LoadMesh(tt.path)
			if err != nil {
				t.Fatalf("LoadMesh failed: %v", err)
			}
			if len(vertices) != tt.expectedVerts {
				t.Errorf("Expected %d vertices, got %d", tt.expectedVerts, len(vertices))
			}
			if len(faces) != len(tt.expectedFaces) {
				t.Fatalf("Expected faces %v, got %v", tt.expectedFaces, faces)
			}
			for i := range faces {
				if faces[i] != tt.expectedFaces[i] {
					t.Errorf("Expected faces %v, got %v", tt.expectedFaces, faces)
					break
				}
			}
		})
	}

	if _, _, err := LoadMesh(filepath.Join(dir, "missing.ply")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist for missing PLY, got %v", err)
	}
}
