package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrMalformedPLY is returned when a PLY header or body cannot be parsed
var ErrMalformedPLY = errors.New("malformed PLY")

// maxPLYListLength bounds a single list property, such as one face's vertex count
const maxPLYListLength = math.MaxUint16

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string // Value type; for lists, the type of each item
	IsList   bool
	ListType string // For list properties, the type of the count
}

// PLYElement is a block of records declared by an "element" header line
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYData contains the mesh read from a PLY file. Polygons with more than three
// vertices are split into triangle fans.
type PLYData struct {
	Vertices []core.Vec3
	Faces    []int // Zero-based triangle indices, 3 per triangle
}

// LoadPLY loads a PLY file from disk
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ParsePLY reads an ASCII or binary PLY stream. Only vertex x/y/z and face
// vertex_indices are kept; other properties and elements are read and discarded.
func ParsePLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	case "binary_little_endian":
		values = &binaryValueReader{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrMalformedPLY, header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		for i := 0; i < element.Count; i++ {
			if err := readPLYRecord(values, element, data); err != nil {
				return nil, fmt.Errorf("%w: %s %d: %v", ErrMalformedPLY, element.Name, i, err)
			}
		}
	}
	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true

	for {
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, fmt.Errorf("%w: header ended before end_header", ErrMalformedPLY)
		}
		parts := strings.Fields(line)

		if first {
			if len(parts) != 1 || parts[0] != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrMalformedPLY)
			}
			first = false
			continue
		}
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("%w: missing format line", ErrMalformedPLY)
			}
			return header, nil
		case "format":
			if len(parts) != 3 {
				return nil, fmt.Errorf("%w: invalid format line %q", ErrMalformedPLY, strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) != 3 {
				return nil, fmt.Errorf("%w: invalid element line %q", ErrMalformedPLY, strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrMalformedPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before any element", ErrMalformedPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrMalformedPLY, parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	var prop PLYProperty
	if len(parts) > 0 && parts[0] == "list" {
		if len(parts) != 4 {
			return prop, fmt.Errorf("%w: invalid list property definition", ErrMalformedPLY)
		}
		prop = PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}
	} else {
		if len(parts) != 2 {
			return prop, fmt.Errorf("%w: invalid property definition", ErrMalformedPLY)
		}
		prop = PLYProperty{Type: parts[0], Name: parts[1]}
	}

	for _, dataType := range []string{prop.Type, prop.ListType} {
		if dataType != "" && getTypeSize(dataType) == 0 {
			return prop, fmt.Errorf("%w: unknown property type %q", ErrMalformedPLY, dataType)
		}
	}
	return prop, nil
}

// readPLYRecord reads one record of element, keeping vertex positions and faces
func readPLYRecord(values plyValueReader, element PLYElement, data *PLYData) error {
	var position [3]float32
	var face []int

	for _, prop := range element.Props {
		if !prop.IsList {
			value, err := values.read(prop.Type)
			if err != nil {
				return err
			}
			if element.Name == "vertex" {
				switch prop.Name {
				case "x":
					position[0] = float32(value)
				case "y":
					position[1] = float32(value)
				case "z":
					position[2] = float32(value)
				}
			}
			continue
		}

		count, err := values.read(prop.ListType)
		if err != nil {
			return err
		}
		if count < 0 || count > maxPLYListLength || count != math.Trunc(count) {
			return fmt.Errorf("invalid list length %v", count)
		}
		items := make([]int, int(count))
		for j := range items {
			value, err := values.read(prop.Type)
			if err != nil {
				return err
			}
			items[j] = int(value)
		}
		if element.Name == "face" && (prop.Name == "vertex_indices" || prop.Name == "vertex_index") {
			face = items
		}
	}

	switch element.Name {
	case "vertex":
		data.Vertices = append(data.Vertices, core.NewVec3(position[0], position[1], position[2]))
	case "face":
		if len(face) < 3 {
			return fmt.Errorf("face needs at least 3 vertices, got %d", len(face))
		}
		for k := 1; k+1 < len(face); k++ {
			data.Faces = append(data.Faces, face[0], face[k], face[k+1])
		}
	}
	return nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader yields the next scalar of the body as a float64
type plyValueReader interface {
	read(dataType string) (float64, error)
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (a *asciiValueReader) read(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	token := a.scanner.Text()
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, token)
	}
	return value, nil
}

type binaryValueReader struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryValueReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(data)), nil
	default:
		return 0, fmt.Errorf("unknown type %q", dataType)
	}
}

// LoadMesh loads a triangle mesh, choosing the parser from the file extension:
// .ply files use the PLY reader, anything else is read as Wavefront OBJ.
// Faces are returned as zero-based triangle indices.
func LoadMesh(filename string) ([]core.Vec3, []int, error) {
	if strings.EqualFold(filepath.Ext(filename), ".ply") {
		data, err := LoadPLY(filename)
		if err != nil {
			return nil, nil, err
		}
		return data.Vertices, data.Faces, nil
	}

	data, err := LoadOBJ(filename)
	if err != nil {
		return nil, nil, err
	}
	return data.Vertices, data.ZeroBasedFaces(), nil
}
