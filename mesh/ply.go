package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotPLY is returned when the input does not start with the PLY magic line.
var ErrNotPLY = errors.New("missing ply magic number")

// plyHeader describes the vertex layout declared in a PLY header.
type plyHeader struct {
	vertexCount int
	faceCount   int
	props       []string // vertex property names in declaration order
	hasNormals  bool
	hasTexCoord bool
}

// LoadPLY reads an ASCII PLY file from disk.
func LoadPLY(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ply file: %w", err)
	}
	defer f.Close()

	m, err := ParsePLY(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParsePLY parses an ASCII 1.0 PLY stream. Vertices must declare float x, y, z
// and may declare float nx, ny, nz and s, t; other float vertex properties are
// ignored. Faces must be triangles.
func ParsePLY(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() ([]string, bool) {
		for sc.Scan() {
			line++
			fields := strings.Fields(sc.Text())
			if len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}

	fields, ok := next()
	if !ok || fields[0] != "ply" {
		return nil, ErrNotPLY
	}

	h, err := parseHeader(next, &line)
	if err != nil {
		return nil, err
	}
	if h.vertexCount > MaxVertices {
		return nil, fmt.Errorf("%d vertices exceed the uint16 index limit", h.vertexCount)
	}
	if h.faceCount > MaxFaces {
		return nil, fmt.Errorf("%d faces exceed the limit of %d", h.faceCount, MaxFaces)
	}

	m := &Mesh{
		Positions: make([]mgl32.Vec3, h.vertexCount),
		Indices:   make([]uint16, 0, 3*h.faceCount),
	}
	if h.hasNormals {
		m.Normals = make([]mgl32.Vec3, h.vertexCount)
	}
	if h.hasTexCoord {
		m.TexCoords = make([]mgl32.Vec2, h.vertexCount)
	}

	for i := 0; i < h.vertexCount; i++ {
		fields, ok := next()
		if !ok {
			return nil, fmt.Errorf("line %d: expected %d vertices, got %d", line, h.vertexCount, i)
		}
		if len(fields) != len(h.props) {
			return nil, fmt.Errorf("line %d: vertex has %d values, header declares %d", line, len(fields), len(h.props))
		}
		for k, name := range h.props {
			v, err := strconv.ParseFloat(fields[k], 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex property %s: %w", line, name, err)
			}
			setVertexProperty(m, i, name, float32(v))
		}
	}

	for i := 0; i < h.faceCount; i++ {
		fields, ok := next()
		if !ok {
			return nil, fmt.Errorf("line %d: expected %d faces, got %d", line, h.faceCount, i)
		}
		if fields[0] != "3" || len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 3 indices per face, got %q", line, strings.Join(fields, " "))
		}
		for _, f := range fields[1:] {
			idx, err := strconv.ParseUint(f, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("line %d: face index: %w", line, err)
			}
			if int(idx) >= h.vertexCount {
				return nil, fmt.Errorf("line %d: face index %d out of range (%d vertices)", line, idx, h.vertexCount)
			}
			m.Indices = append(m.Indices, uint16(idx))
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ply: %w", err)
	}
	return m, nil
}

func parseHeader(next func() ([]string, bool), line *int) (plyHeader, error) {
	var h plyHeader
	element := ""
	hasFormat := false

	for {
		fields, ok := next()
		if !ok {
			return h, fmt.Errorf("line %d: unexpected end of header", *line)
		}

		switch fields[0] {
		case "format":
			if len(fields) != 3 || fields[1] != "ascii" || fields[2] != "1.0" {
				return h, fmt.Errorf("line %d: unsupported format %q", *line, strings.Join(fields[1:], " "))
			}
			hasFormat = true

		case "comment", "obj_info":

		case "element":
			if len(fields) != 3 {
				return h, fmt.Errorf("line %d: malformed element", *line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return h, fmt.Errorf("line %d: invalid %s count %q", *line, fields[1], fields[2])
			}
			element = fields[1]
			switch element {
			case "vertex":
				h.vertexCount = n
			case "face":
				h.faceCount = n
			default:
				return h, fmt.Errorf("line %d: unsupported element %q", *line, element)
			}

		case "property":
			switch element {
			case "vertex":
				if len(fields) != 3 || fields[1] != "float" {
					return h, fmt.Errorf("line %d: vertex properties must be float, got %q", *line, strings.Join(fields[1:], " "))
				}
				h.props = append(h.props, fields[2])
			case "face":
				// list uchar int vertex_indices; the data lines are validated instead
			default:
				return h, fmt.Errorf("line %d: property outside of an element", *line)
			}

		case "end_header":
			if !hasFormat {
				return h, fmt.Errorf("line %d: header has no format line", *line)
			}
			return h, h.validate()

		default:
			return h, fmt.Errorf("line %d: unknown header keyword %q", *line, fields[0])
		}
	}
}

func (h *plyHeader) validate() error {
	if h.vertexCount == 0 {
		return errors.New("header declares no vertices")
	}
	has := make(map[string]bool, len(h.props))
	for _, p := range h.props {
		has[p] = true
	}
	if !has["x"] || !has["y"] || !has["z"] {
		return errors.New("vertices need x, y and z properties")
	}

	normals := 0
	for _, p := range []string{"nx", "ny", "nz"} {
		if has[p] {
			normals++
		}
	}
	switch normals {
	case 0:
	case 3:
		h.hasNormals = true
	default:
		return fmt.Errorf("expected 3 normal components, got %d", normals)
	}

	switch {
	case has["s"] && has["t"]:
		h.hasTexCoord = true
	case has["s"] || has["t"]:
		return errors.New("expected 2 texture coordinate components")
	}
	return nil
}

func setVertexProperty(m *Mesh, i int, name string, v float32) {
	switch name {
	case "x":
		m.Positions[i][0] = v
	case "y":
		m.Positions[i][1] = v
	case "z":
		m.Positions[i][2] = v
	case "nx":
		m.Normals[i][0] = v
	case "ny":
		m.Normals[i][1] = v
	case "nz":
		m.Normals[i][2] = v
	case "s":
		m.TexCoords[i][0] = v
	case "t":
		m.TexCoords[i][1] = v
	}
}
