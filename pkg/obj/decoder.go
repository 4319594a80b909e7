package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
)

// ErrSyntax is wrapped by every parse error returned from Decode.
var ErrSyntax = errors.New("obj: syntax error")

// Document is the geometry read back from an OBJ stream. Face indices are
// 0-based and global to the document.
type Document struct {
	Vertices []math32.Vector3
	Faces    [][]int
	Objects  []string // names from "o" and "g" records, in order
}

// Bounds returns the axis-aligned bounding box of every vertex.
func (d *Document) Bounds() (lo, hi math32.Vector3) {
	if len(d.Vertices) == 0 {
		return
	}
	lo, hi = d.Vertices[0], d.Vertices[0]
	for _, v := range d.Vertices[1:] {
		lo = math32.Vec3(math32.Min(lo.X, v.X), math32.Min(lo.Y, v.Y), math32.Min(lo.Z, v.Z))
		hi = math32.Vec3(math32.Max(hi.X, v.X), math32.Max(hi.Y, v.Y), math32.Max(hi.Z, v.Z))
	}
	return lo, hi
}

// Decode reads "v" and "f" records from r. Comments, object and group names
// are tolerated; normals, texture coordinates and materials are skipped.
// Face entries may use the v/vt/vn form, only the position index is kept.
func Decode(r io.Reader) (*Document, error) {
	doc := &Document{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var err error
		switch fields[0] {
		case "v":
			err = doc.parseVertex(fields[1:])
		case "f":
			err = doc.parseFace(fields[1:])
		case "o", "g":
			if len(fields) > 1 {
				doc.Objects = append(doc.Objects, fields[1])
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrSyntax, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// v <x> <y> <z> [w]
func (d *Document) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return errors.New("vertex with less than 3 coordinates")
	}
	var c [3]float32
	for i, f := range fields[:3] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return err
		}
		c[i] = float32(val)
	}
	d.Vertices = append(d.Vertices, math32.Vec3(c[0], c[1], c[2]))
	return nil
}

// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (d *Document) parseFace(fields []string) error {
	if len(fields) < 3 {
		return errors.New("face with less than 3 vertices")
	}
	face := make([]int, len(fields))
	for i, f := range fields {
		pos, _, _ := strings.Cut(f, "/")
		val, err := strconv.Atoi(pos)
		if err != nil {
			return err
		}
		switch {
		case val > 0:
			face[i] = val - 1
		case val < 0:
			// relative to the last vertex read
			face[i] = len(d.Vertices) + val
		default:
			return errors.New("face vertex index 0")
		}
		if face[i] < 0 || face[i] >= len(d.Vertices) {
			return fmt.Errorf("face vertex index %d out of range", val)
		}
	}
	d.Faces = append(d.Faces, face)
	return nil
}
