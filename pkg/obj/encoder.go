package obj

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/aretw0/immense/pkg/mesh"
)

// Stats summarizes what an Encoder has written.
type Stats struct {
	Meshes   int `json:"meshes"`
	Vertices int `json:"vertices"`
	Faces    int `json:"faces"`
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithComment writes text as "#" comment lines before the first mesh.
func WithComment(text string) Option {
	return func(e *Encoder) {
		e.comment = text
	}
}

// WithObjectNames writes an "o <name>" record before each mesh, naming the
// i-th mesh (0-based) with name(i).
func WithObjectNames(name func(i int) string) Option {
	return func(e *Encoder) {
		e.objectName = name
	}
}

// WithPrecision fixes the number of decimals for coordinates. A negative
// value, the default, uses the fewest digits that round-trip a float32.
func WithPrecision(decimals int) Option {
	return func(e *Encoder) {
		e.precision = decimals
	}
}

// Encoder streams meshes to a writer. It keeps only a running vertex offset
// between meshes, never the meshes themselves.
//
// The first write error is sticky: it aborts the current mesh and is
// returned by every later call. Output already flushed is not rolled back.
type Encoder struct {
	w          *bufio.Writer
	stats      Stats
	err        error
	comment    string
	objectName func(int) string
	precision  int
	buf        []byte
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	e := &Encoder{
		w:         bufio.NewWriter(w),
		precision: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Offset returns the number of vertices written so far. Local index i of
// the next mesh is written as global index Offset()+i+1.
func (e *Encoder) Offset() int {
	return e.stats.Vertices
}

// Stats returns the totals written so far.
func (e *Encoder) Stats() Stats {
	return e.stats
}

// Encode writes every vertex of m, then every face with its indices shifted
// by the current offset, then advances the offset by m's vertex count.
//
// A nil mesh is skipped. A mesh whose faces do not fit its own vertices is
// rejected with its *mesh.AggregateError before anything of it is written.
func (e *Encoder) Encode(m *mesh.Mesh) error {
	if e.err != nil {
		return e.err
	}
	if m == nil {
		return nil
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("obj: mesh %d: %w", e.stats.Meshes, err)
	}
	if e.stats.Meshes == 0 && e.comment != "" {
		for line := range strings.SplitSeq(e.comment, "\n") {
			e.writeString("# " + line + "\n")
		}
	}
	if e.objectName != nil {
		e.writeString("o " + e.objectName(e.stats.Meshes) + "\n")
	}
	for _, v := range m.Vertices {
		e.buf = append(e.buf[:0], 'v')
		for _, c := range [3]float32{v.X, v.Y, v.Z} {
			e.buf = append(e.buf, ' ')
			e.buf = strconv.AppendFloat(e.buf, float64(c), 'f', e.precision, 32)
		}
		e.buf = append(e.buf, '\n')
		e.write(e.buf)
	}
	base := e.stats.Vertices + 1
	for _, f := range m.Faces {
		e.buf = append(e.buf[:0], 'f')
		for _, idx := range f {
			e.buf = append(e.buf, ' ')
			e.buf = strconv.AppendInt(e.buf, int64(base+idx), 10)
		}
		e.buf = append(e.buf, '\n')
		e.write(e.buf)
	}
	if e.err != nil {
		return e.err
	}
	e.stats.Meshes++
	e.stats.Vertices += len(m.Vertices)
	e.stats.Faces += len(m.Faces)
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.w.Flush(); err != nil {
		e.err = fmt.Errorf("obj: flush: %w", err)
	}
	return e.err
}

func (e *Encoder) write(p []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = fmt.Errorf("obj: write: %w", err)
	}
}

func (e *Encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.err = fmt.Errorf("obj: write: %w", err)
	}
}

// WriteSeq encodes every mesh of seq to w in order and flushes. It stops at
// the first write error.
func WriteSeq(seq iter.Seq[*mesh.Mesh], w io.Writer, opts ...Option) (Stats, error) {
	enc := NewEncoder(w, opts...)
	for m := range seq {
		if err := enc.Encode(m); err != nil {
			return enc.Stats(), err
		}
	}
	return enc.Stats(), enc.Flush()
}

// WriteMeshes encodes meshes to w in order, keeping global vertex indices
// consistent across meshes.
func WriteMeshes(meshes []*mesh.Mesh, w io.Writer) error {
	_, err := WriteSeq(func(yield func(*mesh.Mesh) bool) {
		for _, m := range meshes {
			if !yield(m) {
				return
			}
		}
	}, w)
	return err
}
