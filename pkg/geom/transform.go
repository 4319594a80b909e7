package geom

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Transform maps a point p to p*Scale + Offset, component-wise.
// The zero value collapses every point to the origin; use Identity.
type Transform struct {
	Scale  math32.Vector3 `json:"scale" yaml:"scale"`
	Offset math32.Vector3 `json:"offset" yaml:"offset"`
}

// Identity returns the transform that leaves every point unchanged.
func Identity() Transform {
	return Transform{Scale: math32.Vec3(1, 1, 1)}
}

// Translate returns a translation by (x, y, z).
func Translate(x, y, z float32) Transform {
	return Transform{Scale: math32.Vec3(1, 1, 1), Offset: math32.Vec3(x, y, z)}
}

// TranslateX returns a translation along the x axis.
func TranslateX(d float32) Transform { return Translate(d, 0, 0) }

// TranslateY returns a translation along the y axis.
func TranslateY(d float32) Transform { return Translate(0, d, 0) }

// TranslateZ returns a translation along the z axis.
func TranslateZ(d float32) Transform { return Translate(0, 0, d) }

// ScaleBy returns a uniform scale about the origin.
func ScaleBy(s float32) Transform {
	return ScaleXYZ(s, s, s)
}

// ScaleXYZ returns a per-axis scale about the origin.
func ScaleXYZ(x, y, z float32) Transform {
	return Transform{Scale: math32.Vec3(x, y, z)}
}

// Apply maps p through t.
func (t Transform) Apply(p math32.Vector3) math32.Vector3 {
	return p.Mul(t.Scale).Add(t.Offset)
}

// Compose returns the transform applying inner first and outer second.
func Compose(outer, inner Transform) Transform {
	return Transform{
		Scale:  outer.Scale.Mul(inner.Scale),
		Offset: outer.Apply(inner.Offset),
	}
}

// Then returns the transform applying t first and next second.
func (t Transform) Then(next Transform) Transform {
	return Compose(next, t)
}

// Pow composes t with itself n times. Pow(t, 0) is Identity.
func Pow(t Transform, n int) Transform {
	out := Identity()
	for range n {
		out = Compose(t, out)
	}
	return out
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// Transforms implements Transformer.
func (t Transform) Transforms() []Transform {
	return []Transform{t}
}

func (t Transform) String() string {
	return fmt.Sprintf("scale(%g,%g,%g) offset(%g,%g,%g)",
		t.Scale.X, t.Scale.Y, t.Scale.Z, t.Offset.X, t.Offset.Y, t.Offset.Z)
}
