package rule

import (
	"slices"

	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/mesh"
)

// Kind identifies which variant a Rule is.
type Kind int

const (
	KindGroup Kind = iota
	KindLeaf
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindLeaf:
		return "leaf"
	case KindDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// ToRule produces a rule on demand. It is called once per occurrence during
// every evaluation and its result is never cached.
type ToRule interface {
	ToRule() Rule
}

// ToRuleFunc adapts a plain function to ToRule.
type ToRuleFunc func() Rule

// ToRule implements ToRule.
func (f ToRuleFunc) ToRule() Rule {
	return f()
}

// Rule is a node of the composition tree. The zero value is an empty group
// with the identity transform.
type Rule struct {
	kind      Kind
	transform *geom.Transform // nil means identity
	mesh      *mesh.Mesh
	children  []Rule
	deferred  ToRule
	repeat    *geom.Replication // set on a group whose copies expand during evaluation
}

// New returns an empty group.
func New() Rule {
	return Rule{}
}

// Leaf returns a rule producing m. The mesh is shared, not copied; rules
// never modify it.
func Leaf(m *mesh.Mesh) Rule {
	return Rule{kind: KindLeaf, mesh: m}
}

// From returns a rule resolved through src every time it is evaluated.
func From(src ToRule) Rule {
	return Rule{kind: KindDeferred, deferred: src}
}

// FromFunc is From for a plain function.
func FromFunc(f func() Rule) Rule {
	return From(ToRuleFunc(f))
}

// Cube is Leaf(mesh.Cube()).
func Cube() Rule { return Leaf(mesh.Cube()) }

// Tetrahedron is Leaf(mesh.Tetrahedron()).
func Tetrahedron() Rule { return Leaf(mesh.Tetrahedron()) }

// Quad is Leaf(mesh.Quad()).
func Quad() Rule { return Leaf(mesh.Quad()) }

// Icosahedron is Leaf(mesh.Icosahedron()).
func Icosahedron() Rule { return Leaf(mesh.Icosahedron()) }

// Icosphere is Leaf(mesh.Icosphere(subdivisions)).
func Icosphere(subdivisions int) Rule { return Leaf(mesh.Icosphere(subdivisions)) }

// Kind reports the variant of r.
func (r Rule) Kind() Kind {
	return r.kind
}

// Transform returns the transform attached to r.
func (r Rule) Transform() geom.Transform {
	if r.transform == nil {
		return geom.Identity()
	}
	return *r.transform
}

// Children returns a copy of the children of a group. The copies of a
// replicated rule are built on the call.
func (r Rule) Children() []Rule {
	if r.repeat != nil {
		out := make([]Rule, 0, max(r.repeat.Count, 0))
		for shift := range r.repeat.All() {
			out = append(out, r.children[0].withOuter(shift))
		}
		return out
	}
	return slices.Clone(r.children)
}

// Push returns a group holding r's contents followed by children, in order.
// If r is not a group it becomes the first child of a new group.
func (r Rule) Push(children ...Rule) Rule {
	if r.kind != KindGroup {
		return Rule{children: append([]Rule{r}, children...)}
	}
	if r.repeat != nil {
		inner := r
		inner.transform = nil
		return Rule{transform: r.transform, children: append([]Rule{inner}, children...)}
	}
	out := r
	out.children = make([]Rule, 0, len(r.children)+len(children))
	out.children = append(out.children, r.children...)
	out.children = append(out.children, children...)
	return out
}

// Tf attaches tf on the outside of r's current transform.
//
// A single transform t yields a rule whose transform is Compose(t, old).
// A transformer expanding to several transforms (geom.Replicate) yields a
// group with one copy of r per transform, in order. An empty expansion
// yields an empty group. The copies of a geom.Replication are not built
// here; evaluation produces them one at a time.
func (r Rule) Tf(tf geom.Transformer) Rule {
	if rep, ok := tf.(geom.Replication); ok {
		switch {
		case rep.Count <= 0:
			return Rule{}
		case rep.Count == 1:
			return r.withOuter(geom.Identity())
		}
		return Rule{children: []Rule{r}, repeat: &rep}
	}
	tfs := tf.Transforms()
	if len(tfs) == 1 {
		return r.withOuter(tfs[0])
	}
	copies := make([]Rule, len(tfs))
	for i, t := range tfs {
		copies[i] = r.withOuter(t)
	}
	return Rule{children: copies}
}

func (r Rule) withOuter(t geom.Transform) Rule {
	composed := geom.Compose(t, r.Transform())
	out := r
	out.transform = &composed
	return out
}
