package scene

import (
	"fmt"
	"slices"
)

// MaxSubdivisions bounds icosphere refinement; level 7 already has 163842
// vertices.
const MaxSubdivisions = 7

// MaxReplicate bounds the copies a single replicate node may produce.
const MaxReplicate = 10000

// MaxDepth bounds the recursion budget of a scene or a depth override.
const MaxDepth = DefaultDepth * 4

// Shapes lists the primitive names a shape node accepts.
var Shapes = []string{"cube", "tetrahedron", "quad", "icosahedron", "icosphere"}

// Validate checks the whole document and reports every problem at once as
// an *AggregateError.
func (s *Scene) Validate() error {
	v := &validator{scene: s}

	if s.Depth < 0 || s.Depth > MaxDepth {
		v.fail("depth", fmt.Sprintf("must be between 0 and %d", MaxDepth))
	}
	if len(s.Rules) == 0 {
		v.fail("rules", "at least one rule is required")
	}
	switch {
	case s.Entry == "":
		v.fail("entry", "required")
	case len(s.Rules) > 0 && s.Rules[s.Entry] == nil:
		v.fail("entry", fmt.Sprintf("unknown rule %q", s.Entry))
	}

	for _, name := range s.RuleNames() {
		if name == "" {
			v.fail("rules", "rule names must not be empty")
			continue
		}
		v.nodes("rules."+name, s.Rules[name])
	}

	if len(v.errs) > 0 {
		return &AggregateError{Errors: v.errs}
	}
	return nil
}

type validator struct {
	scene *Scene
	errs  []error
}

func (v *validator) fail(path, reason string) {
	v.errs = append(v.errs, &ValidationError{Path: path, Reason: reason})
}

func (v *validator) nodes(path string, nodes []Node) {
	for i, n := range nodes {
		v.node(fmt.Sprintf("%s[%d]", path, i), n)
	}
}

func (v *validator) node(path string, n Node) {
	switch n.Kind() {
	case "shape":
		if !slices.Contains(Shapes, n.Shape) {
			v.fail(path+".shape", fmt.Sprintf("unknown shape %q", n.Shape))
		}
		if n.Subdivisions < 0 || n.Subdivisions > MaxSubdivisions {
			v.fail(path+".subdivisions", fmt.Sprintf("must be between 0 and %d", MaxSubdivisions))
		}
	case "ref":
		if _, ok := v.scene.Rules[n.Ref]; !ok {
			v.fail(path+".ref", fmt.Sprintf("unknown rule %q", n.Ref))
		}
	case "group":
		if len(n.Group) == 0 {
			v.fail(path+".group", "needs at least one node")
		}
		v.nodes(path+".group", n.Group)
	case "choose":
		if len(n.Choose) == 0 {
			v.fail(path+".choose", "needs at least one alternative")
		}
		v.nodes(path+".choose", n.Choose)
	default:
		v.fail(path, "node must set exactly one of shape, ref, group or choose")
	}

	if _, err := DecodeTransforms(n.Transforms); err != nil {
		v.fail(path+".transforms", err.Error())
	}
	if r := n.Replicate; r != nil {
		if r.Count < 0 || r.Count > MaxReplicate {
			v.fail(path+".replicate.count", fmt.Sprintf("must be between 0 and %d", MaxReplicate))
		}
		if _, err := DecodeTransforms(r.Step); err != nil {
			v.fail(path+".replicate.step", err.Error())
		}
	}
}
