package rule

import (
	"iter"

	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/mesh"
)

type frame struct {
	rule      Rule
	inherited geom.Transform
	// Replicated groups are revisited once per copy.
	next  int
	shift geom.Transform
}

// Evaluate flattens r into world-space meshes under the inherited transform.
//
// Meshes are produced depth-first, children in insertion order, so the
// output order is stable for rules without deferred nodes. Deferred rules
// are resolved when reached, once per occurrence; ranging over the returned
// sequence again resolves them again. The walk uses an explicit stack, so
// deep rule trees do not grow the goroutine stack, and replicated copies are
// built one at a time as the walk reaches them. Breaking out of the range
// loop stops the walk without resolving the remaining rules.
func Evaluate(r Rule, inherited geom.Transform) iter.Seq[*mesh.Mesh] {
	return func(yield func(*mesh.Mesh) bool) {
		stack := []frame{{rule: r, inherited: inherited}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			acc := geom.Compose(top.inherited, top.rule.Transform())
			switch top.rule.kind {
			case KindLeaf:
				if top.rule.mesh == nil {
					continue
				}
				if !yield(top.rule.mesh.Transform(acc)) {
					return
				}
			case KindDeferred:
				if top.rule.deferred == nil {
					continue
				}
				stack = append(stack, frame{rule: top.rule.deferred.ToRule(), inherited: acc})
			default:
				if rep := top.rule.repeat; rep != nil {
					if top.next >= rep.Count {
						continue
					}
					shift := top.shift
					if top.next == 0 {
						shift = geom.Identity()
					}
					resume := top
					resume.next++
					resume.shift = geom.Compose(rep.Step, shift)
					stack = append(stack,
						resume,
						frame{rule: top.rule.children[0].withOuter(shift), inherited: acc},
					)
					continue
				}
				// Reverse push keeps the first child on top of the stack.
				for i := len(top.rule.children) - 1; i >= 0; i-- {
					stack = append(stack, frame{rule: top.rule.children[i], inherited: acc})
				}
			}
		}
	}
}

// Meshes evaluates r under the identity transform.
func (r Rule) Meshes() iter.Seq[*mesh.Mesh] {
	return Evaluate(r, geom.Identity())
}

// Collect evaluates r under the identity transform into a slice.
func Collect(r Rule) []*mesh.Mesh {
	var out []*mesh.Mesh
	for m := range r.Meshes() {
		out = append(out, m)
	}
	return out
}

// Count evaluates r and returns how many meshes it produced. Deferred rules
// are resolved, so the result may differ between calls.
func Count(r Rule) int {
	n := 0
	for range r.Meshes() {
		n++
	}
	return n
}
