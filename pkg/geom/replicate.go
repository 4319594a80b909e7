package geom

import "iter"

// Transformer is anything that can be attached to a rule: a single Transform
// or a Replication expanding to several copies.
type Transformer interface {
	Transforms() []Transform
}

// Replication expands to Count transforms: Step composed with itself
// 0, 1, ..., Count-1 times.
type Replication struct {
	Count int
	Step  Transform
}

// Replicate returns a Replication of n copies, each shifted by one more step.
func Replicate(n int, step Transform) Replication {
	return Replication{Count: n, Step: step}
}

// All yields the Count transforms in order without storing them. A
// non-positive count yields none.
func (r Replication) All() iter.Seq[Transform] {
	return func(yield func(Transform) bool) {
		acc := Identity()
		for range max(r.Count, 0) {
			if !yield(acc) {
				return
			}
			acc = Compose(r.Step, acc)
		}
	}
}

// Transforms implements Transformer. A non-positive count yields none.
func (r Replication) Transforms() []Transform {
	var out []Transform
	for t := range r.All() {
		out = append(out, t)
	}
	return out
}
