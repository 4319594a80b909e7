/*
Package rule is the composition engine: a tree of rules that flattens into a
list of positioned meshes.

A Rule is one of three things:

  - a leaf, producing exactly one mesh (Leaf, Cube, Tetrahedron, ...);
  - a group of child rules, evaluated in insertion order (New + Push);
  - a deferred rule, produced by a ToRule value at evaluation time (From).

Every rule carries one transform. Tf attaches another one on the outside, so
the last transform attached is the last one applied:

	rule.Cube().Tf(geom.TranslateX(1)).Tf(geom.ScaleBy(2)) // translate, then scale

Tf also accepts a geom.Replication, turning the rule into a group of shifted
copies:

	rule.Cube().Tf(geom.Replicate(3, geom.TranslateY(1.1)))

Rules are values. Push and Tf return new rules and never change the receiver,
so a rule can be reused as a building block in several places.

Deferred rules are the hook for randomness. The ToRule value is asked for a
fresh rule every time the deferred rule is reached during evaluation, which
includes each copy made by a replication:

	rule.FromFunc(func() rule.Rule {
		return rule.Cube().Tf(geom.TranslateX(rand.Float32()))
	}).Tf(geom.Replicate(4, geom.TranslateY(1)))

Recursive structures are written as ordinary Go functions that thread a depth
budget; the evaluator imposes no limit of its own.
*/
package rule
