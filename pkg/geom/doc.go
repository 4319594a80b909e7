/*
Package geom holds the affine transforms used to place geometry in a scene.

A Transform is an immutable value made of a per-axis scale followed by a
translation. Transforms compose with a fixed law:

	Compose(outer, inner).Apply(p) == outer.Apply(inner.Apply(p))

that is, the inner transform is applied first. Rule builders rely on this law
so that the most recently attached transform is the outermost one.
*/
package geom
