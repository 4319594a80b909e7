/*
Package mesh defines the polygon mesh payload produced by rules and consumed by
exporters, plus a handful of built-in primitive shapes.

A Mesh is an ordered list of vertices and an ordered list of faces. Each face
lists local vertex indices, so the vertex order defines index 0..N-1. Meshes
built with New are checked once at construction; transforming a mesh never
changes its vertex count, so a valid mesh stays valid.
*/
package mesh
