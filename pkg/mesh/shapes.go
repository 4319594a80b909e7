package mesh

import (
	"cogentcore.org/core/math32"
)

// Cube returns a unit cube centered at the origin: 8 vertices and 6 quads
// wound counter-clockwise when seen from outside.
func Cube() *Mesh {
	const h = 0.5
	return MustNew(
		[]math32.Vector3{
			math32.Vec3(-h, -h, -h),
			math32.Vec3(h, -h, -h),
			math32.Vec3(h, h, -h),
			math32.Vec3(-h, h, -h),
			math32.Vec3(-h, -h, h),
			math32.Vec3(h, -h, h),
			math32.Vec3(h, h, h),
			math32.Vec3(-h, h, h),
		},
		[]Face{
			{0, 3, 2, 1}, // -z
			{4, 5, 6, 7}, // +z
			{0, 1, 5, 4}, // -y
			{3, 7, 6, 2}, // +y
			{0, 4, 7, 3}, // -x
			{1, 2, 6, 5}, // +x
		},
	)
}

// Tetrahedron returns a regular tetrahedron inscribed in the unit cube.
func Tetrahedron() *Mesh {
	const h = 0.5
	return MustNew(
		[]math32.Vector3{
			math32.Vec3(h, h, h),
			math32.Vec3(h, -h, -h),
			math32.Vec3(-h, h, -h),
			math32.Vec3(-h, -h, h),
		},
		[]Face{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}},
	)
}

// Quad returns a unit square in the XY plane facing +z.
func Quad() *Mesh {
	const h = 0.5
	return MustNew(
		[]math32.Vector3{
			math32.Vec3(-h, -h, 0),
			math32.Vec3(h, -h, 0),
			math32.Vec3(h, h, 0),
			math32.Vec3(-h, h, 0),
		},
		[]Face{{0, 1, 2, 3}},
	)
}

// Icosahedron returns a regular icosahedron with vertices on the unit sphere.
func Icosahedron() *Mesh {
	t := (1 + math32.Sqrt(5)) / 2
	verts := []math32.Vector3{
		math32.Vec3(-1, t, 0), math32.Vec3(1, t, 0), math32.Vec3(-1, -t, 0), math32.Vec3(1, -t, 0),
		math32.Vec3(0, -1, t), math32.Vec3(0, 1, t), math32.Vec3(0, -1, -t), math32.Vec3(0, 1, -t),
		math32.Vec3(t, 0, -1), math32.Vec3(t, 0, 1), math32.Vec3(-t, 0, -1), math32.Vec3(-t, 0, 1),
	}
	for i := range verts {
		verts[i] = verts[i].Normal()
	}
	return MustNew(verts, []Face{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	})
}

// Icosphere returns an icosahedron whose triangles are split into four,
// subdivisions times, with new vertices pushed out to the unit sphere.
// A sphere with k subdivisions has 10*4^k+2 vertices and 20*4^k faces.
func Icosphere(subdivisions int) *Mesh {
	base := Icosahedron()
	verts := base.Vertices
	faces := base.Faces
	for range max(subdivisions, 0) {
		mids := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if idx, ok := mids[key]; ok {
				return idx
			}
			verts = append(verts, verts[a].Add(verts[b]).Normal())
			mids[key] = len(verts) - 1
			return len(verts) - 1
		}
		next := make([]Face, 0, len(faces)*4)
		for _, f := range faces {
			a, b, c := f[0], f[1], f[2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				Face{a, ab, ca},
				Face{b, bc, ab},
				Face{c, ca, bc},
				Face{ab, bc, ca},
			)
		}
		faces = next
	}
	return MustNew(verts, faces)
}
