package immense_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/immense"
	"github.com/aretw0/immense/pkg/geom"
	"github.com/aretw0/immense/pkg/mesh"
	"github.com/aretw0/immense/pkg/rule"
)

// ExampleWriteMeshes writes two quads; the second quad's face indices
// continue after the first quad's vertices.
func ExampleWriteMeshes() {
	a := mesh.Quad()
	b := mesh.Quad().Transform(geom.TranslateX(2))

	if err := immense.WriteMeshes([]*mesh.Mesh{a, b}, os.Stdout); err != nil {
		log.Fatal(err)
	}
	// Output:
	// v -0.5 -0.5 0
	// v 0.5 -0.5 0
	// v 0.5 0.5 0
	// v -0.5 0.5 0
	// f 1 2 3 4
	// v 1.5 -0.5 0
	// v 2.5 -0.5 0
	// v 2.5 0.5 0
	// v 1.5 0.5 0
	// f 5 6 7 8
}

// ExampleGenerator_Render renders a replicated rule and reports what was written.
func ExampleGenerator_Render() {
	row := rule.Tetrahedron().Tf(geom.Replicate(4, geom.TranslateY(2)))

	gen := immense.New()
	stats, err := gen.Render(context.Background(), row, discard{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("meshes=%d vertices=%d faces=%d\n", stats.Meshes, stats.Vertices, stats.Faces)
	// Output:
	// meshes=4 vertices=16 faces=16
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
