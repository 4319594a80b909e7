/*
Package immense composes procedural 3D meshes from rules and streams them out
as Wavefront OBJ.

A rule is either a concrete mesh, a group of child rules, or a deferred rule
that is resolved afresh every time evaluation reaches it. Every rule carries
an optional transform. Evaluating a tree walks it depth first, composing the
transforms along the path, and yields each mesh already placed in world
space. Deferred rules make recursive and randomized structures possible
without building the whole tree up front.

# Usage

Build a tree with the helpers in pkg/rule and pkg/geom, then hand it to a
Generator:

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/immense"
		"github.com/aretw0/immense/pkg/geom"
		"github.com/aretw0/immense/pkg/rule"
	)

	func main() {
		// 1. A row of three cubes, 1.1 units apart.
		row := rule.Cube().Tf(geom.Replicate(3, geom.TranslateX(1.1)))

		// 2. Stream it to stdout, one mesh at a time.
		gen := immense.New()
		if _, err := gen.Render(context.Background(), row, os.Stdout); err != nil {
			log.Fatal(err)
		}
	}

For a plain slice of meshes, WriteMeshes writes them directly.

# Packages

  - pkg/geom: transforms and replication.
  - pkg/mesh: mesh values and primitive shapes.
  - pkg/rule: the rule tree and its evaluator.
  - pkg/obj: the streaming OBJ encoder and a small reader.
  - pkg/scene: declarative YAML scene documents.
  - pkg/adapters: Lua scripting, scene stores, HTTP and MCP servers.

The immense command (cmd/immense) wraps all of this in a CLI.
*/
package immense
