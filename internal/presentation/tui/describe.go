package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/scene"
)

// DescribeScene builds a markdown summary of s. meshes is the mesh count of
// one evaluation, or a negative value when unknown.
func DescribeScene(s *scene.Scene, meshes int) string {
	var sb strings.Builder

	name := s.Name
	if name == "" {
		name = "untitled"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if s.Description != "" {
		sb.WriteString(strings.TrimSpace(s.Description))
		sb.WriteString("\n\n")
	}

	sb.WriteString("| Setting | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Entry | `%s` |\n", s.Entry)
	fmt.Fprintf(&sb, "| Depth | %d |\n", s.EffectiveDepth())
	if s.Seed == 0 {
		sb.WriteString("| Seed | random |\n")
	} else {
		fmt.Fprintf(&sb, "| Seed | %d |\n", s.Seed)
	}
	if meshes >= 0 {
		fmt.Fprintf(&sb, "| Meshes | %d |\n", meshes)
	}

	sb.WriteString("\n## Rules\n\n")
	for _, rn := range s.RuleNames() {
		nodes := s.Rules[rn]
		marker := ""
		if rn == s.Entry {
			marker = " (entry)"
		}
		fmt.Fprintf(&sb, "- **%s**%s: %s\n", rn, marker, summarizeNodes(nodes))
	}
	return sb.String()
}

func summarizeNodes(nodes []scene.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, summarizeNode(n))
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, ", ")
}

func summarizeNode(n scene.Node) string {
	var s string
	switch n.Kind() {
	case "shape":
		s = n.Shape
		if n.Shape == "icosphere" {
			s = fmt.Sprintf("icosphere(%d)", n.Subdivisions)
		}
	case "ref":
		s = "→ " + n.Ref
	case "group":
		s = "group[" + summarizeNodes(n.Group) + "]"
	case "choose":
		s = fmt.Sprintf("choose of %d", len(n.Choose))
	default:
		s = "?"
	}
	if n.Replicate != nil {
		s = fmt.Sprintf("%s ×%d", s, n.Replicate.Count)
	}
	return s
}

// DescribeOBJ builds a markdown summary of a decoded OBJ document.
func DescribeOBJ(name string, doc *obj.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Vertices | %d |\n", len(doc.Vertices))
	fmt.Fprintf(&sb, "| Faces | %d |\n", len(doc.Faces))
	if len(doc.Objects) > 0 {
		fmt.Fprintf(&sb, "| Objects | %d |\n", len(doc.Objects))
	}
	if len(doc.Vertices) > 0 {
		lo, hi := doc.Bounds()
		fmt.Fprintf(&sb, "| Min | (%g, %g, %g) |\n", lo.X, lo.Y, lo.Z)
		fmt.Fprintf(&sb, "| Max | (%g, %g, %g) |\n", hi.X, hi.Y, hi.Z)
	}
	return sb.String()
}
