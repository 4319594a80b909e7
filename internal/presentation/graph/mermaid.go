package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/immense/pkg/scene"
)

// GenerateMermaid produces a Mermaid flowchart of the rule references in s.
// It applies semantic styling:
// - Entry rule: ((Circle))
// - Rule with shapes: [Rectangle] annotated with its shape count
// - Rule without shapes: [[Subroutine]]
// Plain refs are solid arrows; refs reached through a choose node are
// dotted. Rules the entry never reaches are styled as unreachable.
func GenerateMermaid(s *scene.Scene) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range s.RuleNames() {
		safeID := sanitizeMermaidID(name)
		nodes := s.Rules[name]

		opener, closer := "[", "]"
		shapes := countShapes(nodes)
		switch {
		case name == s.Entry:
			opener, closer = "((", "))"
		case shapes == 0:
			opener, closer = "[[", "]]"
		}

		label := name
		if shapes > 0 {
			label = fmt.Sprintf("%s <br/> %d shapes", name, shapes)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, e := range edges(nodes, false) {
			arrow := "-->"
			if e.chosen {
				arrow = "-. choose .->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(e.to))
		}
	}

	unreachable := Unreachable(s)
	if len(unreachable) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef unreachable fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		for _, name := range unreachable {
			fmt.Fprintf(&sb, "    class %s unreachable;\n", sanitizeMermaidID(name))
		}
	}

	return sb.String()
}

// Unreachable returns the sorted names of rules the entry never references,
// directly or transitively.
func Unreachable(s *scene.Scene) []string {
	seen := map[string]bool{}
	queue := []string{s.Entry}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, e := range edges(s.Rules[name], false) {
			queue = append(queue, e.to)
		}
	}

	var out []string
	for _, name := range s.RuleNames() {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

type edge struct {
	to     string
	chosen bool
}

// edges lists distinct refs in nodes, in document order.
func edges(nodes []scene.Node, chosen bool) []edge {
	var out []edge
	add := func(e edge) {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	for _, n := range nodes {
		switch {
		case n.Ref != "":
			add(edge{to: n.Ref, chosen: chosen})
		case n.Group != nil:
			for _, e := range edges(n.Group, chosen) {
				add(e)
			}
		case n.Choose != nil:
			for _, e := range edges(n.Choose, true) {
				add(e)
			}
		}
	}
	return out
}

func countShapes(nodes []scene.Node) int {
	n := 0
	for _, node := range nodes {
		switch {
		case node.Shape != "":
			n++
		case node.Group != nil:
			n += countShapes(node.Group)
		case node.Choose != nil:
			n += countShapes(node.Choose)
		}
	}
	return n
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
