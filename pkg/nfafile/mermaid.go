package nfafile

import (
	"fmt"
	"strings"
)

// GenerateMermaid produces a Mermaid flowchart for a graph.
// Shapes:
// - Final: (((Double circle)))
// - Other: ((Circle))
// The initial node gets an arrow from an invisible start point.
func GenerateMermaid(g *Graph) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[n.ID] = fmt.Sprintf("s%d", i)
	}

	if initial := g.Initial(); initial != "" {
		sb.WriteString("    start[ ]:::hidden\n")
		sb.WriteString(fmt.Sprintf("    start --> %s\n", ids[initial]))
	}

	for _, n := range g.Nodes {
		opener, closer := "((", "))"
		if n.Final {
			opener, closer = "(((", ")))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", ids[n.ID], opener, escapeMermaid(n.Label), closer))
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", ids[e.From], escapeMermaid(e.Label), ids[e.To]))
	}

	sb.WriteString("    classDef hidden display:none;\n")
	return sb.String()
}

// escapeMermaid replaces characters that end a quoted Mermaid label.
func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
