// Package graph renders compiled workflows as Mermaid flowcharts, for the
// CLI graph command and the HTTP graph endpoint.
package graph

import (
	"fmt"
	"strings"

	"github.com/ariumhq/arium"
)

// Overlay contains dynamic run state to visualize on the graph.
type Overlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart from a compiled graph.
// Semantic styling:
//   - start node: ((circle))
//   - terminal nodes: ([stadium])
//   - default: [rectangle]
//
// Routed transitions render as dashed arrows labelled "router"; a routable
// finish renders as a dashed arrow into a dedicated end circle.
func GenerateMermaid(g *arium.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	terminals := make(map[string]bool)
	for _, name := range g.Terminals() {
		terminals[name] = true
	}

	for _, name := range g.NodeNames() {
		safeID := sanitizeMermaidID(name)

		opener, closer := "[", "]"
		switch {
		case name == g.Start():
			opener, closer = "((", "))"
		case terminals[name]:
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))
	}

	needsEndNode := false
	for _, edge := range g.Edges() {
		safeFrom := sanitizeMermaidID(edge.From)

		arrow := "-->"
		if edge.Router != nil {
			arrow = `-. "router" .->`
		}

		for _, to := range edge.To {
			if to == arium.End {
				needsEndNode = true
				sb.WriteString(fmt.Sprintf("    %s %s __end__\n", safeFrom, arrow))
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, sanitizeMermaidID(to)))
		}
	}

	if needsEndNode {
		sb.WriteString("    __end__((\"end\"))\n")
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
