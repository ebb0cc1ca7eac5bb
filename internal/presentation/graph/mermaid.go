package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
)

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.StateID
	CurrentState  domain.StateID
	Rejected      bool
}

// OverlayFromResult marks the states a run went through. The final state is
// highlighted as current, or as rejected when the run rejected.
func OverlayFromResult(table domain.Table, res domain.Result) *GraphOverlay {
	visited := []domain.StateID{table.Start}
	for _, step := range res.Trace {
		if dst, ok := step.To.Dest(); ok {
			visited = append(visited, dst)
		}
	}
	return &GraphOverlay{
		VisitedStates: visited,
		CurrentState:  res.Final,
		Rejected:      !res.Accepted(),
	}
}

// GenerateMermaid produces a Mermaid flowchart of the transition table.
// It applies semantic styling:
// - Start: ((Circle))
// - Accept: (((Double circle)))
// - Default: [Rectangle]
// Parallel edges between the same states are merged into one labelled edge
// ("a, b"). Overlay styles (visited/current) are applied if provided.
func GenerateMermaid(table domain.Table, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range table.States {
		id := s.String()

		opener, closer := "[", "]"
		switch {
		case table.IsAccept(s):
			opener, closer = "(((", ")))"
		case s == table.Start:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, id, closer))
	}

	if table.Start != domain.NoState {
		sb.WriteString(fmt.Sprintf("    start_marker[ ] --> %s\n", table.Start))
		sb.WriteString("    style start_marker fill:none,stroke:none\n")
	}

	for _, s := range table.States {
		row, ok := table.RowOf(s)
		if !ok {
			continue
		}

		// Group columns by destination, keeping alphabet order.
		var dests []domain.StateID
		labels := make(map[domain.StateID][]string)
		for col, cell := range row {
			dst, ok := cell.Dest()
			if !ok || col >= len(table.Sigma) {
				continue
			}
			if _, seen := labels[dst]; !seen {
				dests = append(dests, dst)
			}
			labels[dst] = append(labels[dst], escapeLabel(table.Sigma[col].String()))
		}

		for _, dst := range dests {
			label := strings.Join(labels[dst], ", ")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", s, label, dst))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on light and dark themes
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#c8e6c9,stroke:#2e7d32,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef rejected fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.StateID]bool)
		for _, s := range overlay.VisitedStates {
			if s == domain.NoState || seen[s] {
				continue
			}
			seen[s] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", s))
		}

		if overlay.CurrentState != domain.NoState {
			class := "current"
			if overlay.Rejected {
				class = "rejected"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", overlay.CurrentState, class))
		}
	}

	return sb.String()
}

// escapeLabel keeps symbols like '"' or '|' from breaking Mermaid syntax.
func escapeLabel(s string) string {
	switch s {
	case `"`:
		return "#quot;"
	case "|":
		return "#124;"
	}
	return s
}
