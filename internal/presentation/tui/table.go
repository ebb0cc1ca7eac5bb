package tui

import (
	"strings"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// MarkdownTable renders the transition table as a Markdown table.
// The start state is marked with "→" and accept states with "*".
// States without a row show an empty line.
func MarkdownTable(table domain.Table) string {
	var sb strings.Builder

	if table.Name != "" {
		sb.WriteString("## " + table.Name + "\n\n")
	}

	sb.WriteString("| δ |")
	for _, sym := range table.Sigma {
		sb.WriteString(" `" + sym.String() + "` |")
	}
	sb.WriteString("\n|---|")
	for range table.Sigma {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, s := range table.States {
		label := s.String()
		if table.IsAccept(s) {
			label = "*" + label
		}
		if s == table.Start {
			label = "→ " + label
		}
		sb.WriteString("| " + label + " |")

		row, ok := table.RowOf(s)
		for col := range table.Sigma {
			cell := ""
			if ok && col < len(row) {
				cell = row[col].String()
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderTable renders the transition table through render, or returns the
// raw markdown when render is nil.
func RenderTable(table domain.Table, render func(string) (string, error)) (string, error) {
	md := MarkdownTable(table)
	if render == nil {
		return md, nil
	}
	return render(md)
}

// NewRenderer returns a function that renders markdown using glamour.
// The style is detected from the terminal background.
func NewRenderer() (func(string) (string, error), error) {
	return newRenderer(glamour.WithAutoStyle())
}

// NewPlainRenderer renders without ANSI sequences, for pipes and tests.
func NewPlainRenderer() (func(string) (string, error), error) {
	return newRenderer(glamour.WithStandardStyle("notty"))
}

func newRenderer(style glamour.TermRendererOption) (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return nil, err
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}
