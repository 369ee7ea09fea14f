package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#7A8599")
	danger = lipgloss.Color("#E53935")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(danger)
)

// table renders rows as aligned columns with a header line.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) addRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render() string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	for i, h := range t.headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")
	for i := range t.headers {
		sb.WriteString(mutedStyle.Render(strings.Repeat("─", widths[i])))
	}
	sb.WriteString("\n")
	for _, row := range t.rows {
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(cellStyle.Width(widths[i]).Render(cell))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
