package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

// renderTable draws rows under headers. Column amountCol is right aligned;
// -1 right aligns nothing.
func renderTable(headers []string, rows [][]string, amountCol int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == amountCol:
				return amountStyle
			default:
				return cellStyle
			}
		}).
		String()
}

// printMarkdown renders md with glamour on a terminal and prints it as is
// otherwise.
func printMarkdown(e *env, md string) {
	if !e.tty {
		fmt.Fprintln(e.out, strings.TrimRight(md, "\n"))
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(e.width))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(e.out, out)
			return
		}
	}
	fmt.Fprintln(e.out, md)
}
