package compare

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	matrixLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	matrixCellStyle = lipgloss.NewStyle().
			PaddingRight(2)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			MarginTop(1)

	proStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // green

	conStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")) // red

	recStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			MarginTop(1)
)

// Render produces a terminal view of the comparison: the column-aligned
// attribute matrix, both rankings, the per-item pros/cons, and the
// recommendation.
func (r Result) Render() string {
	if r.Empty {
		return r.Recommendation + "\n"
	}

	var b strings.Builder

	b.WriteString(sectionStyle.Render("Comparison"))
	b.WriteString("\n")
	b.WriteString(renderMatrix(r.Matrix))

	b.WriteString(sectionStyle.Render("By match score"))
	b.WriteString("\n")
	for i, e := range r.ByScore {
		fmt.Fprintf(&b, "  %d. %s — %s (%.3f)\n", i+1, e.Title, e.Company, e.Score)
	}

	b.WriteString(sectionStyle.Render("By salary"))
	b.WriteString("\n")
	for i, e := range r.BySalary {
		fmt.Fprintf(&b, "  %d. %s — %s (%s)\n", i+1, e.Title, e.Company, e.Salary)
	}

	b.WriteString(sectionStyle.Render("Pros & cons"))
	b.WriteString("\n")
	for _, pc := range r.ProsCons {
		fmt.Fprintf(&b, "  %s — %s\n", pc.Title, pc.Company)
		for _, p := range pc.Pros {
			b.WriteString("    " + proStyle.Render("+ "+p) + "\n")
		}
		for _, c := range pc.Cons {
			b.WriteString("    " + conStyle.Render("- "+c) + "\n")
		}
	}

	b.WriteString(recStyle.Render(r.Recommendation))
	b.WriteString("\n")
	return b.String()
}

// renderMatrix pads every column to its widest cell so attributes line up.
func renderMatrix(matrix [][]string) string {
	if len(matrix) == 0 {
		return ""
	}

	widths := make([]int, len(matrix[0]))
	for _, row := range matrix {
		for col, cell := range row {
			if w := lipgloss.Width(cell); w > widths[col] {
				widths[col] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range matrix {
		for col, cell := range row {
			padded := cell + strings.Repeat(" ", widths[col]-lipgloss.Width(cell))
			if col == 0 {
				b.WriteString(matrixCellStyle.Render(matrixLabelStyle.Render(padded)))
			} else {
				b.WriteString(matrixCellStyle.Render(padded))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
