package export

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sells-group/water-intel/internal/rank"
)

// tableColumns are the columns shown in the terminal; the full set is too
// wide for most terminals.
var tableColumns = []string{"Tier", "Score", "Name District", "City Name", "County", "Annual Budget", "Apl Status"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#718096"))
)

// Table renders rows as a plain-text table with the Tier column coloured by
// tier. It returns "" for no rows.
func Table(title string, rows []rank.DisplayRow) string {
	if len(rows) == 0 {
		return ""
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = tableCells(r)
	}

	widths := make([]int, len(tableColumns))
	for i, h := range tableColumns {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(titleStyle.Render(title))
		sb.WriteString("\n")
	}

	sep := mutedStyle.Render("|")
	for i, h := range tableColumns {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for ri, row := range cells {
		tierStyle := cellStyle.Foreground(lipgloss.Color(rows[ri].TierColor))
		for i, c := range row {
			if i > 0 {
				sb.WriteString(sep)
			}
			style := cellStyle
			if i == 0 {
				style = tierStyle
			}
			sb.WriteString(style.Width(widths[i]).Render(c))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func tableCells(r rank.DisplayRow) []string {
	all := r.Cells()
	out := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		out[i] = all[indexOf(rank.DisplayColumns, col)]
	}
	return out
}
