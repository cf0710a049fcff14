package statstable

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Padding(0, 1)
	valueStyle  = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// RenderTerminal draws the table for a terminal. Separators become blank rows
// and the total population row is bold.
func RenderTerminal(t Table) string {
	data := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		if r.Separator {
			data = append(data, make([]string, len(t.Columns)))
			continue
		}
		data = append(data, append([]string{r.Label}, r.Cells...))
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderHeader(true).
		BorderRow(false).
		Headers(t.Columns...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := valueStyle
			if col == 0 {
				style = labelStyle
			}
			if row >= 0 && row < len(t.Rows) && t.Rows[row].Bold {
				style = style.Bold(true)
			}
			return style
		})

	return tbl.Render()
}
