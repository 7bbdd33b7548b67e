package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Tabular is implemented by results that can be printed as a table.
type Tabular interface {
	TableHeader() []string
	TableRows() [][]string
}

// Theme defines colors for table output.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the default cyberpunk-style theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// RenderTable renders t with a rounded border. Colors are dropped
// automatically when stdout is not a terminal.
func RenderTable(t Tabular, theme Theme) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Dim)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(t.TableHeader()...).
		Rows(t.TableRows()...).
		Render()
}

// Rows is a ready-made Tabular.
type Rows struct {
	Header []string
	Data   [][]string
}

func (r Rows) TableHeader() []string { return r.Header }
func (r Rows) TableRows() [][]string { return r.Data }
