// Package components provides the rendered building blocks of CLI output.
package components

import (
	"strings"

	"github.com/bnema/wpbackup/internal/adapters/in/cli/ui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TableColumn defines a table column. A zero Width leaves the column unbounded.
type TableColumn struct {
	Title string
	Width int
}

// TableModel is a styled table component.
type TableModel struct {
	columns     []TableColumn
	rows        [][]string
	borderStyle lipgloss.Style
	headerStyle lipgloss.Style
	cellStyle   lipgloss.Style
}

// TableOption configures a TableModel.
type TableOption func(*TableModel)

// NewTable creates a new styled table.
func NewTable(opts ...TableOption) *TableModel {
	t := &TableModel{
		borderStyle: lipgloss.NewStyle().Foreground(styles.ColorBorder),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorPrimary).
			Padding(0, 1),
		cellStyle: lipgloss.NewStyle().
			Foreground(styles.ColorText).
			Padding(0, 1),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithColumns sets the table columns.
func WithColumns(cols []TableColumn) TableOption {
	return func(t *TableModel) {
		t.columns = cols
	}
}

// WithRows sets the table rows.
func WithRows(rows [][]string) TableOption {
	return func(t *TableModel) {
		t.rows = rows
	}
}

// Render renders the table as a string.
func (t *TableModel) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = truncateCell(col.Title, contentWidth(t.headerStyle, col.Width))
	}

	rows := make([][]string, len(t.rows))
	for rowIdx, row := range t.rows {
		rows[rowIdx] = make([]string, len(row))
		for colIdx, cell := range row {
			width := 0
			if colIdx < len(t.columns) {
				width = contentWidth(t.cellStyle, t.columns[colIdx].Width)
			}
			rows[rowIdx][colIdx] = truncateCell(cell, width)
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := t.cellStyle
			if row == table.HeaderRow {
				style = t.headerStyle
			}
			if col >= 0 && col < len(t.columns) && t.columns[col].Width > 0 {
				w := t.columns[col].Width
				style = style.Width(w).MaxWidth(w)
			}
			return style
		})

	return tbl.String()
}

// contentWidth is the room left for text once the style's padding is taken
// out of a column width. Zero means unbounded.
func contentWidth(style lipgloss.Style, width int) int {
	if width <= 0 {
		return 0
	}
	return max(width-style.GetHorizontalPadding(), 1)
}

func truncateCell(value string, maxWidth int) string {
	if strings.Contains(value, "\x1b[") {
		return value
	}

	if maxWidth <= 0 || runewidth.StringWidth(value) <= maxWidth {
		return value
	}

	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	targetWidth := maxWidth - 3
	b := strings.Builder{}
	currentWidth := 0
	g := uniseg.NewGraphemes(value)
	for g.Next() {
		grapheme := g.Str()
		graphemeWidth := runewidth.StringWidth(grapheme)
		if currentWidth+graphemeWidth > targetWidth {
			break
		}
		b.WriteString(grapheme)
		currentWidth += graphemeWidth
	}

	if b.Len() == 0 {
		return strings.Repeat(".", maxWidth)
	}

	return b.String() + "..."
}

// UnitTable renders classified backup units: id, date, age and verdict.
func UnitTable(units [][]string) string {
	return NewTable(
		WithColumns([]TableColumn{
			{Title: "Unit", Width: 28},
			{Title: "Date"},
			{Title: "Age"},
			{Title: "Verdict"},
		}),
		WithRows(units),
	).Render()
}

// SiteResultTable renders the per-site outcome of a backup run.
func SiteResultTable(sites [][]string) string {
	return NewTable(
		WithColumns([]TableColumn{
			{Title: "Site", Width: 24},
			{Title: "Status"},
			{Title: "Size"},
			{Title: "Duration"},
			{Title: "Detail", Width: 48},
		}),
		WithRows(sites),
	).Render()
}
