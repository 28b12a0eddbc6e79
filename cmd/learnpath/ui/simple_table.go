package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable is a static table that renders either styled for a terminal
// or as GitHub-flavoured markdown.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  string

	columnStyles map[int]CellStyle
}

// CellStyle decorates one cell for terminal output.
type CellStyle func(s Styles, cell string) string

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table. Missing cells render empty.
func (t *SimpleTable) AddRow(row ...string) {
	for len(row) < len(t.Headers) {
		row = append(row, "")
	}
	t.Rows = append(t.Rows, row)
}

// StyleColumn decorates column col in View. Markdown output is unstyled.
func (t *SimpleTable) StyleColumn(col int, style CellStyle) {
	if t.columnStyles == nil {
		t.columnStyles = make(map[int]CellStyle)
	}
	t.columnStyles[col] = style
}

// Len returns the number of rows.
func (t *SimpleTable) Len() int { return len(t.Rows) }

// View renders the table using the provided styles. An empty table renders
// its title and a muted "(none)".
func (t *SimpleTable) View(styles Styles) string {
	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		sb.WriteString(styles.Muted.Render("(none)"))
		sb.WriteString("\n\n")
		return sb.String()
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		rows[r] = make([]string, len(row))
		for i, cell := range row {
			if style, ok := t.columnStyles[i]; ok && cell != "" {
				cell = style(styles, cell)
			}
			rows[r][i] = cell
		}
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], lipgloss.Width(cell))
			}
		}
	}
	// lipgloss Width includes padding
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sepStyle := styles.Muted

	writeRow := func(cells []string, style lipgloss.Style) {
		for i := range colWidths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(style.Width(colWidths[i]).Render(cell))
			if i < len(colWidths)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(t.Headers, headerStyle)

	totalWidth := len(colWidths) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range rows {
		writeRow(row, rowStyle)
	}
	if t.Footer != "" {
		sb.WriteString(styles.Subtitle.Render(t.Footer))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// Markdown renders the table as a markdown section.
func (t *SimpleTable) Markdown() string {
	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString("## " + t.Title + "\n\n")
	}
	if len(t.Rows) == 0 {
		sb.WriteString("_none_\n\n")
		return sb.String()
	}
	sb.WriteString("| " + strings.Join(escapeCells(t.Headers), " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(t.Headers)) + "\n")
	for _, row := range t.Rows {
		sb.WriteString("| " + strings.Join(escapeCells(row[:len(t.Headers)]), " | ") + " |\n")
	}
	if t.Footer != "" {
		sb.WriteString("\n_" + t.Footer + "_\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
