// Package render formats acquisition results for terminal output.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"vitidata/internal/models"
)

// maxCellWidth keeps pathological cells from blowing up the layout.
const maxCellWidth = 40

// Table writes records as an aligned text table. Column order follows the
// first record's sorted keys so output is deterministic.
func Table(w io.Writer, records []models.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "(no records)")

		return
	}

	columns := records[0].Keys()

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col)
	}

	rows := make([][]string, 0, len(records))

	for _, record := range records {
		row := make([]string, len(columns))

		for i, col := range columns {
			cell := formatCell(record[col])
			row[i] = cell

			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}

		rows = append(rows, row)
	}

	for i := range widths {
		if widths[i] > maxCellWidth {
			widths[i] = maxCellWidth
		}
	}

	writeRow(w, columns, widths)
	writeSeparator(w, widths)

	for _, row := range rows {
		writeRow(w, row, widths)
	}
}

func formatCell(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}

	return fmt.Sprintf("%v", value)
}

func writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))

	for i, cell := range cells {
		truncated := runewidth.Truncate(cell, widths[i], "…")
		parts[i] = runewidth.FillRight(truncated, widths[i])
	}

	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func writeSeparator(w io.Writer, widths []int) {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width)
	}

	fmt.Fprintln(w, strings.Join(parts, "  "))
}
