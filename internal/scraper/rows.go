package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vitidata/internal/logger"
	"vitidata/internal/models"
)

// paginationGlyphs are cell values produced by the site's pager and
// download controls; a row containing any of them is not data.
var paginationGlyphs = map[string]bool{
	"TOPO":     true,
	"DOWNLOAD": true,
	"«":        true,
	"»":        true,
	"‹":        true,
	"›":        true,
	"«‹›»":     true,
}

// footerMarkers flag footer rows by substring, case-insensitive.
var footerMarkers = []string{"copyright", "embrapa"}

// numericColumnMarkers mark columns whose cells carry locale-formatted
// numbers to be cleaned.
var numericColumnMarkers = []string{"quantidade", "valor", "kg", "us$"}

// ExtractRows extracts, filters, and numerically normalizes the data rows of
// a table against the inferred headers. Rows are padded or truncated to
// exactly len(headers) cells; embedded repeated headers, empty rows,
// pagination artifacts, and footer rows are skipped.
func ExtractRows(table *goquery.Selection, headers []string, log *logger.Logger) []models.Record {
	if table == nil || len(headers) == 0 {
		return nil
	}

	var records []models.Record

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := cellTexts(row)
		if skipRow(cells, headers) {
			return
		}

		records = append(records, buildRecord(fitCells(cells, len(headers)), headers, log))
	})

	return records
}

// skipRow applies the row-retention rules.
func skipRow(cells, headers []string) bool {
	if len(cells) == 0 {
		return true
	}

	allEmpty := true

	for _, cell := range cells {
		if cell != "" {
			allEmpty = false
		}

		if paginationGlyphs[cell] {
			return true
		}

		lower := strings.ToLower(cell)
		for _, marker := range footerMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}

	if allEmpty {
		return true
	}

	// An embedded repeat of the header row carries the pre-dedupe names, so
	// run the candidate through the same dedup before comparing.
	return equalStrings(dedupeHeaders(cells), headers)
}

// equalStrings reports whether a row's cells exactly match the header set,
// which guards against repeated header rows embedded in the data.
func equalStrings(cells, headers []string) bool {
	if len(cells) != len(headers) {
		return false
	}

	for i := range cells {
		if cells[i] != headers[i] {
			return false
		}
	}

	return true
}

// fitCells pads with empty strings or truncates so that the cell count
// matches the header count exactly.
func fitCells(cells []string, width int) []string {
	if len(cells) == width {
		return cells
	}

	if len(cells) > width {
		return cells[:width]
	}

	fitted := make([]string, width)
	copy(fitted, cells)

	return fitted
}

// buildRecord assembles a record and cleans numeric columns.
func buildRecord(cells, headers []string, log *logger.Logger) models.Record {
	record := make(models.Record, len(headers))

	for i, header := range headers {
		if isNumericColumn(header) {
			record[header] = cleanNumericCell(header, cells[i], log)

			continue
		}

		record[header] = cells[i]
	}

	return record
}

// isNumericColumn reports whether a column name marks locale-formatted
// numeric content.
func isNumericColumn(name string) bool {
	lower := strings.ToLower(name)

	return containsAny(lower, numericColumnMarkers)
}

// cleanNumericCell strips the '.' thousands separator, converts the ','
// decimal separator, and parses the result. A cell that still does not
// parse is kept as the cleaned string rather than aborting the row.
func cleanNumericCell(column, value string, log *logger.Logger) any {
	cleaned := strings.ReplaceAll(value, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log.Debug("numeric cell did not parse", "column", column, "value", value)

		return cleaned
	}

	return f
}
