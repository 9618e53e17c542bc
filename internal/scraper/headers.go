package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// headerKeywords identify a row that is a header in disguise: markup without
// <th> cells but whose text names the usual columns.
var headerKeywords = []string{"país", "pais", "produto", "quantidade", "valor"}

// structuralHeaders is the fixed fallback header set used when the table
// shape suggests country/quantity/value columns but nothing names them.
var structuralHeaders = []string{"País", "Quantidade (Kg)", "Valor (US$)"}

// How many leading rows the keyword strategy inspects.
const keywordScanRows = 3

// headerStrategy derives column names from a table, or returns nil when the
// strategy does not apply. Strategies are pure functions over the table.
type headerStrategy func(table *goquery.Selection) []string

// headerStrategies is the ordered inference chain; the first strategy that
// yields a non-empty set wins.
var headerStrategies = []headerStrategy{
	headersFromTH,
	headersFromFirstRow,
	headersFromKeywordRow,
	headersStructural,
}

// InferHeaders derives the column names for a table. The result is
// guaranteed free of duplicates; repeated names get _1, _2, … suffixes in
// encounter order. Returns nil when the table yields nothing at all.
func InferHeaders(table *goquery.Selection) []string {
	if table == nil {
		return nil
	}

	for _, strategy := range headerStrategies {
		if headers := strategy(table); len(headers) > 0 {
			return dedupeHeaders(headers)
		}
	}

	return nil
}

// headersFromTH uses the explicit <th> cells of the first row that carries
// any, accepted only when every name is non-empty. Some source tables also
// use <th> for row labels further down, which must not widen the header set.
func headersFromTH(table *goquery.Selection) []string {
	var headers []string

	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("th")
		if cells.Length() == 0 {
			return true
		}

		cells.Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(cell.Text()))
		})

		return false
	})

	return acceptAllNonEmpty(headers)
}

// headersFromFirstRow uses the first row's cells under the same non-empty
// condition.
func headersFromFirstRow(table *goquery.Selection) []string {
	first := table.Find("tr").First()
	if first.Length() == 0 {
		return nil
	}

	return acceptAllNonEmpty(cellTexts(first))
}

// headersFromKeywordRow scans the leading rows for one whose text names a
// known column and promotes that row to header.
func headersFromKeywordRow(table *goquery.Selection) []string {
	var headers []string

	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= keywordScanRows {
			return false
		}

		cells := cellTexts(row)
		joined := strings.ToLower(strings.Join(cells, " "))

		if containsAny(joined, headerKeywords) {
			headers = cells

			return false
		}

		return true
	})

	return headers
}

// headersStructural synthesizes headers from the table's shape: the fixed
// country/quantity/value set when the modal cell count is at least 3,
// generic ColumnN names otherwise.
func headersStructural(table *goquery.Selection) []string {
	counts := make(map[int]int)

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		counts[len(cellTexts(row))]++
	})

	modal, seen := 0, 0

	for width, n := range counts {
		if width > 0 && n > seen {
			modal = width
			seen = n
		}
	}

	if modal == 0 {
		return nil
	}

	headers := make([]string, modal)

	for i := range headers {
		if modal >= len(structuralHeaders) && i < len(structuralHeaders) {
			headers[i] = structuralHeaders[i]

			continue
		}

		headers[i] = fmt.Sprintf("Column%d", i+1)
	}

	return headers
}

// acceptAllNonEmpty returns the headers unchanged when every entry is
// non-empty, nil otherwise.
func acceptAllNonEmpty(headers []string) []string {
	if len(headers) == 0 {
		return nil
	}

	for _, h := range headers {
		if h == "" {
			return nil
		}
	}

	return headers
}

// dedupeHeaders suffixes repeated names with _1, _2, … preserving order. A
// generated name that is itself already taken (the input may carry names like
// "A_1") keeps incrementing until free, so the result never holds duplicates.
func dedupeHeaders(headers []string) []string {
	used := make(map[string]bool, len(headers))
	out := make([]string, len(headers))

	for i, h := range headers {
		name := h

		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}

		used[name] = true
		out[i] = name
	}

	return out
}
