package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tables with fewer rows than this are navigation chrome, not data.
const minTableRows = 3

// Scoring weights for the table-candidate heuristic.
const (
	weightRow        = 2
	weightHeaderCell = 3
	weightThousands  = 10
	weightCountry    = 5
	weightProduct    = 5
)

// thousandsPattern matches locale-formatted magnitudes like "162.844.214",
// a strong signal that a table carries statistical data.
var thousandsPattern = regexp.MustCompile(`\d{1,3}(\.\d{3})+`)

// SelectBestTable ranks every table element in the document by a
// structural/content heuristic and returns the best candidate, or nil when
// no table survives the row-count filter. Ties keep the table encountered
// first in document order.
func SelectBestTable(doc *goquery.Document) *goquery.Selection {
	if doc == nil {
		return nil
	}

	var best *goquery.Selection

	bestScore := 0

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		score, ok := scoreTable(table)
		if !ok {
			return
		}

		if best == nil || score > bestScore {
			best = table
			bestScore = score
		}
	})

	return best
}

// scoreTable computes the candidate score. ok is false when the table is
// below the minimum row count.
func scoreTable(table *goquery.Selection) (int, bool) {
	rows := table.Find("tr").Length()
	if rows < minTableRows {
		return 0, false
	}

	score := weightRow*rows + weightHeaderCell*table.Find("th").Length()

	text := table.Text()
	if thousandsPattern.MatchString(text) {
		score += weightThousands
	}

	lower := strings.ToLower(text)

	if containsAny(lower, countryNames) {
		score += weightCountry
	}

	if containsAny(lower, productKeywords) {
		score += weightProduct
	}

	return score, true
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}

	return false
}

// cellTexts returns the trimmed text of every cell in a row.
func cellTexts(row *goquery.Selection) []string {
	var cells []string

	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})

	return cells
}
