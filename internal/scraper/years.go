package scraper

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Bounds of the supported data range. The source site published its first
// series in 1970; snapshots end at 2023.
const (
	MinYear = 1970
	MaxYear = 2023
)

// yearPattern matches 4-digit years within the supported range.
var yearPattern = regexp.MustCompile(`19[7-9]\d|20[0-1]\d|202[0-3]`)

// DiscoverYears determines the set of years for which data may exist, in
// descending order. It first reads the landing page's year-selector control,
// then falls back to scanning all page text for plausible 4-digit years,
// and finally to the full constant range. Never returns an empty set.
func DiscoverYears(doc *goquery.Document) []int {
	if doc == nil {
		return FullYearRange()
	}

	years := yearsFromSelector(doc)
	if len(years) == 0 {
		years = yearsFromText(doc)
	}

	if len(years) == 0 {
		return FullYearRange()
	}

	return sortDescending(years)
}

// FullYearRange returns every supported year, newest first.
func FullYearRange() []int {
	years := make([]int, 0, MaxYear-MinYear+1)
	for y := MaxYear; y >= MinYear; y-- {
		years = append(years, y)
	}

	return years
}

// yearsFromSelector reads year options from form controls on the page.
func yearsFromSelector(doc *goquery.Document) map[int]bool {
	years := make(map[int]bool)

	doc.Find("select option").Each(func(_ int, option *goquery.Selection) {
		for _, candidate := range []string{option.AttrOr("value", ""), option.Text()} {
			y, err := strconv.Atoi(strings.TrimSpace(candidate))
			if err == nil && y >= MinYear && y <= MaxYear {
				years[y] = true

				return
			}
		}
	})

	return years
}

// yearsFromText scans the whole page text for 4-digit year substrings.
func yearsFromText(doc *goquery.Document) map[int]bool {
	years := make(map[int]bool)

	for _, match := range yearPattern.FindAllString(doc.Text(), -1) {
		y, err := strconv.Atoi(match)
		if err == nil && y >= MinYear && y <= MaxYear {
			years[y] = true
		}
	}

	return years
}

func sortDescending(set map[int]bool) []int {
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	return years
}
