package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	return doc
}

func TestSelectBestTableNilDocument(t *testing.T) {
	if got := SelectBestTable(nil); got != nil {
		t.Error("nil document should yield no table")
	}
}

func TestSelectBestTableNoTables(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>nothing here</p></body></html>")

	if got := SelectBestTable(doc); got != nil {
		t.Error("document without tables should yield nil")
	}
}

func TestSelectBestTableRowCountFilter(t *testing.T) {
	// Two rows is below the minimum; such tables are navigation chrome.
	doc := parseDoc(t, `<table>
		<tr><td>a</td></tr>
		<tr><td>b</td></tr>
	</table>`)

	if got := SelectBestTable(doc); got != nil {
		t.Error("table below the minimum row count must be rejected")
	}
}

func TestSelectBestTablePrefersDataTable(t *testing.T) {
	doc := parseDoc(t, `
	<table id="nav">
		<tr><td>Home</td></tr>
		<tr><td>About</td></tr>
		<tr><td>Contact</td></tr>
	</table>
	<table id="data">
		<tr><th>Produto</th><th>Quantidade (L.)</th></tr>
		<tr><td>Vinho de mesa</td><td>162.844.214</td></tr>
		<tr><td>Tinto</td><td>139.320.884</td></tr>
	</table>`)

	best := SelectBestTable(doc)
	if best == nil {
		t.Fatal("expected a table")
	}

	if id, _ := best.Attr("id"); id != "data" {
		t.Errorf("selected table %q, want data", id)
	}
}

func TestSelectBestTableTieKeepsFirst(t *testing.T) {
	doc := parseDoc(t, `
	<table id="first">
		<tr><td>x</td></tr>
		<tr><td>y</td></tr>
		<tr><td>z</td></tr>
	</table>
	<table id="second">
		<tr><td>x</td></tr>
		<tr><td>y</td></tr>
		<tr><td>z</td></tr>
	</table>`)

	best := SelectBestTable(doc)
	if best == nil {
		t.Fatal("expected a table")
	}

	if id, _ := best.Attr("id"); id != "first" {
		t.Errorf("tie must keep the first table, got %q", id)
	}
}

func TestScoreTableWeights(t *testing.T) {
	// 3 rows, 2 header cells, locale-formatted magnitude, country name, and
	// product keyword: 3*2 + 2*3 + 10 + 5 + 5 = 32.
	doc := parseDoc(t, `<table>
		<tr><th>País</th><th>Quantidade (Kg)</th></tr>
		<tr><td>Argentina</td><td>26.432.123</td></tr>
		<tr><td>Chile</td><td>vinho</td></tr>
	</table>`)

	score, ok := scoreTable(doc.Find("table").First())
	if !ok {
		t.Fatal("table should pass the row-count filter")
	}

	if score != 32 {
		t.Errorf("score = %d, want 32", score)
	}
}

func TestThousandsPattern(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"162.844.214", true},
		{"1.000", true},
		{"1234", false},
		{"12.34", false},
		{"Produto", false},
	}

	for _, tt := range tests {
		if got := thousandsPattern.MatchString(tt.text); got != tt.want {
			t.Errorf("thousandsPattern(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
