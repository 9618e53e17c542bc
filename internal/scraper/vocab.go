package scraper

// Fixed vocabularies used by the table-candidate scorer. Matching any entry
// raises a table's score; the lists only need to cover text that reliably
// appears in real data tables and never in navigation chrome.

// countryNames are trade partners that appear in import/export tables.
var countryNames = []string{
	"alemanha",
	"argentina",
	"austrália",
	"bolívia",
	"bélgica",
	"canadá",
	"chile",
	"china",
	"espanha",
	"estados unidos",
	"frança",
	"itália",
	"japão",
	"méxico",
	"paraguai",
	"países baixos",
	"peru",
	"portugal",
	"reino unido",
	"rússia",
	"uruguai",
}

// productKeywords are viticulture terms that appear in data tables across
// every category page.
var productKeywords = []string{
	"americanas",
	"derivado",
	"espumante",
	"mosto",
	"passas",
	"suco",
	"uva",
	"vinho",
	"viníferas",
}
