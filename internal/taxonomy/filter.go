package taxonomy

import (
	"strings"

	"vitidata/internal/models"
)

// ProductCategory classifies rows of a mixed table into one product domain.
type ProductCategory string

// Product categories recognized by the row filter.
const (
	ProductNone       ProductCategory = ""
	ProductWine       ProductCategory = "wine"
	ProductGrape      ProductCategory = "grape"
	ProductDerivative ProductCategory = "derivative"
)

// vocabulary holds the fixed per-category classification data. Section
// headers are compared upper-cased; products by exact-or-prefix match.
type vocabulary struct {
	sections []string
	products []string
}

var vocabularies = map[ProductCategory]vocabulary{
	ProductWine: {
		sections: []string{
			"VINHO DE MESA",
			"VINHO FINO DE MESA",
			"VINHO FINO DE MESA (VINIFERA)",
			"VINHO FINO DE MESA (VINÍFERA)",
		},
		products: []string{
			"Tinto",
			"Branco",
			"Rosado",
		},
	},
	ProductGrape: {
		sections: []string{
			"VINIFERAS",
			"VINÍFERAS",
			"AMERICANAS E HIBRIDAS",
			"AMERICANAS E HÍBRIDAS",
			"UVAS DE MESA",
			"SEM CLASSIFICACAO",
			"SEM CLASSIFICAÇÃO",
		},
		products: []string{
			"Alicante Bouschet",
			"Ancelota",
			"Bordo",
			"Bordô",
			"Cabernet Franc",
			"Cabernet Sauvignon",
			"Chardonnay",
			"Concord",
			"Isabel",
			"Isabel Precoce",
			"Malbec",
			"Merlot",
			"Moscato Branco",
			"Niagara Branca",
			"Niagara Rosada",
			"Pinot Noir",
			"Riesling Italico",
			"Riesling Itálico",
			"Tannat",
		},
	},
	ProductDerivative: {
		sections: []string{
			"DERIVADOS",
			"SUCO",
			"SUCO DE UVAS",
		},
		products: []string{
			"Bagaceira",
			"Base espumante",
			"Borra",
			"Brandy",
			"Destilado",
			"Destilado alcoolico simples de bagaceira",
			"Espumante",
			"Espumante moscatel",
			"Filtrado",
			"Frisante",
			"Jeropiga",
			"Licorosos",
			"Mistelas",
			"Mosto",
			"Mosto concentrado",
			"Mosto de uva com bagaco",
			"Mosto de uva com bagaço",
			"Mosto simples",
			"Outros derivados",
			"Suco de uva",
			"Suco de uvas",
			"Vinagre",
			"Vinho acidificado",
			"Vinho composto",
			"Vinho leve",
			"Vinho licoroso",
			"Vinho organico",
			"Vinho orgânico",
		},
	},
}

// productFieldNames are tried in order when locating a record's product field.
var productFieldNames = []string{"produto", "cultivar", "grupo", "sem definição", "sem definicao"}

// FilterByCategory keeps records belonging to the requested product
// category. Section-header rows (totals for a whole section) pass only when
// they belong to the requested category's own headers; any other section
// header is a sibling category leaking in and is dropped. Regular rows pass
// on an exact or prefix match against the category's allow-list.
func FilterByCategory(records []models.Record, category ProductCategory) []models.Record {
	vocab, ok := vocabularies[category]
	if !ok {
		return records
	}

	filtered := make([]models.Record, 0, len(records))

	for _, record := range records {
		product, found := productField(record)
		if !found {
			// Row has no recognizable product field; classification is
			// impossible, keep it rather than silently dropping data.
			filtered = append(filtered, record)

			continue
		}

		if isAnySectionHeader(product) {
			if matchesSection(product, vocab.sections) {
				filtered = append(filtered, record)
			}

			continue
		}

		if matchesProduct(product, vocab.products) {
			filtered = append(filtered, record)
		}
	}

	return filtered
}

// productField locates the record cell naming the product.
func productField(record models.Record) (string, bool) {
	for _, name := range productFieldNames {
		for key, value := range record {
			if strings.Contains(strings.ToLower(key), name) {
				s, ok := value.(string)

				return strings.TrimSpace(s), ok
			}
		}
	}

	return "", false
}

// isAnySectionHeader reports whether the product text matches a section
// header of any category, not just the requested one.
func isAnySectionHeader(product string) bool {
	for _, vocab := range vocabularies {
		if matchesSection(product, vocab.sections) {
			return true
		}
	}

	return false
}

func matchesSection(product string, sections []string) bool {
	upper := strings.ToUpper(strings.TrimSpace(product))

	for _, section := range sections {
		if upper == section {
			return true
		}
	}

	return false
}

func matchesProduct(product string, allowList []string) bool {
	if product == "" {
		return false
	}

	for _, entry := range allowList {
		if product == entry || strings.HasPrefix(entry, product) {
			return true
		}
	}

	return false
}
