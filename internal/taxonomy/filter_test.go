package taxonomy

import (
	"testing"

	"vitidata/internal/models"
)

func rec(product string) models.Record {
	return models.Record{"Produto": product, "Quantidade (L.)": 100.0}
}

func TestFilterByCategoryNoCategory(t *testing.T) {
	records := []models.Record{rec("Tinto"), rec("VINÍFERAS"), rec("Suco de uva")}

	filtered := FilterByCategory(records, ProductNone)
	if len(filtered) != len(records) {
		t.Errorf("no-category filter must pass everything, got %d of %d", len(filtered), len(records))
	}
}

func TestFilterByCategoryWine(t *testing.T) {
	records := []models.Record{
		rec("VINHO DE MESA"),              // own section header: kept
		rec("Tinto"),                      // allow-list: kept
		rec("Branco"),                     // allow-list: kept
		rec("VINÍFERAS"),                  // sibling section header: dropped
		rec("Cabernet Sauvignon"),         // grape product: dropped
		rec("Suco de uva"),                // derivative product: dropped
		rec("VINHO FINO DE MESA (VINÍFERA)"), // own section header: kept
	}

	filtered := FilterByCategory(records, ProductWine)

	want := []string{"VINHO DE MESA", "Tinto", "Branco", "VINHO FINO DE MESA (VINÍFERA)"}
	if len(filtered) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(filtered))
	}

	for i, w := range want {
		if filtered[i]["Produto"] != w {
			t.Errorf("record %d: got %v, want %q", i, filtered[i]["Produto"], w)
		}
	}
}

func TestFilterByCategoryPrefixMatch(t *testing.T) {
	// A truncated product cell still matches when it is a prefix of an
	// allow-list entry.
	records := []models.Record{rec("Cabernet")}

	filtered := FilterByCategory(records, ProductGrape)
	if len(filtered) != 1 {
		t.Errorf("prefix of an allow-list entry should match, got %d records", len(filtered))
	}
}

func TestFilterByCategoryDerivative(t *testing.T) {
	records := []models.Record{
		rec("DERIVADOS"),
		rec("Espumante"),
		rec("Vinho licoroso"),
		rec("Tinto"),
		rec("UVAS DE MESA"),
	}

	filtered := FilterByCategory(records, ProductDerivative)
	if len(filtered) != 3 {
		t.Errorf("expected 3 derivative records, got %d", len(filtered))
	}
}

func TestFilterKeepsUnclassifiableRecords(t *testing.T) {
	// A record with no recognizable product field cannot be classified and
	// must survive the filter.
	records := []models.Record{
		{"País": "Argentina", "Quantidade (Kg)": 500.0},
		rec("Tinto"),
	}

	filtered := FilterByCategory(records, ProductWine)
	if len(filtered) != 2 {
		t.Errorf("unclassifiable record should be kept, got %d records", len(filtered))
	}
}

func TestProductFieldLookup(t *testing.T) {
	tests := []struct {
		name   string
		record models.Record
		want   string
		found  bool
	}{
		{"produto key", models.Record{"Produto": "Tinto"}, "Tinto", true},
		{"cultivar key", models.Record{"Cultivar": "Isabel"}, "Isabel", true},
		{"no product key", models.Record{"País": "Chile"}, "", false},
		{"trims whitespace", models.Record{"Produto": "  Tinto  "}, "Tinto", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := productField(tt.record)
			if found != tt.found || got != tt.want {
				t.Errorf("productField = (%q, %v), want (%q, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}
