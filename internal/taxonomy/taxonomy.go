// Package taxonomy maps API categories onto the upstream site's query
// parameters, local snapshot files, and product vocabularies. The upstream
// taxonomy is not machine-readable, so everything here is fixed data.
package taxonomy

import (
	"errors"
	"fmt"
	"net/url"
)

// Registry errors. An unknown category is a configuration defect and is the
// only condition in the acquisition pipeline that propagates as an error.
var (
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownSubcategory = errors.New("unknown subcategory")
)

// Category describes one top-level data domain on the source site.
type Category struct {
	Name          string
	Opcao         string
	SnapshotFile  string
	Subcategories map[string]Subcategory
}

// Subcategory describes one selectable subset within a category.
type Subcategory struct {
	Subopcao     string
	SnapshotFile string
	Products     ProductCategory
}

// categories is the fixed registry of everything the source site publishes.
var categories = map[string]Category{
	"production": {
		Name:         "production",
		Opcao:        "opt_02",
		SnapshotFile: "Producao.csv",
		Subcategories: map[string]Subcategory{
			"":           {Subopcao: "subopt_00", SnapshotFile: "Producao.csv"},
			"wine":       {Subopcao: "subopt_01", SnapshotFile: "Producao.csv", Products: ProductWine},
			"grape":      {Subopcao: "subopt_02", SnapshotFile: "Producao.csv", Products: ProductGrape},
			"derivative": {Subopcao: "subopt_03", SnapshotFile: "Producao.csv", Products: ProductDerivative},
		},
	},
	"processing": {
		Name:         "processing",
		Opcao:        "opt_03",
		SnapshotFile: "Processa.csv",
		Subcategories: map[string]Subcategory{
			"":             {Subopcao: "", SnapshotFile: "Processa.csv"},
			"vinifera":     {Subopcao: "subopt_01", SnapshotFile: "ProcessaViniferas.csv"},
			"american":     {Subopcao: "subopt_02", SnapshotFile: "ProcessaAmericanas.csv"},
			"table":        {Subopcao: "subopt_03", SnapshotFile: "ProcessaMesa.csv"},
			"unclassified": {Subopcao: "subopt_04", SnapshotFile: "ProcessaSemclass.csv"},
		},
	},
	"commercialization": {
		Name:         "commercialization",
		Opcao:        "opt_04",
		SnapshotFile: "Comercio.csv",
		Subcategories: map[string]Subcategory{
			"":           {Subopcao: "", SnapshotFile: "Comercio.csv"},
			"wine":       {Subopcao: "", SnapshotFile: "Comercio.csv", Products: ProductWine},
			"derivative": {Subopcao: "", SnapshotFile: "Comercio.csv", Products: ProductDerivative},
		},
	},
	"imports": {
		Name:         "imports",
		Opcao:        "opt_05",
		SnapshotFile: "Imp.csv",
		Subcategories: map[string]Subcategory{
			"":          {Subopcao: "subopt_00", SnapshotFile: "Imp.csv"},
			"wine":      {Subopcao: "subopt_01", SnapshotFile: "ImpVinhos.csv"},
			"sparkling": {Subopcao: "subopt_02", SnapshotFile: "ImpEspumantes.csv"},
			"fresh":     {Subopcao: "subopt_03", SnapshotFile: "ImpFrescas.csv"},
			"raisins":   {Subopcao: "subopt_04", SnapshotFile: "ImpPassas.csv"},
			"juice":     {Subopcao: "subopt_05", SnapshotFile: "ImpSuco.csv"},
		},
	},
	"exports": {
		Name:         "exports",
		Opcao:        "opt_06",
		SnapshotFile: "Exp.csv",
		Subcategories: map[string]Subcategory{
			"":          {Subopcao: "subopt_00", SnapshotFile: "Exp.csv"},
			"wine":      {Subopcao: "subopt_01", SnapshotFile: "ExpVinho.csv"},
			"sparkling": {Subopcao: "subopt_02", SnapshotFile: "ExpEspumantes.csv"},
			"fresh":     {Subopcao: "subopt_03", SnapshotFile: "ExpUva.csv"},
			"juice":     {Subopcao: "subopt_04", SnapshotFile: "ExpSuco.csv"},
		},
	},
}

// Get returns the category registry entry for the given name.
func Get(name string) (Category, error) {
	cat, ok := categories[name]
	if !ok {
		return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}

	return cat, nil
}

// Resolve returns the category and subcategory entries for a request.
func Resolve(category, subcategory string) (Category, Subcategory, error) {
	cat, err := Get(category)
	if err != nil {
		return Category{}, Subcategory{}, err
	}

	sub, ok := cat.Subcategories[subcategory]
	if !ok {
		return Category{}, Subcategory{}, fmt.Errorf("%w: %q/%q", ErrUnknownSubcategory, category, subcategory)
	}

	return cat, sub, nil
}

// QueryParams builds the upstream query parameters for a request.
func QueryParams(category, subcategory string) (url.Values, error) {
	cat, sub, err := Resolve(category, subcategory)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("opcao", cat.Opcao)

	if sub.Subopcao != "" {
		params.Set("subopcao", sub.Subopcao)
	}

	return params, nil
}

// SnapshotFile returns the local snapshot filename for a request.
func SnapshotFile(category, subcategory string) (string, error) {
	_, sub, err := Resolve(category, subcategory)
	if err != nil {
		return "", err
	}

	return sub.SnapshotFile, nil
}

// Names returns all registered category names.
func Names() []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}

	return names
}
