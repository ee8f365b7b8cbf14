package catalog

import (
	"fmt"
	"strings"
)

// Default column mappings matching the stock exports the service was
// built around. Callers may override any of these per request.
var (
	DefaultPrimaryMapping = ColumnMapping{
		SKU:        "Art.märkning",
		Name:       "Artikelnamn",
		Stock:      "I lager",
		TotalStock: "Totalt lager",
		Reserved:   "Reserverade",
		Supplier:   "Leverantör",
	}
	DefaultStorefrontMapping = ColumnMapping{
		SKU:   "sku",
		Name:  "name",
		Stock: "qty",
	}
)

// SupplierIDColumns are the accepted supplier identifier headers, in
// priority order, matched case-insensitively.
var SupplierIDColumns = []string{"EAN", "UPC", "Art.Märkning"}

// BuildGroups converts a source table into a ProductMap using the given
// column mapping. Rows are visited in table order and grouped by raw
// (trimmed) SKU. For the primary source, when both a total and a
// reserved column are mapped, stock is derived as total minus reserved;
// every other case normalizes the plain stock column.
func BuildGroups(t Table, source Source, cols ColumnMapping) *ProductMap {
	out := NewProductMap()
	derive := source == SourcePrimary && cols.TotalStock != "" && cols.Reserved != ""

	for _, row := range t.Rows {
		var stock string
		if derive {
			stock = ComputeDerivedStock(row.Field(cols.TotalStock), row.Field(cols.Reserved))
		} else {
			stock = NormalizeQuantity(row.Field(cols.Stock))
		}
		out.Add(Product{
			SKU:      row.Field(cols.SKU),
			Name:     row.Field(cols.Name),
			Stock:    stock,
			Supplier: row.Field(cols.Supplier),
			Source:   source,
		})
	}
	return out
}

// FindSupplierIDColumn resolves which header holds the product
// identifier in a supplier table, trying SupplierIDColumns in priority
// order against case-folded header names.
func FindSupplierIDColumn(headers []string) (string, error) {
	folded := make(map[string]string, len(headers))
	for _, h := range headers {
		key := fold(strings.TrimSpace(h))
		if _, ok := folded[key]; !ok {
			folded[key] = h
		}
	}
	for _, wanted := range SupplierIDColumns {
		if original, ok := folded[fold(wanted)]; ok {
			return original, nil
		}
	}
	return "", fmt.Errorf("supplier file must contain column %s", strings.Join(SupplierIDColumns, " or "))
}

// BuildSupplierGroups ingests a supplier price list. Supplier rows
// encode existence only: everything but the identifier stays empty.
// Rows with blank or "nan" identifiers (artifacts of spreadsheet
// round-trips) are skipped.
func BuildSupplierGroups(t Table) (*ProductMap, error) {
	idCol, err := FindSupplierIDColumn(t.Headers)
	if err != nil {
		return nil, err
	}

	out := NewProductMap()
	for _, row := range t.Rows {
		sku := row.Field(idCol)
		if sku == "" || foldEqual(sku, "nan") {
			continue
		}
		out.Add(Product{SKU: sku, Source: SourceSupplier})
	}
	return out, nil
}
