package catalog

import "strings"

// Storefront export columns the shift repair operates on.
const (
	colName  = "name"
	colSKU   = "sku"
	colPrice = "price"
	colQty   = "qty"
	colURL   = "url"
)

// RepairShiftedRows detects the storefront export defect where five
// columns are cyclically offset by one: the url lands in qty, qty in
// price, price in sku, and the sku is welded onto the name after a
// semicolon. Signature, per row: empty url, qty starting with "http",
// a semicolon in name.
//
// The input is never mutated; a repaired copy and the repair count are
// returned. Callers can alert on unusually high counts. When any of the
// five columns is missing this is a no-op.
func RepairShiftedRows(t Table) (Table, int) {
	for _, c := range []string{colName, colSKU, colPrice, colQty, colURL} {
		if !t.HasColumn(c) {
			return t, 0
		}
	}

	out := Table{Headers: t.Headers, Rows: make([]Row, len(t.Rows))}
	fixed := 0

	for i, row := range t.Rows {
		name := row.Field(colName)
		sku := row.Field(colSKU)
		price := row.Field(colPrice)
		qty := row.Field(colQty)
		url := row.Field(colURL)

		repaired := make(Row, len(row))
		for k, v := range row {
			repaired[k] = v
		}
		out.Rows[i] = repaired

		if url != "" {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(qty), "http") {
			continue
		}
		left, right, found := strings.Cut(name, ";")
		if !found {
			continue
		}
		newSKU := unquoteTrim(right)
		if newSKU == "" {
			// signature matched but no SKU is recoverable
			continue
		}

		repaired[colURL] = qty
		repaired[colQty] = price
		repaired[colPrice] = sku
		repaired[colSKU] = newSKU
		repaired[colName] = unquoteTrim(left)
		fixed++
	}

	return out, fixed
}

// unquoteTrim trims whitespace and removes one layer of surrounding
// double quotes.
func unquoteTrim(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}
