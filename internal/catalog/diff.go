package catalog

import "fmt"

// Field is a comparable product attribute.
type Field string

const (
	FieldSKU   Field = "sku"
	FieldName  Field = "name"
	FieldStock Field = "stock"
)

func fieldValue(p Product, f Field) string {
	switch f {
	case FieldSKU:
		return p.SKU
	case FieldName:
		return p.Name
	case FieldStock:
		return p.Stock
	}
	return ""
}

// NormalizedGroups re-keys a ProductMap by normalized key. Raw groups
// sharing a normalized key are concatenated, in first-occurrence order.
func NormalizedGroups(m *ProductMap) *ProductMap {
	out := NewProductMap()
	for _, sku := range m.Keys() {
		key := NormalizeKey(sku)
		out.Put(key, append(out.Get(key), m.Get(sku)...))
	}
	return out
}

// DiffByNormalizedKey computes reciprocal set differences: groups of
// left whose normalized key never occurs in right, and vice versa.
// Results are keyed by the raw key of the side they came from and keep
// that side's encounter order.
func DiffByNormalizedKey(left, right *ProductMap) (onlyInLeft, onlyInRight *ProductMap) {
	leftNorm := normalizedKeySet(left)
	rightNorm := normalizedKeySet(right)

	onlyInLeft = NewProductMap()
	for _, sku := range left.Keys() {
		if _, ok := rightNorm[NormalizeKey(sku)]; !ok {
			onlyInLeft.Put(sku, left.Get(sku))
		}
	}
	onlyInRight = NewProductMap()
	for _, sku := range right.Keys() {
		if _, ok := leftNorm[NormalizeKey(sku)]; !ok {
			onlyInRight.Put(sku, right.Get(sku))
		}
	}
	return onlyInLeft, onlyInRight
}

func normalizedKeySet(m *ProductMap) map[string]struct{} {
	set := make(map[string]struct{}, m.Len())
	for _, sku := range m.Keys() {
		set[NormalizeKey(sku)] = struct{}{}
	}
	return set
}

// FieldMismatches finds normalized keys present on both sides whose
// distinct value sets for field differ. Keys on one side only are
// DiffByNormalizedKey's business and never show up here. field must be
// "name" or "stock".
func FieldMismatches(primary, storefront *ProductMap, field Field) (MismatchMap, error) {
	if field != FieldName && field != FieldStock {
		return nil, fmt.Errorf("field must be %q or %q, got %q", FieldName, FieldStock, field)
	}

	pNorm := NormalizedGroups(primary)
	sNorm := NormalizedGroups(storefront)

	out := make(MismatchMap)
	for _, key := range pNorm.Keys() {
		if !sNorm.Has(key) {
			continue
		}
		pRows := pNorm.Get(key)
		sRows := sNorm.Get(key)
		if !sameValueSet(pRows, sRows, field) {
			out[key] = Mismatch{Primary: pRows, Storefront: sRows}
		}
	}
	return out, nil
}

func sameValueSet(a, b []Product, field Field) bool {
	av := make(map[string]struct{}, len(a))
	for _, p := range a {
		av[fieldValue(p, field)] = struct{}{}
	}
	bv := make(map[string]struct{}, len(b))
	for _, p := range b {
		bv[fieldValue(p, field)] = struct{}{}
	}
	if len(av) != len(bv) {
		return false
	}
	for v := range av {
		if _, ok := bv[v]; !ok {
			return false
		}
	}
	return true
}

// CountProducts sums rows across all groups.
func CountProducts(m *ProductMap) int {
	n := 0
	for _, sku := range m.Keys() {
		n += len(m.Get(sku))
	}
	return n
}

// DuplicateSKUs keeps only raw keys carrying more than one row.
func DuplicateSKUs(m *ProductMap) *ProductMap {
	out := NewProductMap()
	for _, sku := range m.Keys() {
		if rows := m.Get(sku); len(rows) > 1 {
			out.Put(sku, rows)
		}
	}
	return out
}

// EmptyFieldRows lists every row whose given field is empty, in group
// order. field must be "sku", "name" or "stock".
func EmptyFieldRows(m *ProductMap, field Field) ([]Product, error) {
	if field != FieldSKU && field != FieldName && field != FieldStock {
		return nil, fmt.Errorf("field must be one of %q, %q, %q, got %q", FieldSKU, FieldName, FieldStock, field)
	}
	var out []Product
	for _, sku := range m.Keys() {
		for _, p := range m.Get(sku) {
			if fieldValue(p, field) == "" {
				out = append(out, p)
			}
		}
	}
	return out, nil
}
