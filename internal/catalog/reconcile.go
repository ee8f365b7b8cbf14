package catalog

import (
	"fmt"
	"strings"
)

// Results is one reconciliation outcome. The only-in maps are keyed by
// the raw identifier of the side the group came from; StockMismatches
// is keyed by normalized key. InternalOnlyCandidates is nil when no
// supplier collection was supplied: "not computed", distinct from an
// empty map.
type Results struct {
	OnlyInPrimary          *ProductMap `json:"onlyInPrimary"`
	OnlyInStorefront       *ProductMap `json:"onlyInStorefront"`
	StockMismatches        MismatchMap `json:"stockMismatches"`
	InternalOnlyCandidates *ProductMap `json:"internalOnlyCandidates,omitempty"`
}

// Options tunes a Reconcile call.
type Options struct {
	// SupplierName is the internal name products of the supplier carry
	// in the primary system; used only when a supplier map is given.
	SupplierName string
	// ExcludedNormalizedKeys suppresses whole groups (e.g. excluded
	// brands) from every output. Members must be normalized keys.
	ExcludedNormalizedKeys map[string]struct{}
}

// FilterBySupplierName keeps, per group, only rows whose supplier
// attribute equals name under case folding, and drops groups left empty
// or keyed by a blank raw SKU.
func FilterBySupplierName(m *ProductMap, name string) *ProductMap {
	target := fold(name)
	out := NewProductMap()
	for _, sku := range m.Keys() {
		var kept []Product
		for _, p := range m.Get(sku) {
			if fold(p.Supplier) == target {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 || strings.TrimSpace(sku) == "" {
			continue
		}
		out.Put(sku, kept)
	}
	return out
}

// FilterExcludedNormalizedKeys drops every group whose normalized key
// is excluded. With an empty exclusion set the input is returned as is.
func FilterExcludedNormalizedKeys(m *ProductMap, excluded map[string]struct{}) *ProductMap {
	if len(excluded) == 0 {
		return m
	}
	out := NewProductMap()
	for _, sku := range m.Keys() {
		if _, drop := excluded[NormalizeKey(sku)]; drop {
			continue
		}
		out.Put(sku, m.Get(sku))
	}
	return out
}

// Reconcile composes the full comparison: exclusion filtering, the
// reciprocal primary/storefront diff, stock mismatches, and, when a
// supplier map is given, the internal-only candidates: SKUs the
// primary system already attributes to opts.SupplierName that the
// supplier's own list does not confirm.
func Reconcile(primary, storefront, supplier *ProductMap, opts Options) Results {
	excluded := make(map[string]struct{}, len(opts.ExcludedNormalizedKeys))
	for k := range opts.ExcludedNormalizedKeys {
		if k != "" {
			excluded[k] = struct{}{}
		}
	}
	if len(excluded) > 0 {
		primary = FilterExcludedNormalizedKeys(primary, excluded)
		storefront = FilterExcludedNormalizedKeys(storefront, excluded)
		if supplier != nil {
			supplier = FilterExcludedNormalizedKeys(supplier, excluded)
		}
	}

	onlyInPrimary, onlyInStorefront := DiffByNormalizedKey(primary, storefront)
	// field is a compile-time constant here, the error path is misuse only
	stockMismatches, _ := FieldMismatches(primary, storefront, FieldStock)

	res := Results{
		OnlyInPrimary:    onlyInPrimary,
		OnlyInStorefront: onlyInStorefront,
		StockMismatches:  stockMismatches,
	}

	if supplier != nil {
		comparable := FilterBySupplierName(primary, opts.SupplierName)
		_, internalOnly := DiffByNormalizedKey(supplier, comparable)
		res.InternalOnlyCandidates = internalOnly
	}
	return res
}

// UniqueSortedSKUs flattens a ProductMap into its distinct non-blank
// raw SKUs, sorted case-insensitively then by value, for export.
func UniqueSortedSKUs(m *ProductMap) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, sku := range m.Keys() {
		for _, p := range m.Get(sku) {
			s := strings.TrimSpace(p.SKU)
			if s == "" {
				continue
			}
			if _, dup := seen[p.SKU]; dup {
				continue
			}
			seen[p.SKU] = struct{}{}
			out = append(out, p.SKU)
		}
	}
	sortFolded(out)
	return out
}

// UniqueSortedSKUsFromMismatchSide extracts the export SKU list from
// one side of a mismatch map. side must be primary or storefront.
func UniqueSortedSKUsFromMismatchSide(m MismatchMap, side Source) ([]string, error) {
	if side != SourcePrimary && side != SourceStorefront {
		return nil, fmt.Errorf("side must be %q or %q, got %q", SourcePrimary, SourceStorefront, side)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, key := range m.Keys() {
		rows := m[key].Primary
		if side == SourceStorefront {
			rows = m[key].Storefront
		}
		for _, p := range rows {
			if strings.TrimSpace(p.SKU) == "" {
				continue
			}
			if _, dup := seen[p.SKU]; dup {
				continue
			}
			seen[p.SKU] = struct{}{}
			out = append(out, p.SKU)
		}
	}
	sortFolded(out)
	return out, nil
}
