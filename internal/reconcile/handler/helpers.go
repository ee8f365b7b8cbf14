package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"catalog-recon/internal/catalog"
)

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func firstNonEmpty(s, def string) string {
	if strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

// primaryMappingFromForm applies per-request column overrides on top of
// the default primary export layout.
func primaryMappingFromForm(r *http.Request) catalog.ColumnMapping {
	def := catalog.DefaultPrimaryMapping
	return catalog.ColumnMapping{
		SKU:        firstNonEmpty(r.FormValue("primary_sku"), def.SKU),
		Name:       firstNonEmpty(r.FormValue("primary_name"), def.Name),
		Stock:      firstNonEmpty(r.FormValue("primary_stock"), def.Stock),
		TotalStock: firstNonEmpty(r.FormValue("primary_total"), def.TotalStock),
		Reserved:   firstNonEmpty(r.FormValue("primary_reserved"), def.Reserved),
		Supplier:   firstNonEmpty(r.FormValue("primary_supplier"), def.Supplier),
	}
}

func storefrontMappingFromForm(r *http.Request) catalog.ColumnMapping {
	def := catalog.DefaultStorefrontMapping
	return catalog.ColumnMapping{
		SKU:   firstNonEmpty(r.FormValue("storefront_sku"), def.SKU),
		Name:  firstNonEmpty(r.FormValue("storefront_name"), def.Name),
		Stock: firstNonEmpty(r.FormValue("storefront_stock"), def.Stock),
	}
}

// parseExcludedSKUs splits a delimited SKU list and normalizes every
// entry; blanks disappear with the normalization.
func parseExcludedSKUs(raw string) map[string]struct{} {
	fields := strings.FieldsFunc(raw, func(c rune) bool {
		return c == ',' || c == ';' || c == '\n' || c == '\r'
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if key := catalog.NormalizeKey(f); key != "" {
			out[key] = struct{}{}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
