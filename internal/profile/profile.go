// Package profile describes supplier transform profiles: a named column
// mapping plus options that turn an arbitrary supplier price list into
// the primary system's import format.
package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"catalog-recon/internal/catalog"
)

// RenameTargets are the primary-format columns a profile may map a
// supplier column onto, in output order.
var RenameTargets = []string{
	"Art.märkning",
	"Artikelnamn",
	"Varumärke",
	"Inköpspris",
	"UtprisInklMoms",
	"Lev.artnr",
}

// SKUTarget must be mapped for a profile to be usable; SupplierColumn
// is injected into every transformed row.
const (
	SKUTarget      = "Art.märkning"
	SupplierColumn = "Leverantör"
)

// Options toggle the per-row transforms.
type Options struct {
	StripLeadingZeros    bool `json:"strip_leading_zeros_from_sku"`
	IgnoreRowsMissingSKU bool `json:"ignore_rows_missing_sku"`
}

// Profile maps primary-format target columns to supplier source columns.
type Profile struct {
	TargetToSource map[string]string `json:"target_to_source"`
	Options        Options           `json:"options"`
}

// rawProfile tolerates both the wrapped layout and a bare mapping
// object, and option values given as bool, number or string.
type rawProfile struct {
	TargetToSource map[string]any `json:"target_to_source"`
	Options        map[string]any `json:"options"`
}

// Parse decodes a profile from JSON, dropping unknown targets and blank
// source columns and normalizing option values.
func Parse(raw []byte) (Profile, error) {
	var rp rawProfile
	if err := json.Unmarshal(raw, &rp); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	mapping := rp.TargetToSource
	if mapping == nil {
		// bare mapping object: {"Art.märkning": "SupplierSku", ...}
		var bare map[string]any
		if err := json.Unmarshal(raw, &bare); err != nil {
			return Profile{}, fmt.Errorf("decode profile: %w", err)
		}
		mapping = bare
	}

	p := Profile{TargetToSource: make(map[string]string)}
	for _, target := range RenameTargets {
		v, ok := mapping[target]
		if !ok {
			continue
		}
		source := strings.TrimSpace(fmt.Sprint(v))
		if source == "" {
			continue
		}
		p.TargetToSource[target] = source
	}
	p.Options = Options{
		StripLeadingZeros:    optionBool(rp.Options, "strip_leading_zeros_from_sku", false),
		IgnoreRowsMissingSKU: optionBool(rp.Options, "ignore_rows_missing_sku", false),
	}
	return p, nil
}

func optionBool(opts map[string]any, name string, def bool) bool {
	v, ok := opts[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "ja", "on":
			return true
		case "0", "false", "no", "nej", "off", "":
			return false
		}
	}
	return def
}

// HasRequiredSKUMapping reports whether the SKU target column is mapped.
func (p Profile) HasRequiredSKUMapping() bool {
	return strings.TrimSpace(p.TargetToSource[SKUTarget]) != ""
}

// MissingSourceColumns lists mapped source columns absent from the
// supplier table headers, in RenameTargets order.
func (p Profile) MissingSourceColumns(headers []string) []string {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	var missing []string
	for _, target := range RenameTargets {
		source, ok := p.TargetToSource[target]
		if !ok {
			continue
		}
		if _, found := present[source]; !found {
			missing = append(missing, source)
		}
	}
	return missing
}

// MatchesOutputFormat reports whether headers already look like this
// profile's output: every mapped target plus the supplier column.
func MatchesOutputFormat(mapping map[string]string, headers []string) bool {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}
	for target := range mapping {
		if _, ok := present[target]; !ok {
			return false
		}
	}
	_, ok := present[SupplierColumn]
	return ok
}

// BuildRenamedCopy converts a supplier table into the primary import
// format: mapped columns are renamed to their targets, the supplier
// column is filled with supplierName, and the profile options are
// applied per row. The input table is not modified.
func (p Profile) BuildRenamedCopy(t catalog.Table, supplierName string) (catalog.Table, error) {
	if !p.HasRequiredSKUMapping() {
		return catalog.Table{}, fmt.Errorf("profile must map %q to a supplier column", SKUTarget)
	}
	if missing := p.MissingSourceColumns(t.Headers); len(missing) > 0 {
		return catalog.Table{}, fmt.Errorf("supplier file is missing mapped columns: %s", strings.Join(missing, ", "))
	}

	var headers []string
	for _, target := range RenameTargets {
		if _, ok := p.TargetToSource[target]; ok {
			headers = append(headers, target)
		}
	}
	headers = append(headers, SupplierColumn)

	out := catalog.Table{Headers: headers}
	for _, row := range t.Rows {
		sku := row.Field(p.TargetToSource[SKUTarget])
		if p.Options.IgnoreRowsMissingSKU && sku == "" {
			continue
		}
		if p.Options.StripLeadingZeros {
			sku = catalog.NormalizeKey(sku)
		}

		rec := make(catalog.Row, len(headers))
		for _, target := range RenameTargets {
			source, ok := p.TargetToSource[target]
			if !ok {
				continue
			}
			if target == SKUTarget {
				rec[target] = sku
				continue
			}
			rec[target] = row.Field(source)
		}
		rec[SupplierColumn] = supplierName
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}
