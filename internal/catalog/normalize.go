package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// NormalizeKey canonicalizes a raw identifier for cross-source
// comparison: trim, strip leading zeros, collapse all-zeros to "0".
// Idempotent; "" stays "".
func NormalizeKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	stripped := strings.TrimLeft(s, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}

// quantity cleanup: drop plain and non-breaking spaces, decimal comma
// to period. Exports from 1C/Excel locales routinely carry all three.
var qtyCleaner = strings.NewReplacer(" ", "", "\u00a0", "", ",", ".")

// NormalizeQuantity canonicalizes a raw stock value into a decimal
// string: "1,2300" -> "1.23", "0,00" -> "0". Non-numeric text survives
// unchanged (trimmed) since the field may carry e.g. "in stock".
func NormalizeQuantity(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(qtyCleaner.Replace(s))
	if err != nil {
		return s
	}
	return formatStock(d)
}

// ComputeDerivedStock returns total minus reserved as a canonical
// decimal string. Missing or unparsable reserved counts as zero; without
// a parsable total there is nothing to compute and "" is returned.
func ComputeDerivedStock(totalRaw, reservedRaw string) string {
	total, ok := parseStock(totalRaw)
	if !ok {
		return ""
	}
	reserved, ok := parseStock(reservedRaw)
	if !ok {
		reserved = decimal.Zero
	}
	return formatStock(total.Sub(reserved))
}

func parseStock(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(qtyCleaner.Replace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// formatStock renders fixed-point text, trailing zeros and a dangling
// point trimmed. Never scientific notation.
func formatStock(d decimal.Decimal) string {
	if d.IsZero() {
		return "0"
	}
	out := d.String()
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimRight(out, ".")
	}
	return out
}

// fold applies Unicode case folding, the one folding used for every
// case-insensitive comparison in this package.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldEqual(a, b string) bool { return fold(a) == fold(b) }

// sortFolded orders strings case-insensitively, ties broken by byte
// order, so externally surfaced lists are deterministic.
func sortFolded(ss []string) {
	sort.Slice(ss, func(i, j int) bool {
		a, b := fold(ss[i]), fold(ss[j])
		if a != b {
			return a < b
		}
		return ss[i] < ss[j]
	})
}
