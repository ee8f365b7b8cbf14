// Package catalog is the reconciliation core: pure, synchronous
// transformations over in-memory tables. It performs no I/O and keeps no
// state between calls; callers own the inputs and receive fresh result
// structures.
package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Source identifies which system a product row came from.
type Source string

const (
	SourcePrimary    Source = "primary"
	SourceStorefront Source = "storefront"
	SourceSupplier   Source = "supplier"
)

// Product is an immutable row snapshot. SKU is stored as seen in the
// source (trimmed, never normalized); normalization happens only when
// comparing across sources.
type Product struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Stock    string `json:"stock"`
	Supplier string `json:"supplier,omitempty"`
	Source   Source `json:"source"`
}

// Row is one record of a source table, keyed by resolved column name.
type Row map[string]string

// Field returns the trimmed value of col, or "" when the column is
// unmapped or absent from the row.
func (r Row) Field(col string) string {
	if col == "" {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Table is an in-memory source export: resolved header names plus rows.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether name appears verbatim among the headers.
func (t Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// ColumnMapping names, per product field, the source column that holds
// it. Empty means unmapped. TotalStock and Reserved only apply to the
// primary source, where stock may be derived as total minus reserved.
type ColumnMapping struct {
	SKU        string
	Name       string
	Stock      string
	TotalStock string
	Reserved   string
	Supplier   string
}

// ProductMap is a multimap from raw SKU to the products sharing it, in
// row-encounter order. Key iteration follows first insertion so output
// stays reproducible across runs.
//
// Grouping is by RAW key on purpose: within one source, "007" and "7"
// stay separate groups even though they normalize identically. They are
// only treated as the same product when compared across sources.
type ProductMap struct {
	keys   []string
	groups map[string][]Product
}

func NewProductMap() *ProductMap {
	return &ProductMap{groups: make(map[string][]Product)}
}

// Add appends p to the group keyed by its raw SKU.
func (m *ProductMap) Add(p Product) {
	if _, ok := m.groups[p.SKU]; !ok {
		m.keys = append(m.keys, p.SKU)
	}
	m.groups[p.SKU] = append(m.groups[p.SKU], p)
}

// Put sets the whole group for a raw key, creating it if needed.
func (m *ProductMap) Put(sku string, rows []Product) {
	if _, ok := m.groups[sku]; !ok {
		m.keys = append(m.keys, sku)
	}
	m.groups[sku] = rows
}

// Get returns the group for a raw key, nil when absent.
func (m *ProductMap) Get(sku string) []Product { return m.groups[sku] }

// Has reports whether the raw key exists.
func (m *ProductMap) Has(sku string) bool {
	_, ok := m.groups[sku]
	return ok
}

// Keys returns raw keys in first-insertion order. The returned slice is
// shared; callers must not modify it.
func (m *ProductMap) Keys() []string { return m.keys }

// Len is the number of raw-key groups.
func (m *ProductMap) Len() int { return len(m.keys) }

// MarshalJSON writes the map as a JSON object in key-insertion order.
func (m *ProductMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.groups[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Mismatch holds both sides' full row lists for one normalized key
// whose tracked field disagrees between the sources.
type Mismatch struct {
	Primary    []Product `json:"primary"`
	Storefront []Product `json:"storefront"`
}

// MismatchMap is keyed by normalized key.
type MismatchMap map[string]Mismatch

// Keys returns the normalized keys sorted case-insensitively, ties
// broken by byte order, so surfaced output is stable.
func (m MismatchMap) Keys() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortFolded(out)
	return out
}

// MarshalJSON writes the map as a JSON object in sorted-key order.
func (m MismatchMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
