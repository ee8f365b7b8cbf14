// Package fileio reads catalog exports (CSV, XLS, XLSX) into the
// in-memory table shape the reconciliation core consumes. Encoding and
// delimiter concerns live here; the core only ever sees resolved
// header names and string cells.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"catalog-recon/internal/catalog"
)

// ReadAnyTable picks a parser by file extension and returns the rows as
// a header-resolved table. headerRow is 1-based.
func ReadAnyTable(r io.Reader, filename string, headerRow int) (catalog.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv":
		return readCSV(r, headerRow)
	default:
		return catalog.Table{}, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// pickHeader takes the header row and substitutes "Column N" for blanks
// so every cell stays addressable.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		out[i] = v
	}
	return out
}

// rowsToTable converts the raw cell grid into a Table, dropping rows
// that are empty across every column.
func rowsToTable(rows [][]string, headers []string, headerRow int) catalog.Table {
	t := catalog.Table{Headers: headers}
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		row := make(catalog.Row, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			row[h] = v
			if empty && strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// normalizeCell trims cell padding that legacy exports are full of.
func normalizeCell(s string) string {
	return strings.TrimSpace(s)
}
