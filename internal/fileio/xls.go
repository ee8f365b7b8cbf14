// Legacy .xls reader. The library's per-row LastCol is unreliable for
// exports with ragged rows, so the table width is measured up front and
// every row is read out to it.
package fileio

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"

	"catalog-recon/internal/catalog"
)

// computeMaxCols probes every row for the rightmost non-empty cell.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 512
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < probeMax; j++ {
			if normalizeCell(row.Col(j)) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	if maxCols == 0 {
		maxCols = 1
	}
	return maxCols
}

func readXLS(r io.Reader, headerRow int) (catalog.Table, error) {
	if headerRow <= 0 {
		return catalog.Table{}, errors.New("headerRow must be 1-based and >= 1")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return catalog.Table{}, err
	}

	// legacy exports are usually cp1251, occasionally UTF-8 or KOI8-R
	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"windows-1251", "utf-8", "koi8-r"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return catalog.Table{}, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return catalog.Table{}, nil
	}

	maxCols := computeMaxCols(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = normalizeCell(row.Col(j))
			}
		}
		rows = append(rows, cols)
	}

	h := pickHeader(rows, headerRow)
	return rowsToTable(rows, h, headerRow), nil
}
