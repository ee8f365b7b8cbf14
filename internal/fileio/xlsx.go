package fileio

import (
	"bytes"
	"errors"
	"io"

	excelize "github.com/xuri/excelize/v2"

	"catalog-recon/internal/catalog"
)

func readXLSX(r io.Reader, headerRow int) (catalog.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return catalog.Table{}, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return catalog.Table{}, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return catalog.Table{}, errors.New("xlsx: workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return catalog.Table{}, err
	}
	h := pickHeader(rows, headerRow)
	return rowsToTable(rows, h, headerRow), nil
}
