package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"catalog-recon/internal/catalog"
)

// readCSV reads a delimited export, sniffing the encoding from the
// first couple of KB. UTF-8 and Windows-1251 are handled; the delimiter
// is sniffed from the header line since storefront exports ship both
// comma- and semicolon-separated.
func readCSV(r io.Reader, headerRow int) (catalog.Table, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1251", "cp1251":
		dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
	default:
		// assume UTF-8
	}

	cr := csv.NewReader(dec)
	cr.Comma = sniffDelimiter(peek)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return catalog.Table{}, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return catalog.Table{}, nil
	}
	h := pickHeader(rows, headerRow)
	return rowsToTable(rows, h, headerRow), nil
}

// sniffDelimiter counts candidate separators on the first line.
func sniffDelimiter(peek []byte) rune {
	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, sep := 0, ','
	for _, cand := range []rune{',', ';', '\t'} {
		if n := strings.Count(line, string(cand)); n > best {
			best, sep = n, cand
		}
	}
	return sep
}
