// Package table reads input tables and writes result sheets as CSV or Excel files,
// on local disk or in S3.
package table

import (
	"errors"
	"io"
	"path"
	"strings"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

var (
	ErrNotFound          = errors.New("input file does not exist")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmpty             = errors.New("input file is empty or has no header")
	ErrMissingColumn     = errors.New("missing required column")
	ErrOutputDir         = errors.New("output directory does not exist")
)

// Sheet is a fully rendered output grid.
type Sheet [][]string

type Codec interface {
	Decode(r io.Reader) (domain.Table, error)
	Encode(w io.Writer, sheet Sheet) error
}

func extension(p string) string {
	return strings.ToLower(path.Ext(p))
}

// utf8BOM is written by spreadsheet tools at the start of "CSV UTF-8" exports.
const utf8BOM = "\ufeff"

// buildTable turns a header plus records into a Table. Header names are trimmed,
// fully blank records are skipped, and short records leave trailing columns absent.
func buildTable(records [][]string) (domain.Table, error) {
	if len(records) == 0 {
		return domain.Table{}, ErrEmpty
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = strings.TrimSpace(name)
	}

	t := domain.Table{Columns: header}
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = domain.Cell(record[i])
			} else {
				row[col] = domain.Absent()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
