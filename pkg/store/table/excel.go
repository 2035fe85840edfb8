package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

const sheetName = "Sheet1"

// ExcelCodec reads the first worksheet of a workbook and writes a single-sheet workbook.
type ExcelCodec struct{}

func (ExcelCodec) Decode(r io.Reader) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("xlsx: unable to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Table{}, ErrEmpty
	}

	// Raw values, so a count of 2 formatted as "0.00" still reads as 2.
	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.Table{}, fmt.Errorf("xlsx: unable to read sheet %q: %w", sheets[0], err)
	}
	return buildTable(records)
}

// Encode writes numeric-looking cells as numbers so spreadsheets can sum them.
func (ExcelCodec) Encode(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for r, row := range sheet {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("xlsx: %w", err)
			}
			var v interface{} = value
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				v = n
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("xlsx: set %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}
