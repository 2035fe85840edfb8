package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

type CSVCodec struct{}

func (CSVCodec) Decode(r io.Reader) (domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("csv: unable to parse: %w", err)
	}
	return buildTable(records)
}

func (CSVCodec) Encode(w io.Writer, sheet Sheet) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(sheet); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}
