package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/David-Botos/kempis-corpus/pkg/converter"
	"github.com/David-Botos/kempis-corpus/pkg/model"
)

// ErrEmptyTable is returned when a table file has no header row
var ErrEmptyTable = errors.New("table file is empty")

// ReadRows parses a table written by WriteRows. The header must match the
// converter's columns exactly.
func ReadRows(r io.Reader, conv *converter.RowConverter) ([]model.Row, error) {
	cr := csv.NewReader(r)
	cr.Comma = fieldSeparator
	cr.FieldsPerRecord = len(conv.Header())
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := conv.ValidateHeader(header); err != nil {
		return nil, err
	}

	var rows []model.Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row, err := conv.FromRecord(record)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadFile opens path and parses it with ReadRows
func ReadFile(path string, conv *converter.RowConverter) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ReadRows(f, conv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
