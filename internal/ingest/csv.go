package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmehdipour/insights/internal/model"
)

// Result is the outcome of one ingestion pass.
type Result struct {
	Accounts []model.Account
	Invalid  []model.InvalidRow
}

// Add records a normalized row or, on error, an invalid row sample.
func (r *Result) Add(rowNumber int, row map[string]string, a model.Account, err error) {
	if err != nil {
		r.Invalid = append(r.Invalid, InvalidRow(rowNumber, row, err))
		return
	}
	r.Accounts = append(r.Accounts, a)
}

// InvalidRow builds the report entry for a rejected row.
func InvalidRow(rowNumber int, row map[string]string, err error) model.InvalidRow {
	cp := make(map[string]any, len(row))
	for k, v := range row {
		cp[k] = v
	}
	return model.InvalidRow{RowNumber: rowNumber, Row: cp, Error: err.Error()}
}

// ReadRows streams CSV rows as header-keyed maps. Rows are numbered from 1
// (first data row); a malformed row is passed to fn with a nil map and its
// parse error. Only I/O and header problems stop the read.
func ReadRows(r io.Reader, fn func(n int, row map[string]string, err error)) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("csv: missing header row")
		}
		return fmt.Errorf("csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	for idx := 1; ; idx++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				fn(idx, nil, err)
				continue
			}
			return fmt.Errorf("csv row %d: %w", idx, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = fields[i]
			}
		}
		fn(idx, row, nil)
	}
}

// ReadCSV reads a header row followed by account rows. Bad rows land in
// Result.Invalid.
func ReadCSV(r io.Reader) (Result, error) {
	var res Result
	err := ReadRows(r, func(n int, row map[string]string, err error) {
		if err != nil {
			res.Invalid = append(res.Invalid, InvalidRow(n, row, err))
			return
		}
		a, err := NormalizeRow(row)
		res.Add(n, row, a, err)
	})
	return res, err
}

// LoadFile reads accounts from the CSV file at path.
func LoadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f)
}
