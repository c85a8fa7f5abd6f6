package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var ErrFieldSize = errors.New("storage: field sizes do not match")

// SnapshotFileName is fields_NNNNNN.csv for the given loop index.
func SnapshotFileName(index int) string {
	return fmt.Sprintf("fields_%06d.csv", index)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}

// WriteSnapshot writes an x,E,H table with one row per E node. H has one
// entry fewer than E, so its cell on the last row is empty.
func WriteSnapshot(w io.Writer, x, e, h []float64) error {
	if len(x) != len(e) {
		return fmt.Errorf("x has %d entries, E has %d: %w", len(x), len(e), ErrFieldSize)
	}
	if len(h)+1 != len(e) {
		return fmt.Errorf("H has %d entries, want %d: %w", len(h), len(e)-1, ErrFieldSize)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "E", "H"}); err != nil {
		return err
	}
	row := make([]string, 3)
	for i := range e {
		row[0] = formatValue(x[i])
		row[1] = formatValue(e[i])
		row[2] = ""
		if i < len(h) {
			row[2] = formatValue(h[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSnapshot parses a table written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (x, e, h []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, nil, fmt.Errorf("snapshot has no rows: %w", ErrFieldSize)
	}

	rows := records[1:]
	x = make([]float64, len(rows))
	e = make([]float64, len(rows))
	h = make([]float64, 0, len(rows)-1)
	for i, rec := range rows {
		if x[i], err = strconv.ParseFloat(rec[0], 64); err != nil {
			return nil, nil, nil, fmt.Errorf("row %d x: %w", i+1, err)
		}
		if e[i], err = strconv.ParseFloat(rec[1], 64); err != nil {
			return nil, nil, nil, fmt.Errorf("row %d E: %w", i+1, err)
		}
		if i == len(rows)-1 {
			if rec[2] != "" {
				return nil, nil, nil, fmt.Errorf("last row carries an H value: %w", ErrFieldSize)
			}
			break
		}
		v, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("row %d H: %w", i+1, err)
		}
		h = append(h, v)
	}
	return x, e, h, nil
}
