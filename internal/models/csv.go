package models

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes the dataset with a header row in the canonical column order.
// Nil amounts and commissions become empty cells.
func WriteCSV(w io.Writer, d Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range d {
		row := []string{
			r.UserID,
			formatFloat(r.Balance),
			formatNullable(r.Amount),
			string(r.Type),
			formatNullable(r.Commission),
			r.Country,
			r.Device,
			r.Date.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a dataset previously written by WriteCSV.
func ReadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) != len(Columns) {
		return nil, fmt.Errorf("unexpected CSV header: got %d columns, want %d", len(header), len(Columns))
	}

	var out Dataset
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		rec := Record{
			UserID:  row[0],
			Type:    InteractionType(row[3]),
			Country: row[5],
			Device:  row[6],
		}
		if rec.Balance, err = strconv.ParseFloat(row[1], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad user_balance %q: %w", line, row[1], err)
		}
		if rec.Amount, err = parseNullable(row[2]); err != nil {
			return nil, fmt.Errorf("line %d: bad interaction_sum %q: %w", line, row[2], err)
		}
		if rec.Commission, err = parseNullable(row[4]); err != nil {
			return nil, fmt.Errorf("line %d: bad transaction_commission %q: %w", line, row[4], err)
		}
		if rec.Date, err = time.Parse(time.RFC3339, row[7]); err != nil {
			return nil, fmt.Errorf("line %d: bad date %q: %w", line, row[7], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func parseNullable(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
