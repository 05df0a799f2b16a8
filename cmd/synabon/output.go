package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/synabon/synabon/internal/bucket"
	"github.com/synabon/synabon/internal/models"
)

// writeBucketedCSV writes the dataset in its canonical column order with one
// extra column per bucket assignment.
func writeBucketedCSV(w io.Writer, d models.Dataset, a *bucket.Assignment) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, models.Columns...), columnNames(a)...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, r := range d {
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
		for _, col := range a.Columns {
			row = append(row, strconv.Itoa(col.Groups[i]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func columnNames(a *bucket.Assignment) []string {
	names := make([]string, len(a.Columns))
	for i, col := range a.Columns {
		names[i] = col.Name
	}
	return names
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
