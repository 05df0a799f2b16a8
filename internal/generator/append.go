package generator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/synabon/synabon/internal/metrics"
	"github.com/synabon/synabon/internal/models"
)

// Append extends a previously generated dataset forward in time by duration.
//
// For every user found in the existing dataset a new end balance and
// interaction count are drawn from the Generator's providers, and a forward
// transaction segment is synthesized starting from the user's reconstructed
// last balance, keeping the user's country and device. No new users and no new
// registration records are created. The result is a new, re-sorted dataset;
// the input is never mutated.
func (g *Generator) Append(existing models.Dataset, duration time.Duration) (models.Dataset, error) {
	if len(existing) == 0 {
		return nil, fmt.Errorf("%w: cannot append to an empty dataset", ErrConfig)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: append duration must be positive, got %s", ErrConfig, duration)
	}

	states := Reconstruct(existing)
	start, _ := existing.MaxDate()
	end := start.Add(duration)

	out := existing.Clone()
	appended := 0
	for _, st := range states {
		endBalance := g.endBalance.draw()
		n := g.interactions.drawCount()

		dates, err := g.sampleDates(start, end, n)
		if err != nil {
			return nil, err
		}
		amounts := g.synthesizeAmounts(st.Balance, endBalance, n)

		balance := st.Balance
		for i, amount := range amounts {
			balance += amount
			out = append(out, transactionRecord(st.UserID, balance, amount, st.Country, st.Device, dates[i]))
		}
		appended += n
	}
	out.SortByDate()

	metrics.RecordsGenerated.Add(float64(appended))
	slog.Debug("appended to dataset",
		"users", len(states), "new_records", appended, "start", start, "end", end)
	return out, nil
}
