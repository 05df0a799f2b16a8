package generator

import (
	"fmt"
	"sort"
	"time"

	"github.com/synabon/synabon/internal/metrics"
)

// sampleDate draws a uniformly random instant in [start, end) at second
// granularity. Instants landing on a Saturday or Sunday are redrawn over the
// full interval, not just its weekday part, so the per-weekday probability
// stays proportional to that weekday's share of the whole interval. Redraws
// are bounded; an interval without weekday instants yields ErrNoWeekday.
func (g *Generator) sampleDate(start, end time.Time) (time.Time, error) {
	seconds := int64(end.Sub(start) / time.Second)
	if seconds <= 0 {
		return time.Time{}, fmt.Errorf("%w: sampling interval [%s, %s) is empty",
			ErrConfig, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	for attempt := 0; attempt < g.maxWeekdayRetries; attempt++ {
		t := start.Add(time.Duration(g.rng.Int63n(seconds)) * time.Second)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return t, nil
		}
		metrics.WeekendRedraws.Inc()
	}
	return time.Time{}, fmt.Errorf("%w [%s, %s) after %d attempts",
		ErrNoWeekday, start.Format(time.RFC3339), end.Format(time.RFC3339), g.maxWeekdayRetries)
}

// sampleDates draws n independent weekday instants and returns them sorted
// ascending.
func (g *Generator) sampleDates(start, end time.Time, n int) ([]time.Time, error) {
	dates := make([]time.Time, n)
	for i := range dates {
		t, err := g.sampleDate(start, end)
		if err != nil {
			return nil, err
		}
		dates[i] = t
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
