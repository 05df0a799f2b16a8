package generator

import (
	"errors"
	"testing"
	"time"
)

// newTestGenerator builds a seeded Generator so tests are reproducible.
func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	g, err := New(cfg, WithSeed(42))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g
}

func TestSampleDatesExcludesWeekends(t *testing.T) {
	g := newTestGenerator(t, Config{Countries: []string{"NL"}})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	end := start.AddDate(0, 0, 14)

	dates, err := g.sampleDates(start, end, 500)
	if err != nil {
		t.Fatalf("sampleDates failed: %v", err)
	}
	if len(dates) != 500 {
		t.Fatalf("got %d dates, want 500", len(dates))
	}

	for i, d := range dates {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("date %d = %s falls on a %s", i, d, wd)
		}
		if d.Before(start) || !d.Before(end) {
			t.Errorf("date %d = %s outside [%s, %s)", i, d, start, end)
		}
		if i > 0 && d.Before(dates[i-1]) {
			t.Errorf("dates not sorted: %s before %s", d, dates[i-1])
		}
	}
}

func TestSampleDateWeekendOnlyIntervalFailsFast(t *testing.T) {
	g := newTestGenerator(t, Config{Countries: []string{"NL"}, MaxWeekdayRetries: 50})
	start := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC) // a Saturday
	end := time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC)  // the following Sunday

	_, err := g.sampleDate(start, end)
	if !errors.Is(err, ErrNoWeekday) {
		t.Errorf("expected ErrNoWeekday, got %v", err)
	}
}

func TestSampleDateEmptyInterval(t *testing.T) {
	g := newTestGenerator(t, Config{Countries: []string{"NL"}})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := g.sampleDate(start, start)
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for empty interval, got %v", err)
	}
}
