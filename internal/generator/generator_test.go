package generator

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/synabon/synabon/internal/models"
)

func fixed(v float64) Provider {
	return func() (float64, error) { return v, nil }
}

func failing() Provider {
	return func() (float64, error) { return 0, errors.New("boom") }
}

var (
	testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	testEnd   = testStart.AddDate(0, 0, 14)
)

func TestGenerateConcreteScenario(t *testing.T) {
	g := newTestGenerator(t, Config{
		StartBalance: fixed(100),
		EndBalance:   fixed(150),
		Interactions: fixed(3),
		Countries:    []string{"NL"},
	})

	d, err := g.Generate(1, testStart, testEnd)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(d) != 4 {
		t.Fatalf("got %d records, want 4 (1 registration + 3 transactions)", len(d))
	}

	reg := d[0]
	if reg.Type != models.Registration {
		t.Errorf("first record type = %s, want registration", reg.Type)
	}
	if reg.Balance != 100 {
		t.Errorf("registration balance = %v, want 100", reg.Balance)
	}
	if !reg.Date.Equal(testStart) {
		t.Errorf("registration date = %s, want %s", reg.Date, testStart)
	}
	if reg.Amount != nil || reg.Commission != nil {
		t.Error("registration must have nil amount and commission")
	}

	sum := 0.0
	for _, r := range d[1:] {
		if r.Type != models.Transaction {
			t.Errorf("record type = %s, want transaction", r.Type)
		}
		if r.Amount == nil {
			t.Fatal("transaction has nil amount")
		}
		sum += *r.Amount
	}
	if math.Abs(sum-50) > 1e-9 {
		t.Errorf("transaction amounts sum = %v, want exactly 50", sum)
	}
}

func TestGeneratePopulationInvariants(t *testing.T) {
	const nUsers = 25
	g := newTestGenerator(t, Config{Countries: []string{"NL", "DE", "FR"}})

	d, err := g.Generate(nUsers, testStart, testEnd)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	type userAgg struct {
		registrations int
		transactions  int
		country       string
		device        string
	}
	users := make(map[string]*userAgg)

	for i, r := range d {
		if i > 0 && d[i].Date.Before(d[i-1].Date) {
			t.Fatalf("dataset not sorted at record %d", i)
		}
		if wd := r.Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("record %d dated on a %s", i, wd)
		}

		u, ok := users[r.UserID]
		if !ok {
			u = &userAgg{country: r.Country, device: r.Device}
			users[r.UserID] = u
		}
		if r.Country != u.country || r.Device != u.device {
			t.Errorf("user %s changed attributes mid-dataset", r.UserID)
		}

		switch r.Type {
		case models.Registration:
			u.registrations++
			if r.Amount != nil || r.Commission != nil {
				t.Errorf("registration for %s carries amount or commission", r.UserID)
			}
		case models.Transaction:
			u.transactions++
			if r.Amount == nil || r.Commission == nil {
				t.Fatalf("transaction for %s missing amount or commission", r.UserID)
			}
			want := CommissionRate * math.Abs(*r.Amount)
			if math.Abs(*r.Commission-want) > 1e-12 {
				t.Errorf("commission = %v, want %v", *r.Commission, want)
			}
		default:
			t.Errorf("unknown record type %q", r.Type)
		}
	}

	if len(users) != nUsers {
		t.Errorf("got %d distinct users, want %d", len(users), nUsers)
	}
	for id, u := range users {
		if u.registrations != 1 {
			t.Errorf("user %s has %d registrations, want exactly 1", id, u.registrations)
		}
	}
}

func TestGenerateIsDeterministicWithSeed(t *testing.T) {
	cfg := Config{Countries: []string{"NL", "DE"}}

	build := func() models.Dataset {
		g, err := New(cfg, WithSeed(7))
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		d, err := g.Generate(10, testStart, testEnd)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		return d
	}

	if a, b := build(), build(); !reflect.DeepEqual(a, b) {
		t.Error("two runs with the same seed produced different datasets")
	}
}

func TestGenerateFallsBackOnInvalidProvider(t *testing.T) {
	g := newTestGenerator(t, Config{
		StartBalance: failing(),
		Interactions: failing(),
		Countries:    []string{"NL"},
	})

	d, err := g.Generate(5, testStart, testEnd)
	if err != nil {
		t.Fatalf("Generate must absorb provider failures, got: %v", err)
	}
	for _, r := range d {
		if r.Type == models.Registration && r.Balance < 0 {
			t.Errorf("default start balance is negative: %v", r.Balance)
		}
	}
}

func TestGenerateZeroInteractions(t *testing.T) {
	g := newTestGenerator(t, Config{
		Interactions: fixed(0),
		Countries:    []string{"NL"},
	})

	d, err := g.Generate(3, testStart, testEnd)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(d) != 3 {
		t.Errorf("got %d records, want 3 registrations only", len(d))
	}
	for _, r := range d {
		if r.Type != models.Registration {
			t.Errorf("unexpected %s record for a zero-interaction user", r.Type)
		}
	}
}

func TestGenerateNegativeInteractionCountClamps(t *testing.T) {
	g := newTestGenerator(t, Config{
		Interactions: fixed(-5),
		Countries:    []string{"NL"},
	})

	d, err := g.Generate(2, testStart, testEnd)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(d) != 2 {
		t.Errorf("got %d records, want 2", len(d))
	}
}

func TestGenerateRejectsBadArguments(t *testing.T) {
	g := newTestGenerator(t, Config{Countries: []string{"NL"}})

	if _, err := g.Generate(0, testStart, testEnd); !errors.Is(err, ErrConfig) {
		t.Errorf("n_users=0: expected ErrConfig, got %v", err)
	}
	if _, err := g.Generate(1, testEnd, testStart); !errors.Is(err, ErrConfig) {
		t.Errorf("inverted interval: expected ErrConfig, got %v", err)
	}
}
