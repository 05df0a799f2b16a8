package generator

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/synabon/synabon/internal/metrics"
	"github.com/synabon/synabon/internal/models"
)

// Generator synthesizes user populations. All randomness flows through a
// single injectable source, so a seeded Generator produces identical datasets
// across runs. A Generator is not safe for concurrent use; run one per
// goroutine with independently seeded sources instead.
type Generator struct {
	rng   *rand.Rand
	attrs AttributeProvider

	startBalance resolvedProvider
	endBalance   resolvedProvider
	interactions resolvedProvider

	countries  []string
	cumWeights []float64

	maxWeekdayRetries int
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSeed makes every draw of the Generator deterministic.
func WithSeed(seed uint64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand supplies the random source directly, for callers partitioning work
// across independently seeded sub-streams.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

// WithAttributes replaces the gofakeit-backed attribute provider.
func WithAttributes(p AttributeProvider) Option {
	return func(g *Generator) { g.attrs = p }
}

// New validates the configuration and builds a Generator. Configuration errors
// (country pool, probability vector) are fatal; provider problems are not.
func New(cfg Config, opts ...Option) (*Generator, error) {
	g := &Generator{
		maxWeekdayRetries: cfg.MaxWeekdayRetries,
	}
	if g.maxWeekdayRetries <= 0 {
		g.maxWeekdayRetries = DefaultMaxWeekdayRetries
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	if g.attrs == nil {
		g.attrs = fakeitAttributes{f: gofakeit.New(g.rng.Uint64())}
	}

	countries, err := resolveCountries(cfg, g.attrs)
	if err != nil {
		return nil, err
	}
	if err := validateWeights(countries, cfg.CountryWeights); err != nil {
		return nil, err
	}
	g.countries = countries
	g.cumWeights = cumulative(cfg.CountryWeights)

	g.startBalance = resolveProvider("start_balance", cfg.StartBalance,
		exponentialProvider(DefaultBalanceMean, g.rng))
	g.endBalance = resolveProvider("end_balance", cfg.EndBalance,
		exponentialProvider(DefaultBalanceMean, g.rng))
	g.interactions = resolveProvider("n_interactions", cfg.Interactions,
		poissonProvider(DefaultInteractionsMean, g.rng))

	return g, nil
}

// Generate builds a dataset of nUsers synthetic users with event timestamps in
// [start, end). Users are independent: each gets a fresh identifier, fixed
// country and device, one registration record at start, and a telescoping
// transaction history bridging its start and end balances. The returned
// dataset is sorted by timestamp ascending.
func (g *Generator) Generate(nUsers int, start, end time.Time) (models.Dataset, error) {
	if nUsers <= 0 {
		return nil, fmt.Errorf("%w: n_users must be positive, got %d", ErrConfig, nUsers)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_dt must be after start_dt", ErrConfig)
	}
	if len(g.countries) == 0 {
		return nil, fmt.Errorf("%w: either countries or n_countries must be supplied", ErrConfig)
	}

	records := make(models.Dataset, 0, nUsers*(int(DefaultInteractionsMean)+1))
	for i := 0; i < nUsers; i++ {
		userRecords, err := g.generateUser(start, end)
		if err != nil {
			return nil, err
		}
		records = append(records, userRecords...)
	}
	records.SortByDate()

	metrics.RecordsGenerated.Add(float64(len(records)))
	slog.Debug("generated population", "users", nUsers, "records", len(records))
	return records, nil
}

// generateUser emits one registration record followed by the user's
// transaction records, in timestamp order.
func (g *Generator) generateUser(start, end time.Time) ([]models.Record, error) {
	// User ids come from the injected source so seeded runs are reproducible.
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to create user id: %w", err)
	}
	userID := id.String()
	startBalance := g.startBalance.draw()
	endBalance := g.endBalance.draw()
	n := g.interactions.drawCount()
	country := g.pickCountry()
	device := g.attrs.Device()

	dates, err := g.sampleDates(start, end, n)
	if err != nil {
		return nil, err
	}
	amounts := g.synthesizeAmounts(startBalance, endBalance, n)

	records := make([]models.Record, 0, n+1)
	records = append(records, models.Record{
		UserID:  userID,
		Balance: startBalance,
		Type:    models.Registration,
		Country: country,
		Device:  device,
		Date:    start,
	})

	balance := startBalance
	for i, amount := range amounts {
		balance += amount
		records = append(records, transactionRecord(userID, balance, amount, country, device, dates[i]))
	}
	return records, nil
}

func transactionRecord(userID string, balance, amount float64, country, device string, date time.Time) models.Record {
	commission := CommissionRate * math.Abs(amount)
	return models.Record{
		UserID:     userID,
		Balance:    balance,
		Amount:     &amount,
		Type:       models.Transaction,
		Commission: &commission,
		Country:    country,
		Device:     device,
		Date:       date,
	}
}
