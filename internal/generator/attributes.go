package generator

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// AttributeProvider fabricates demographic attribute values. It is expected to
// be a pure, synchronous source of plausible strings.
type AttributeProvider interface {
	// Country returns one plausible country name.
	Country() string
	// Device returns one plausible device name.
	Device() string
}

var devicePool = []string{"ios", "android", "web", "desktop"}

// fakeitAttributes backs AttributeProvider with gofakeit.
type fakeitAttributes struct {
	f *gofakeit.Faker
}

func (a fakeitAttributes) Country() string { return a.f.Country() }

func (a fakeitAttributes) Device() string { return a.f.RandomString(devicePool) }

// resolveCountries enforces mutual exclusion between an explicit pool and a
// requested pool size, and materializes the pool. Requested pools are filled
// with distinct names from the attribute provider. Supplying neither is legal
// here: a pool-less Generator can still Append, which reuses reconstructed
// countries; Generate rejects it.
func resolveCountries(cfg Config, attrs AttributeProvider) ([]string, error) {
	explicit := len(cfg.Countries) > 0
	requested := cfg.NumCountries > 0

	switch {
	case explicit && requested:
		return nil, fmt.Errorf("%w: countries and n_countries are mutually exclusive", ErrConfig)
	case !explicit && !requested:
		return nil, nil
	case explicit:
		return cfg.Countries, nil
	}

	seen := make(map[string]bool, cfg.NumCountries)
	pool := make([]string, 0, cfg.NumCountries)
	// The provider's country list is finite; cap the draws so an oversized
	// request fails instead of spinning.
	for attempts := 0; len(pool) < cfg.NumCountries; attempts++ {
		if attempts >= cfg.NumCountries*100 {
			return nil, fmt.Errorf("%w: could not obtain %d distinct countries from the attribute provider",
				ErrConfig, cfg.NumCountries)
		}
		c := attrs.Country()
		if !seen[c] {
			seen[c] = true
			pool = append(pool, c)
		}
	}
	return pool, nil
}

// validateWeights checks an optional probability vector against the resolved
// pool. The sum check is exact equality: a vector like [0.3, 0.3, 0.3] is
// rejected even though it is "close".
func validateWeights(countries []string, weights []float64) error {
	if weights == nil {
		return nil
	}
	if len(weights) != len(countries) {
		return fmt.Errorf("%w: p_countries has %d entries for %d countries",
			ErrConfig, len(weights), len(countries))
	}
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum != 1 {
		return fmt.Errorf("%w: p_countries sums to %v, want exactly 1", ErrConfig, sum)
	}
	return nil
}

// pickCountry draws from the resolved pool, weighted when a probability vector
// was supplied.
func (g *Generator) pickCountry() string {
	if len(g.cumWeights) == 0 {
		return g.countries[g.rng.Intn(len(g.countries))]
	}
	x := g.rng.Float64()
	for i, c := range g.cumWeights {
		if x < c {
			return g.countries[i]
		}
	}
	return g.countries[len(g.countries)-1]
}

func cumulative(weights []float64) []float64 {
	if len(weights) == 0 {
		return nil
	}
	out := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		out[i] = sum
	}
	return out
}
