// Package generator implements the user-activity synthesis engine: it builds
// populations of synthetic users with balance-bounded transaction histories,
// business-day timestamps and fixed demographic attributes, and extends
// previously generated datasets forward in time.
package generator

import "errors"

// ErrConfig is wrapped by every fatal configuration error. A call that returns
// a configuration error produced no dataset.
var ErrConfig = errors.New("generator: invalid configuration")

// ErrNoWeekday is returned when the weekday retry bound is exhausted. It
// indicates a sampling interval that contains no (or almost no) weekday
// instants, which is a caller precondition violation.
var ErrNoWeekday = errors.New("generator: no weekday instant found in interval")

// Defaults used when the caller supplies no provider or configuration knob.
const (
	// DefaultBalanceMean is the mean of the exponential distribution backing
	// the default start- and end-balance providers.
	DefaultBalanceMean = 1000.0

	// DefaultInteractionsMean is the λ of the Poisson distribution backing the
	// default interaction-count provider.
	DefaultInteractionsMean = 10.0

	// DefaultMaxWeekdayRetries bounds how many times a sampled instant that
	// landed on a weekend is redrawn before giving up with ErrNoWeekday.
	DefaultMaxWeekdayRetries = 1000
)

// CommissionRate is applied to the absolute transaction amount.
const CommissionRate = 0.003

// Config describes one generation run. The zero value is not usable on its
// own: exactly one of Countries or NumCountries must be set.
type Config struct {
	// StartBalance, EndBalance and Interactions are optional value providers.
	// A nil provider, or one whose validation probe fails, is replaced by the
	// built-in default distribution (exponential for balances, Poisson for
	// interaction counts). A failing probe logs a warning; it never aborts
	// the run.
	StartBalance Provider
	EndBalance   Provider
	Interactions Provider

	// Countries is an explicit country pool. Mutually exclusive with
	// NumCountries; exactly one of the two must be supplied.
	Countries []string

	// NumCountries requests that many distinct countries from the synthetic
	// attribute provider.
	NumCountries int

	// CountryWeights is an optional probability vector over the country pool.
	// When present it must have the same length as the pool and sum to
	// exactly 1.
	CountryWeights []float64

	// MaxWeekdayRetries overrides DefaultMaxWeekdayRetries when positive.
	MaxWeekdayRetries int
}
