package generator

import (
	"log/slog"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/synabon/synabon/internal/metrics"
)

// Provider yields one random numeric value per call. Returning an error marks
// the draw as invalid; the engine falls back to its built-in default.
type Provider func() (float64, error)

// resolvedProvider pairs the provider chosen at construction time with the
// built-in default it degrades to if a later draw fails.
type resolvedProvider struct {
	name string
	p    Provider
	def  Provider
}

// resolveProvider validates a caller-supplied provider by probing it once.
// A nil provider silently resolves to the default; a failing probe resolves to
// the default with a warning. This is the only place provider errors are
// inspected ahead of generation.
func resolveProvider(name string, supplied, def Provider) resolvedProvider {
	rp := resolvedProvider{name: name, p: supplied, def: def}
	if supplied == nil {
		rp.p = def
		return rp
	}
	if _, err := supplied(); err != nil {
		slog.Warn("value provider failed validation, using default",
			"provider", name, "error", err)
		metrics.ProviderFallbacks.Inc()
		rp.p = def
	}
	return rp
}

// draw pulls one value, degrading to the default distribution if the chosen
// provider fails mid-run. Provider failures never abort a generation call.
func (rp resolvedProvider) draw() float64 {
	v, err := rp.p()
	if err != nil {
		slog.Warn("value provider draw failed, using default",
			"provider", rp.name, "error", err)
		metrics.ProviderFallbacks.Inc()
		v, _ = rp.def()
	}
	return v
}

// drawCount pulls one value and coerces it to a non-negative integer count.
func (rp resolvedProvider) drawCount() int {
	n := int(rp.draw())
	if n < 0 {
		n = 0
	}
	return n
}

func exponentialProvider(mean float64, src rand.Source) Provider {
	dist := distuv.Exponential{Rate: 1 / mean, Src: src}
	return func() (float64, error) { return dist.Rand(), nil }
}

func poissonProvider(lambda float64, src rand.Source) Provider {
	dist := distuv.Poisson{Lambda: lambda, Src: src}
	return func() (float64, error) { return dist.Rand(), nil }
}
