// Package power exposes the two-sample power-analysis helpers: minimal
// detectable effect and required sample size, via a normal approximation to
// the two-sample t-test. The heavy lifting is delegated to gonum's
// distribution library.
package power

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrConfig is wrapped by every invalid-argument error in this package.
var ErrConfig = errors.New("power: invalid configuration")

const (
	DefaultAlpha = 0.05
	DefaultBeta  = 0.2
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// MDE returns the minimal relative effect detectable on a metric with the
// given mean and standard deviation, with sampleSize observations per group,
// significance level alpha and type-II error beta. Groups are assumed equal
// sized and the test two-sided.
func MDE(mean, std float64, sampleSize int, alpha, beta float64) (float64, error) {
	if err := validate(mean, std, alpha, beta); err != nil {
		return 0, err
	}
	if sampleSize <= 0 {
		return 0, fmt.Errorf("%w: sample size must be positive, got %d", ErrConfig, sampleSize)
	}

	z := stdNormal.Quantile(1-alpha/2) + stdNormal.Quantile(1-beta)
	effectSize := z * math.Sqrt(2/float64(sampleSize))
	return effectSize * std / mean, nil
}

// SampleSize returns the per-group observations needed to detect a relative
// effect of eff (e.g. 1.05 for +5%) on a metric with the given mean and
// standard deviation.
func SampleSize(mean, std, eff float64, alpha, beta float64) (int, error) {
	if err := validate(mean, std, alpha, beta); err != nil {
		return 0, err
	}
	effectSize := (eff - 1) * mean / std
	if effectSize == 0 {
		return 0, fmt.Errorf("%w: effect must differ from 1", ErrConfig)
	}

	z := stdNormal.Quantile(1-alpha/2) + stdNormal.Quantile(1-beta)
	n := 2 * z * z / (effectSize * effectSize)
	return int(math.Ceil(n)), nil
}

// MDEForSample estimates mean and standard deviation from a metric sample and
// computes the MDE assuming the sample splits into two equal groups.
func MDEForSample(values []float64, alpha, beta float64) (float64, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 observations, got %d", ErrConfig, len(values))
	}
	mean, std := stat.MeanStdDev(values, nil)
	return MDE(mean, std, len(values)/2, alpha, beta)
}

// SampleSizeForSample estimates mean and standard deviation from a metric
// sample and computes the per-group size needed to detect eff.
func SampleSizeForSample(values []float64, eff, alpha, beta float64) (int, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 observations, got %d", ErrConfig, len(values))
	}
	mean, std := stat.MeanStdDev(values, nil)
	return SampleSize(mean, std, eff, alpha, beta)
}

func validate(mean, std, alpha, beta float64) error {
	if mean == 0 {
		return fmt.Errorf("%w: mean must be non-zero", ErrConfig)
	}
	if std <= 0 {
		return fmt.Errorf("%w: std must be positive, got %v", ErrConfig, std)
	}
	if alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("%w: alpha must be in (0, 1), got %v", ErrConfig, alpha)
	}
	if beta <= 0 || beta >= 1 {
		return fmt.Errorf("%w: beta must be in (0, 1), got %v", ErrConfig, beta)
	}
	return nil
}
